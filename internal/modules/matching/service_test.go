package matching

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quoteme/internal/domain"
)

type staticProviders struct {
	providers []domain.Provider
}

func (s *staticProviders) ListByStatus(_ context.Context, status domain.ProviderStatus) ([]domain.Provider, error) {
	var out []domain.Provider
	for _, p := range s.providers {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	notified []int64
	failFor  map[int64]bool
}

func (r *recordingNotifier) NotifyNewProject(_ context.Context, providerID int64, _ *domain.Project) error {
	if r.failFor[providerID] {
		return errors.New("push channel down")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notified = append(r.notified, providerID)
	return nil
}

func coord(lat, lon float64) *domain.Coordinate {
	return &domain.Coordinate{Lat: lat, Lon: lon}
}

var london = coord(51.5074, -0.1278)

func testProject(trades ...domain.Trade) *domain.Project {
	return &domain.Project{ID: 1, RequiredTrades: trades, Location: london}
}

func newMatcher(providers []domain.Provider, notifier Notifier) *Service {
	return NewService(
		Config{RadiusKm: 50, Workers: 4},
		&staticProviders{providers: providers},
		notifier,
		zap.NewNop(),
	)
}

func TestFindCandidates_FiltersByTradeRadiusAndStatus(t *testing.T) {
	providers := []domain.Provider{
		// right trade, 20km out: match
		{ID: 1, Status: domain.ProviderActive, Trades: []domain.Trade{domain.TradePlumber}, Location: coord(51.6, 0.05)},
		// wrong trade
		{ID: 2, Status: domain.ProviderActive, Trades: []domain.Trade{domain.TradePainter}, Location: london},
		// right trade but in Paris
		{ID: 3, Status: domain.ProviderActive, Trades: []domain.Trade{domain.TradePlumber}, Location: coord(48.8566, 2.3522)},
		// right trade, right place, deactivated
		{ID: 4, Status: domain.ProviderDeactivated, Trades: []domain.Trade{domain.TradePlumber}, Location: london},
		// right trade, no location: fail closed
		{ID: 5, Status: domain.ProviderActive, Trades: []domain.Trade{domain.TradePlumber}},
	}
	svc := newMatcher(providers, &recordingNotifier{})

	candidates, err := svc.FindCandidates(context.Background(), testProject(domain.TradePlumber))

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, int64(1), candidates[0].ID)
}

func TestFindCandidates_ProjectWithoutLocationMatchesNobody(t *testing.T) {
	providers := []domain.Provider{
		{ID: 1, Status: domain.ProviderActive, Trades: []domain.Trade{domain.TradePlumber}, Location: london},
	}
	svc := newMatcher(providers, &recordingNotifier{})

	project := &domain.Project{ID: 1, RequiredTrades: []domain.Trade{domain.TradePlumber}}
	candidates, err := svc.FindCandidates(context.Background(), project)

	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestNotifyCandidates_FailureDoesNotBlockOthers(t *testing.T) {
	notifier := &recordingNotifier{failFor: map[int64]bool{2: true}}
	svc := newMatcher(nil, notifier)

	candidates := []domain.Provider{{ID: 1}, {ID: 2}, {ID: 3}}
	svc.NotifyCandidates(context.Background(), testProject(domain.TradePlumber), candidates)

	assert.ElementsMatch(t, []int64{1, 3}, notifier.notified)
}
