package projects

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"quoteme/internal/domain"
	"quoteme/internal/pkg/ai"
)

type memProjectStore struct {
	nextID   int64
	projects map[int64]*domain.Project
}

func newMemProjectStore() *memProjectStore {
	return &memProjectStore{projects: map[int64]*domain.Project{}}
}

func (m *memProjectStore) Create(_ context.Context, p *domain.Project) error {
	m.nextID++
	p.ID = m.nextID
	p.Status = domain.ProjectPending
	p.CreatedAt = time.Now()
	cp := *p
	m.projects[p.ID] = &cp
	return nil
}

func (m *memProjectStore) GetByID(_ context.Context, id int64) (*domain.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

type fixedClassifier struct {
	trades []domain.Trade
	err    error
}

func (f fixedClassifier) Classify(context.Context, string) ([]domain.Trade, error) {
	return f.trades, f.err
}

type noopMatcher struct {
	dispatched chan int64
}

func (m *noopMatcher) FindCandidates(_ context.Context, p *domain.Project) ([]domain.Provider, error) {
	return []domain.Provider{{ID: 9}}, nil
}

func (m *noopMatcher) NotifyCandidates(_ context.Context, p *domain.Project, _ []domain.Provider) {
	if m.dispatched != nil {
		m.dispatched <- p.ID
	}
}

func validRequest() SubmitProjectRequest {
	return SubmitProjectRequest{
		UserName:    "Dana",
		UserEmail:   "dana@example.com",
		Description: "Leaky pipe under the kitchen sink needs fixing",
	}
}

func TestSubmitProject_UsesClassifiedTrades(t *testing.T) {
	store := newMemProjectStore()
	svc := NewService(store, fixedClassifier{trades: []domain.Trade{domain.TradePlumber}}, &noopMatcher{}, zap.NewNop())

	resp, err := svc.SubmitProject(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, []domain.Trade{domain.TradePlumber}, resp.RequiredTrades)
	assert.Equal(t, string(domain.ProjectPending), resp.Status)
}

func TestSubmitProject_ClassifierFailureFallsBack(t *testing.T) {
	store := newMemProjectStore()
	svc := NewService(store, fixedClassifier{err: ai.ErrTransient}, &noopMatcher{}, zap.NewNop())

	resp, err := svc.SubmitProject(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, []domain.Trade{domain.DefaultTrade}, resp.RequiredTrades)
}

func TestSubmitProject_EmptyClassificationFallsBack(t *testing.T) {
	store := newMemProjectStore()
	svc := NewService(store, fixedClassifier{}, &noopMatcher{}, zap.NewNop())

	resp, err := svc.SubmitProject(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, []domain.Trade{domain.DefaultTrade}, resp.RequiredTrades)
}

func TestSubmitProject_DispatchRuns(t *testing.T) {
	store := newMemProjectStore()
	matcher := &noopMatcher{dispatched: make(chan int64, 1)}
	svc := NewService(store, fixedClassifier{trades: []domain.Trade{domain.TradePlumber}}, matcher, zap.NewNop())

	resp, err := svc.SubmitProject(context.Background(), validRequest())
	require.NoError(t, err)

	select {
	case id := <-matcher.dispatched:
		assert.Equal(t, resp.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("candidate dispatch never ran")
	}
}

func TestSubmitProject_Validation(t *testing.T) {
	svc := NewService(newMemProjectStore(), fixedClassifier{}, &noopMatcher{}, zap.NewNop())

	req := validRequest()
	req.UserEmail = "not-an-email"
	_, err := svc.SubmitProject(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidProject)

	req = validRequest()
	req.Description = "short"
	_, err = svc.SubmitProject(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidProject)
}

func TestGetProject_MasksContactUntilSent(t *testing.T) {
	store := newMemProjectStore()
	svc := NewService(store, fixedClassifier{trades: []domain.Trade{domain.TradePlumber}}, &noopMatcher{}, zap.NewNop())

	created, err := svc.SubmitProject(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.MaskedUserName, created.UserName)
	assert.Equal(t, domain.MaskedUserEmail, created.UserEmail)

	got, err := svc.GetProject(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MaskedUserName, got.UserName)
	assert.Equal(t, domain.MaskedUserEmail, got.UserEmail)

	store.projects[created.ID].IsCombinedSent = true
	got, err = svc.GetProject(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana", got.UserName)
	assert.Equal(t, "dana@example.com", got.UserEmail)
}

func TestGetProject_NotFound(t *testing.T) {
	svc := NewService(newMemProjectStore(), fixedClassifier{}, &noopMatcher{}, zap.NewNop())

	_, err := svc.GetProject(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}
