package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"quoteme/internal/domain"
	"quoteme/internal/pkg/ai"
)

// AggregationStatus describes where a project sits in its aggregation
// lifecycle at the moment of the call.
type AggregationStatus string

const (
	StatusIncomplete      AggregationStatus = "INCOMPLETE"
	StatusComplete        AggregationStatus = "COMPLETE"
	StatusPartialComplete AggregationStatus = "PARTIAL_COMPLETE"
)

type ProviderLink struct {
	ProviderID int64  `json:"provider_id"`
	Name       string `json:"name"`
	ProfileURL string `json:"profile_url"`
}

type AggregationResult struct {
	ProjectID     int64             `json:"project_id"`
	Status        AggregationStatus `json:"status"`
	TotalCost     float64           `json:"total_cost"`
	Summary       string            `json:"summary,omitempty"`
	ProviderLinks []ProviderLink    `json:"provider_links,omitempty"`
	MissingTrades []domain.Trade    `json:"missing_trades,omitempty"`
}

type Config struct {
	// BidWindow is how long a project waits for full trade coverage before
	// a partial combined quote is allowed out (48h in production).
	BidWindow time.Duration
	// ProfileBaseURL prefixes provider profile links in the result.
	ProfileBaseURL string
}

type Service struct {
	cfg           Config
	projects      ProjectStore
	quotes        QuoteStore
	providers     ProviderStore
	notifications NotificationStore
	summarizer    ai.Summarizer
	now           func() time.Time
	log           *zap.Logger
}

func NewService(cfg Config, projects ProjectStore, quotes QuoteStore, providers ProviderStore,
	notifications NotificationStore, summarizer ai.Summarizer, log *zap.Logger) *Service {
	return &Service{
		cfg:           cfg,
		projects:      projects,
		quotes:        quotes,
		providers:     providers,
		notifications: notifications,
		summarizer:    summarizer,
		now:           time.Now,
		log:           log,
	}
}

// WithClock overrides the wall clock. Tests use it to pin the bid window.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Aggregate computes the combined quote for a project.
//
// Before the bid window elapses an incomplete project short-circuits with
// the missing trades and no side effects. After the window the project
// finalizes as a partial result. Finalization validates every selected
// bid's provider against live storage, sums the selected amounts, asks the
// summarizer for prose, and then races for the one-way isCombinedSent
// latch: only the winner fires QUOTE_ACCEPTED notifications, so repeated
// calls return the same result without re-firing anything.
func (s *Service) Aggregate(ctx context.Context, projectID int64) (*AggregationResult, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load project: %w", err)
	}

	bids, err := s.quotes.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}

	missing := missingTrades(project.RequiredTrades, bids)
	status := StatusComplete
	if len(missing) > 0 {
		age := s.now().Sub(project.CreatedAt)
		if age < s.cfg.BidWindow {
			return &AggregationResult{
				ProjectID:     projectID,
				Status:        StatusIncomplete,
				MissingTrades: missing,
			}, nil
		}
		status = StatusPartialComplete
	}

	selected := selectedBids(bids)

	// Provider status is read fresh here, never from a cache, so a
	// deactivation landing just before this call still blocks the send.
	providerIDs := make([]int64, 0, len(selected))
	for _, b := range selected {
		providerIDs = append(providerIDs, b.ProviderID)
	}
	providerByID, err := s.providers.GetByIDs(ctx, providerIDs)
	if err != nil {
		return nil, fmt.Errorf("load providers: %w", err)
	}

	var inactive []InactiveProvider
	for _, b := range selected {
		p, ok := providerByID[b.ProviderID]
		if !ok {
			inactive = append(inactive, InactiveProvider{ID: b.ProviderID})
			continue
		}
		if p.Status != domain.ProviderActive {
			inactive = append(inactive, InactiveProvider{ID: p.ID, Name: p.Name})
		}
	}
	if len(inactive) > 0 {
		sort.Slice(inactive, func(i, j int) bool { return inactive[i].ID < inactive[j].ID })
		return nil, &InactiveProvidersError{Providers: inactive}
	}

	var totalCost float64
	pairs := make([]ai.SelectedQuote, 0, len(selected))
	links := make([]ProviderLink, 0, len(selected))
	for _, b := range selected {
		p := providerByID[b.ProviderID]
		totalCost += b.Amount
		pairs = append(pairs, ai.SelectedQuote{Quote: b, Provider: *p})
		links = append(links, ProviderLink{
			ProviderID: p.ID,
			Name:       p.Name,
			ProfileURL: fmt.Sprintf("%s/providers/%d", s.cfg.ProfileBaseURL, p.ID),
		})
	}

	// Summarizer failure must leave the latch untouched: the caller
	// retries and nothing has been sent yet.
	summary, err := s.summarizer.Summarize(ctx, project.Description, pairs)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	if !project.IsCombinedSent {
		won, err := s.projects.MarkCombinedSent(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("mark combined sent: %w", err)
		}
		if won {
			s.notifyAccepted(ctx, project, selected, providerByID)
			s.log.Info("combined quote sent",
				zap.Int64("project_id", projectID),
				zap.String("status", string(status)),
				zap.Float64("total_cost", totalCost),
				zap.Int("selected_bids", len(selected)))
		}
	}

	return &AggregationResult{
		ProjectID:     projectID,
		Status:        status,
		TotalCost:     totalCost,
		Summary:       summary,
		ProviderLinks: links,
		MissingTrades: missing,
	}, nil
}

// notifyAccepted creates one QUOTE_ACCEPTED notification per winning
// provider, with the homeowner's real contact details now that acceptance
// has occurred. Creation is idempotent; failures are logged, not fatal,
// since the latch has already committed.
func (s *Service) notifyAccepted(ctx context.Context, project *domain.Project, selected []domain.Quote, providerByID map[int64]*domain.Provider) {
	for _, b := range selected {
		p := providerByID[b.ProviderID]
		msg := fmt.Sprintf("Your quote of $%.2f was accepted. Contact %s at %s to schedule the work.",
			b.Amount, project.UserName, project.UserEmail)
		n := &domain.Notification{
			ProviderID: p.ID,
			Type:       domain.NotifQuoteAccepted,
			Message:    msg,
			ProjectID:  project.ID,
		}
		if err := s.notifications.CreateIfAbsent(ctx, n); err != nil {
			s.log.Warn("quote accepted notification failed",
				zap.Int64("provider_id", p.ID),
				zap.Int64("project_id", project.ID),
				zap.Error(err))
		}
	}
}

// missingTrades returns required trades no non-nil-trade bid covers, in
// the project's declared order. A nil-trade bid is a general bid and
// satisfies nothing specific.
func missingTrades(required []domain.Trade, bids []domain.Quote) []domain.Trade {
	provided := make(map[domain.Trade]struct{}, len(bids))
	for _, b := range bids {
		if b.Trade != nil {
			provided[*b.Trade] = struct{}{}
		}
	}
	var missing []domain.Trade
	for _, t := range required {
		if _, ok := provided[t]; !ok {
			missing = append(missing, t)
		}
	}
	return missing
}

func selectedBids(bids []domain.Quote) []domain.Quote {
	var out []domain.Quote
	for _, b := range bids {
		if b.IsSelected {
			out = append(out, b)
		}
	}
	return out
}
