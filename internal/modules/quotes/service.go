package quotes

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"quoteme/internal/domain"
	"quoteme/internal/pkg/validator"
	"quoteme/internal/repository"
)

type Service struct {
	quotes   QuoteStore
	projects ProjectGate
	log      *zap.Logger
}

func NewService(quotes QuoteStore, projects ProjectGate, log *zap.Logger) *Service {
	return &Service{quotes: quotes, projects: projects, log: log}
}

// SubmitQuote records a provider's bid. The one-bid-per-provider rule is
// enforced by the storage layer's unique index, so concurrent duplicates
// lose the race deterministically instead of both landing.
func (s *Service) SubmitQuote(ctx context.Context, providerID int64, req SubmitQuoteRequest) (*QuoteResponse, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuote, fields)
	}

	var trade *domain.Trade
	if req.Trade != nil {
		t := domain.Trade(*req.Trade)
		if !t.IsValid() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTrade, *req.Trade)
		}
		trade = &t
	}

	project, err := s.projects.GetByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load project: %w", err)
	}
	if project.IsCombinedSent {
		return nil, ErrProjectClosed
	}

	q := &domain.Quote{
		ProjectID:  req.ProjectID,
		ProviderID: providerID,
		Trade:      trade,
		Amount:     req.Amount,
		Proposal:   req.Proposal,
		Status:     domain.QuotePending,
	}
	if err := s.quotes.Create(ctx, q); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create quote: %w", err)
	}

	s.log.Info("quote submitted",
		zap.Int64("project_id", q.ProjectID),
		zap.Int64("provider_id", providerID),
		zap.Int64("quote_id", q.ID))

	resp := toQuoteResponse(q)
	return &resp, nil
}

// SelectQuote marks a quote as the homeowner's pick for its trade slot,
// unselecting any sibling quote for the same slot in the same transaction.
func (s *Service) SelectQuote(ctx context.Context, projectID, quoteID int64) error {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load project: %w", err)
	}
	if project.IsCombinedSent {
		return ErrProjectClosed
	}

	if err := s.quotes.Select(ctx, projectID, quoteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("select quote: %w", err)
	}
	return nil
}

func (s *Service) ListProjectQuotes(ctx context.Context, projectID int64) ([]QuoteResponse, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load project: %w", err)
	}
	qs, err := s.quotes.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return toQuoteResponses(qs), nil
}

func (s *Service) ListProviderQuotes(ctx context.Context, providerID int64) ([]QuoteResponse, error) {
	qs, err := s.quotes.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return toQuoteResponses(qs), nil
}
