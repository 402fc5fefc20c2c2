package quotes

import (
	"context"

	"quoteme/internal/domain"
)

type QuoteStore interface {
	Create(ctx context.Context, q *domain.Quote) error
	Select(ctx context.Context, projectID, quoteID int64) error
	ListByProject(ctx context.Context, projectID int64) ([]domain.Quote, error)
	ListByProvider(ctx context.Context, providerID int64) ([]domain.Quote, error)
}

type ProjectGate interface {
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
}
