package aggregator

import (
	"context"

	"quoteme/internal/domain"
)

type ProjectStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	MarkCombinedSent(ctx context.Context, id int64) (won bool, err error)
}

type QuoteStore interface {
	ListByProject(ctx context.Context, projectID int64) ([]domain.Quote, error)
}

type ProviderStore interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Provider, error)
}

type NotificationStore interface {
	CreateIfAbsent(ctx context.Context, n *domain.Notification) error
}
