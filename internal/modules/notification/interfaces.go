package notification

import (
	"context"
	"time"

	"quoteme/internal/domain"
)

type NotificationStore interface {
	CreateIfAbsent(ctx context.Context, n *domain.Notification) error
	GetByProvider(ctx context.Context, providerID int64, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, providerID int64) (int64, error)
	MarkAsRead(ctx context.Context, id, providerID int64) error
	MarkAllAsRead(ctx context.Context, providerID int64) error
}

type ProjectStore interface {
	ListPendingCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.Project, error)
}

type QuoteStore interface {
	HasQuoted(ctx context.Context, projectID, providerID int64) (bool, error)
}

// CandidateFinder resolves which providers a project concerns. The
// closing-soon sweep reuses the same matching rules as new-project
// dispatch.
type CandidateFinder interface {
	FindCandidates(ctx context.Context, project *domain.Project) ([]domain.Provider, error)
}
