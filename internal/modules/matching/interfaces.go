package matching

import (
	"context"

	"quoteme/internal/domain"
)

type ProviderStore interface {
	ListByStatus(ctx context.Context, status domain.ProviderStatus) ([]domain.Provider, error)
}

// Notifier delivers a new-project alert to one candidate provider.
type Notifier interface {
	NotifyNewProject(ctx context.Context, providerID int64, project *domain.Project) error
}
