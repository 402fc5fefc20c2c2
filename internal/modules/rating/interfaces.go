package rating

import (
	"context"

	"quoteme/internal/domain"
)

// ProviderStore is the slice of the provider repository the engine
// needs: an atomic read-decide-write on a single provider row.
type ProviderStore interface {
	UpdateRating(ctx context.Context, id int64, decide func(p *domain.Provider) error) (*domain.Provider, error)
}
