package provider

import (
	"context"

	"quoteme/internal/domain"
	"quoteme/internal/repository"
)

type ProviderStore interface {
	Create(ctx context.Context, p *domain.Provider) error
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
	UpdateProfile(ctx context.Context, id int64, upd repository.ProfileUpdate) (*domain.Provider, error)
}

// Rater applies a review event to a provider's rating.
type Rater interface {
	ApplyRating(ctx context.Context, providerID int64, newRating float64, newReviewCount *int) (*domain.Provider, error)
}
