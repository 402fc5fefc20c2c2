package rating

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"quoteme/internal/domain"
)

// Config holds the auto-deactivation thresholds. MinReviews is the
// rating-shock guard: a provider with fewer reviews is never deactivated
// automatically, however low a single rating drags the average.
type Config struct {
	Floor      float64
	MinReviews int
}

type Service struct {
	providers ProviderStore
	cfg       Config
	logger    *zap.Logger
}

func NewService(providers ProviderStore, cfg Config, logger *zap.Logger) *Service {
	return &Service{providers: providers, cfg: cfg, logger: logger}
}

// ApplyRating persists a provider's new rating and, when supplied, review
// count, deciding the status transition in the same atomic write.
// newReviewCount == nil means "leave the stored count unchanged", which
// is distinct from setting it to zero.
//
// A DEACTIVATED provider stays DEACTIVATED: rating updates never
// reactivate.
func (s *Service) ApplyRating(ctx context.Context, providerID int64, newRating float64, newReviewCount *int) (*domain.Provider, error) {
	if newRating < 0 || newRating > 5 {
		return nil, ErrInvalidRating
	}
	if newReviewCount != nil && *newReviewCount < 0 {
		return nil, ErrInvalidRating
	}

	deactivated := false
	p, err := s.providers.UpdateRating(ctx, providerID, func(p *domain.Provider) error {
		effectiveReviews := p.ReviewCount
		if newReviewCount != nil {
			effectiveReviews = *newReviewCount
		}

		if newRating < s.cfg.Floor &&
			p.Status != domain.ProviderDeactivated &&
			effectiveReviews >= s.cfg.MinReviews {
			p.Status = domain.ProviderDeactivated
			deactivated = true
		}

		p.Rating = newRating
		p.ReviewCount = effectiveReviews
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if deactivated {
		s.logger.Warn("auto-deactivated provider due to low rating",
			zap.Int64("provider_id", providerID),
			zap.Float64("rating", newRating),
			zap.Int("review_count", p.ReviewCount),
		)
	}

	return p, nil
}
