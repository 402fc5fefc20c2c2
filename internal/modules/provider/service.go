package provider

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"quoteme/internal/domain"
	"quoteme/internal/modules/rating"
	"quoteme/internal/pkg/validator"
	"quoteme/internal/repository"
)

type Service struct {
	store ProviderStore
	rater Rater
	log   *zap.Logger
}

func NewService(store ProviderStore, rater Rater, log *zap.Logger) *Service {
	return &Service{store: store, rater: rater, log: log}
}

// Register creates a provider in ONBOARDING. Trades and a location come
// later through profile updates, which also handle the promotion to
// ACTIVE.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*ProviderResponse, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, fields)
	}

	p := &domain.Provider{
		Name:   req.Name,
		Email:  req.Email,
		Bio:    req.Bio,
		Status: domain.ProviderOnboarding,
	}
	if req.Lat != nil && req.Lon != nil {
		p.Location = &domain.Coordinate{Lat: *req.Lat, Lon: *req.Lon}
	}

	if err := s.store.Create(ctx, p); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create provider: %w", err)
	}

	resp := toProviderResponse(p)
	return &resp, nil
}

func (s *Service) GetProfile(ctx context.Context, providerID int64) (*ProviderResponse, error) {
	p, err := s.store.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load provider: %w", err)
	}
	resp := toProviderResponse(p)
	return &resp, nil
}

// UpdateProfile edits the provider's public profile. The storage layer
// owns the status rules: ONBOARDING is promoted to ACTIVE once the
// profile is complete, and DEACTIVATED is never overwritten by an edit.
func (s *Service) UpdateProfile(ctx context.Context, providerID int64, req UpdateProfileRequest) (*ProviderResponse, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, fields)
	}

	upd := repository.ProfileUpdate{Name: req.Name, Bio: req.Bio}

	if req.Trades != nil {
		trades := make([]domain.Trade, 0, len(req.Trades))
		for _, raw := range req.Trades {
			t := domain.Trade(raw)
			if !t.IsValid() {
				return nil, fmt.Errorf("%w: %s", ErrUnknownTrade, raw)
			}
			trades = append(trades, t)
		}
		upd.Trades = trades
	}
	if req.Lat != nil && req.Lon != nil {
		upd.Location = &domain.Coordinate{Lat: *req.Lat, Lon: *req.Lon}
	}

	p, err := s.store.UpdateProfile(ctx, providerID, upd)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	resp := toProviderResponse(p)
	return &resp, nil
}

// Rate forwards a review event to the rating engine.
func (s *Service) Rate(ctx context.Context, providerID int64, req RateRequest) (*ProviderResponse, error) {
	p, err := s.rater.ApplyRating(ctx, providerID, req.Rating, req.ReviewCount)
	if err != nil {
		switch {
		case errors.Is(err, rating.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, rating.ErrInvalidRating):
			return nil, fmt.Errorf("%w: %s", ErrInvalidProfile, "rating out of range")
		}
		return nil, fmt.Errorf("apply rating: %w", err)
	}
	resp := toProviderResponse(p)
	return &resp, nil
}
