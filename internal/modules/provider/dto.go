package provider

import (
	"time"

	"quoteme/internal/domain"
)

type RegisterRequest struct {
	Name  string   `json:"name" validate:"required"`
	Email string   `json:"email" validate:"required,email"`
	Bio   string   `json:"bio,omitempty"`
	Lat   *float64 `json:"lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Lon   *float64 `json:"lon,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

type UpdateProfileRequest struct {
	Name   *string  `json:"name,omitempty"`
	Bio    *string  `json:"bio,omitempty"`
	Trades []string `json:"trades,omitempty"`
	Lat    *float64 `json:"lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Lon    *float64 `json:"lon,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

type RateRequest struct {
	Rating      float64 `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount *int    `json:"review_count,omitempty" validate:"omitempty,gte=0"`
}

type ProviderResponse struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Bio         string             `json:"bio,omitempty"`
	Trades      []domain.Trade     `json:"trades"`
	Location    *domain.Coordinate `json:"location,omitempty"`
	Rating      float64            `json:"rating"`
	ReviewCount int                `json:"review_count"`
	Status      string             `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}

func toProviderResponse(p *domain.Provider) ProviderResponse {
	return ProviderResponse{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		Bio:         p.Bio,
		Trades:      p.Trades,
		Location:    p.Location,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
	}
}
