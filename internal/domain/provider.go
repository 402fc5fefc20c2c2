package domain

import "time"

type ProviderStatus string

const (
	ProviderOnboarding          ProviderStatus = "ONBOARDING"
	ProviderActive              ProviderStatus = "ACTIVE"
	ProviderPendingVerification ProviderStatus = "PENDING_VERIFICATION"
	ProviderDeactivated         ProviderStatus = "DEACTIVATED"
)

// Coordinate is a WGS84 point. A nil *Coordinate means the entity has no
// location on file and must never match geographically.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Provider is a service provider who bids on projects. DEACTIVATED is set
// only by the rating engine (or manual admin action) and is never undone
// by profile edits or further rating updates.
type Provider struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email" validate:"required,email"`
	Bio         string         `json:"bio,omitempty"`
	Trades      []Trade        `json:"trades"`
	Location    *Coordinate    `json:"location,omitempty"`
	Rating      float64        `json:"rating"`
	ReviewCount int            `json:"review_count"`
	Status      ProviderStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
