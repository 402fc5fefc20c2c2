package projects

import (
	"time"

	"quoteme/internal/domain"
)

type SubmitProjectRequest struct {
	UserName    string   `json:"user_name" validate:"required"`
	UserEmail   string   `json:"user_email" validate:"required,email"`
	UserPhone   string   `json:"user_phone,omitempty"`
	Description string   `json:"description" validate:"required,min=10,max=4000"`
	Lat         *float64 `json:"lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Lon         *float64 `json:"lon,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

type ProjectResponse struct {
	ID             int64              `json:"id"`
	UserName       string             `json:"user_name"`
	UserEmail      string             `json:"user_email"`
	Description    string             `json:"description"`
	RequiredTrades []domain.Trade     `json:"required_trades"`
	Location       *domain.Coordinate `json:"location,omitempty"`
	Status         string             `json:"status"`
	IsCombinedSent bool               `json:"is_combined_sent"`
	CreatedAt      time.Time          `json:"created_at"`
}

// toProjectResponse masks the homeowner's contact details until the
// combined quote has been sent. Masking happens on every read, so even a
// log of the response body never captures the real identity early.
func toProjectResponse(p *domain.Project) ProjectResponse {
	name, email := p.UserName, p.UserEmail
	if !p.IsCombinedSent {
		name, email = domain.MaskedUserName, domain.MaskedUserEmail
	}
	return ProjectResponse{
		ID:             p.ID,
		UserName:       name,
		UserEmail:      email,
		Description:    p.Description,
		RequiredTrades: p.RequiredTrades,
		Location:       p.Location,
		Status:         string(p.Status),
		IsCombinedSent: p.IsCombinedSent,
		CreatedAt:      p.CreatedAt,
	}
}
