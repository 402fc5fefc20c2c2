package domain

import "time"

type ProjectStatus string

const (
	ProjectPending      ProjectStatus = "PENDING"
	ProjectCombinedSent ProjectStatus = "COMBINED_SENT"
)

// Project is a homeowner's quote request. IsCombinedSent is a one-way
// latch: once true the combined quote has gone out and re-aggregation must
// not fire side effects again.
type Project struct {
	ID             int64         `json:"id"`
	UserName       string        `json:"user_name"`
	UserEmail      string        `json:"user_email" validate:"required,email"`
	UserPhone      string        `json:"user_phone,omitempty"`
	Description    string        `json:"description"`
	RequiredTrades []Trade       `json:"required_trades"`
	Location       *Coordinate   `json:"location,omitempty"`
	Status         ProjectStatus `json:"status"`
	IsCombinedSent bool          `json:"is_combined_sent"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// MaskedUserName and MaskedUserEmail replace the homeowner's contact
// details on every read until the combined quote has been sent.
const (
	MaskedUserName  = "Anonymous User"
	MaskedUserEmail = "masked@quoteme.internal"
)
