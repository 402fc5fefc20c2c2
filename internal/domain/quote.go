package domain

import "time"

type QuoteStatus string

const (
	QuotePending  QuoteStatus = "PENDING"
	QuoteAccepted QuoteStatus = "ACCEPTED"
	QuoteRejected QuoteStatus = "REJECTED"
)

// Quote is a provider's priced bid against a project, optionally scoped to
// one trade. A nil Trade is a general bid: it satisfies no specific
// required trade during completeness checks.
//
// Invariants enforced by storage: at most one quote per
// (project, provider) pair, and at most one selected quote per
// (project, trade) at any time.
type Quote struct {
	ID         int64       `json:"id"`
	ProjectID  int64       `json:"project_id"`
	ProviderID int64       `json:"provider_id"`
	Trade      *Trade      `json:"trade,omitempty"`
	Amount     float64     `json:"amount" validate:"required,gt=0"`
	Proposal   string      `json:"proposal" validate:"required"`
	Status     QuoteStatus `json:"status"`
	IsSelected bool        `json:"is_selected"`
	CreatedAt  time.Time   `json:"created_at"`
}
