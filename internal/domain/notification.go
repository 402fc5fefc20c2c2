package domain

import "time"

type NotificationType string

const (
	NotifClosingSoon   NotificationType = "CLOSING_SOON"
	NotifQuoteAccepted NotificationType = "QUOTE_ACCEPTED"
)

// Notification is an in-app alert for a provider. The
// (provider, type, project) triple is unique; creation is idempotent and
// concurrent duplicate inserts are swallowed by the repository.
type Notification struct {
	ID         int64            `json:"id"`
	ProviderID int64            `json:"provider_id"`
	Type       NotificationType `json:"type"`
	Message    string           `json:"message"`
	ProjectID  int64            `json:"project_id"`
	IsRead     bool             `json:"is_read"`
	CreatedAt  time.Time        `json:"created_at"`
}
