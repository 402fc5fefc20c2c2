package notification

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"quoteme/internal/domain"
)

const listLimit = 50

type Service struct {
	store NotificationStore
	hub   *Hub
	log   *zap.Logger
}

func NewService(store NotificationStore, hub *Hub, log *zap.Logger) *Service {
	return &Service{store: store, hub: hub, log: log}
}

type Feed struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
}

func (s *Service) GetFeed(ctx context.Context, providerID int64) (*Feed, error) {
	items, err := s.store.GetByProvider(ctx, providerID, listLimit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	unread, err := s.store.CountUnread(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}
	return &Feed{Notifications: items, UnreadCount: unread}, nil
}

func (s *Service) MarkRead(ctx context.Context, id, providerID int64) error {
	if err := s.store.MarkAsRead(ctx, id, providerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, providerID int64) error {
	if err := s.store.MarkAllAsRead(ctx, providerID); err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}

// ProjectAlert is the transient websocket payload for a freshly matched
// project. It is not persisted: the durable notification rows are
// reserved for the CLOSING_SOON and QUOTE_ACCEPTED lifecycle events.
type ProjectAlert struct {
	Event     string         `json:"event"`
	ProjectID int64          `json:"project_id"`
	Trades    []domain.Trade `json:"trades"`
	Message   string         `json:"message"`
}

// NotifyNewProject pushes a new-project alert to a matched candidate.
// It satisfies the matcher's dispatch interface; delivery is best effort
// and an offline provider simply misses the nudge.
func (s *Service) NotifyNewProject(_ context.Context, providerID int64, project *domain.Project) error {
	if s.hub == nil {
		return nil
	}
	s.hub.PushEvent(providerID, &ProjectAlert{
		Event:     "new_project",
		ProjectID: project.ID,
		Trades:    project.RequiredTrades,
		Message:   fmt.Sprintf("A new project near you needs %s. Submit a quote to be considered.", tradeList(project.RequiredTrades)),
	})
	return nil
}

// deliver persists idempotently and then nudges the websocket. The push
// result is informational only.
func (s *Service) deliver(ctx context.Context, n *domain.Notification) error {
	if err := s.store.CreateIfAbsent(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	if s.hub != nil {
		s.hub.Push(n.ProviderID, n)
	}
	return nil
}

func tradeList(ts []domain.Trade) string {
	if len(ts) == 0 {
		return "general help"
	}
	out := ""
	for i, t := range ts {
		if i > 0 {
			out += ", "
		}
		out += string(t)
	}
	return out
}
