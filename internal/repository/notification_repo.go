package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"quoteme/internal/domain"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type notificationModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	ProviderID int64     `gorm:"column:provider_id;uniqueIndex:idx_one_notif_per_event;index"`
	Type       string    `gorm:"column:type;uniqueIndex:idx_one_notif_per_event"`
	ProjectID  int64     `gorm:"column:project_id;uniqueIndex:idx_one_notif_per_event"`
	Message    string    `gorm:"column:message"`
	IsRead     bool      `gorm:"column:is_read"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (notificationModel) TableName() string { return "notifications" }

func toDomainNotification(m notificationModel) domain.Notification {
	return domain.Notification{
		ID:         m.ID,
		ProviderID: m.ProviderID,
		Type:       domain.NotificationType(m.Type),
		Message:    m.Message,
		ProjectID:  m.ProjectID,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt,
	}
}

// CreateIfAbsent inserts the notification unless the
// (provider, type, project) triple already exists. Duplicate-key races
// from concurrent triggering paths are expected and swallowed here so
// callers never see them.
func (r *NotificationRepository) CreateIfAbsent(ctx context.Context, n *domain.Notification) error {
	m := notificationModel{
		ProviderID: n.ProviderID,
		Type:       string(n.Type),
		ProjectID:  n.ProjectID,
		Message:    n.Message,
		IsRead:     false,
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if IsUniqueViolation(err) {
			return nil
		}
		return err
	}
	*n = toDomainNotification(m)
	return nil
}

func (r *NotificationRepository) GetByProvider(ctx context.Context, providerID int64, limit int) ([]domain.Notification, error) {
	q := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []notificationModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Notification, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainNotification(m))
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, providerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("provider_id = ? AND is_read = ?", providerID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead flips is_read for a notification owned by providerID.
// Returns gorm.ErrRecordNotFound when it doesn't exist or belongs to
// someone else.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, providerID int64) error {
	tx := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("id = ? AND provider_id = ?", id, providerID).
		Update("is_read", true)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, providerID int64) error {
	return r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("provider_id = ? AND is_read = ?", providerID, false).
		Update("is_read", true).Error
}

// CountByTypeForProject is used in tests and audits to assert
// notification idempotency.
func (r *NotificationRepository) CountByTypeForProject(ctx context.Context, projectID int64, t domain.NotificationType) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("project_id = ? AND type = ?", projectID, string(t)).
		Count(&count).Error
	return count, err
}
