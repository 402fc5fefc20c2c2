package repository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"

	"quoteme/internal/domain"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

type projectModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	UserName       string    `gorm:"column:user_name"`
	UserEmail      string    `gorm:"column:user_email"`
	UserPhone      *string   `gorm:"column:user_phone"`
	Description    string    `gorm:"column:description"`
	RequiredTrades []byte    `gorm:"column:required_trades"`
	Lat            *float64  `gorm:"column:lat"`
	Lon            *float64  `gorm:"column:lon"`
	Status         string    `gorm:"column:status;index"`
	IsCombinedSent bool      `gorm:"column:is_combined_sent"`
	CreatedAt      time.Time `gorm:"column:created_at;index"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (projectModel) TableName() string { return "projects" }

func toDomainProject(m projectModel) *domain.Project {
	var trades []domain.Trade
	if len(m.RequiredTrades) > 0 {
		_ = json.Unmarshal(m.RequiredTrades, &trades)
	}

	var phone string
	if m.UserPhone != nil {
		phone = *m.UserPhone
	}

	var loc *domain.Coordinate
	if m.Lat != nil && m.Lon != nil {
		loc = &domain.Coordinate{Lat: *m.Lat, Lon: *m.Lon}
	}

	return &domain.Project{
		ID:             m.ID,
		UserName:       m.UserName,
		UserEmail:      m.UserEmail,
		UserPhone:      phone,
		Description:    m.Description,
		RequiredTrades: trades,
		Location:       loc,
		Status:         domain.ProjectStatus(m.Status),
		IsCombinedSent: m.IsCombinedSent,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	trades, err := json.Marshal(p.RequiredTrades)
	if err != nil {
		return err
	}

	var phone *string
	if p.UserPhone != "" {
		v := p.UserPhone
		phone = &v
	}

	var lat, lon *float64
	if p.Location != nil {
		la, lo := p.Location.Lat, p.Location.Lon
		lat, lon = &la, &lo
	}

	m := projectModel{
		UserName:       p.UserName,
		UserEmail:      strings.TrimSpace(strings.ToLower(p.UserEmail)),
		UserPhone:      phone,
		Description:    p.Description,
		RequiredTrades: trades,
		Lat:            lat,
		Lon:            lon,
		Status:         string(domain.ProjectPending),
		IsCombinedSent: false,
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*p = *toDomainProject(m)
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	var m projectModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainProject(m), nil
}

// MarkCombinedSent flips the one-way latch. The conditional WHERE makes
// concurrent finalizers race safely: exactly one caller sees won=true
// and owns the side effects.
func (r *ProjectRepository) MarkCombinedSent(ctx context.Context, id int64) (won bool, err error) {
	tx := r.db.WithContext(ctx).
		Model(&projectModel{}).
		Where("id = ? AND is_combined_sent = ?", id, false).
		Updates(map[string]any{
			"is_combined_sent": true,
			"status":           string(domain.ProjectCombinedSent),
			"updated_at":       time.Now(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// ListPendingCreatedBetween returns PENDING projects whose creation time
// falls in [from, to); used by the closing-soon sweeper.
func (r *ProjectRepository) ListPendingCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.Project, error) {
	var rows []projectModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at >= ? AND created_at < ?", string(domain.ProjectPending), from, to).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Project, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainProject(m))
	}
	return out, nil
}
