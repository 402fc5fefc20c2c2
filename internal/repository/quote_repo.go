package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"quoteme/internal/domain"
)

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

type quoteModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	ProjectID  int64     `gorm:"column:project_id;uniqueIndex:idx_one_bid_per_provider;index"`
	ProviderID int64     `gorm:"column:provider_id;uniqueIndex:idx_one_bid_per_provider;index"`
	Trade      *string   `gorm:"column:trade"`
	Amount     float64   `gorm:"column:amount"`
	Proposal   string    `gorm:"column:proposal"`
	Status     string    `gorm:"column:status"`
	IsSelected bool      `gorm:"column:is_selected"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (quoteModel) TableName() string { return "quotes" }

func toDomainQuote(m quoteModel) *domain.Quote {
	var trade *domain.Trade
	if m.Trade != nil {
		t := domain.Trade(*m.Trade)
		trade = &t
	}

	return &domain.Quote{
		ID:         m.ID,
		ProjectID:  m.ProjectID,
		ProviderID: m.ProviderID,
		Trade:      trade,
		Amount:     m.Amount,
		Proposal:   m.Proposal,
		Status:     domain.QuoteStatus(m.Status),
		IsSelected: m.IsSelected,
		CreatedAt:  m.CreatedAt,
	}
}

// Create inserts the quote. The (project_id, provider_id) unique index is
// the double-bid guard: under concurrent submission the database, not a
// prior read, decides the loser. Callers map unique violations to their
// conflict error.
func (r *QuoteRepository) Create(ctx context.Context, q *domain.Quote) error {
	var trade *string
	if q.Trade != nil {
		v := string(*q.Trade)
		trade = &v
	}

	m := quoteModel{
		ProjectID:  q.ProjectID,
		ProviderID: q.ProviderID,
		Trade:      trade,
		Amount:     q.Amount,
		Proposal:   q.Proposal,
		Status:     string(domain.QuotePending),
		IsSelected: false,
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*q = *toDomainQuote(m)
	return nil
}

// Select marks the quote as the winner for its (project, trade) slot.
// Unselecting siblings and selecting the target run in one transaction so
// no reader ever observes two winners for a trade.
// Returns gorm.ErrRecordNotFound when the quote doesn't belong to the
// project.
func (r *QuoteRepository) Select(ctx context.Context, projectID, quoteID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target quoteModel
		err := tx.Where("id = ? AND project_id = ?", quoteID, projectID).First(&target).Error
		if err != nil {
			return err
		}

		siblings := tx.Model(&quoteModel{}).Where("project_id = ? AND id <> ?", projectID, quoteID)
		if target.Trade == nil {
			siblings = siblings.Where("trade IS NULL")
		} else {
			siblings = siblings.Where("trade = ?", *target.Trade)
		}
		if err := siblings.Update("is_selected", false).Error; err != nil {
			return err
		}

		return tx.Model(&quoteModel{}).
			Where("id = ?", quoteID).
			Update("is_selected", true).Error
	})
}

func (r *QuoteRepository) ListByProject(ctx context.Context, projectID int64) ([]domain.Quote, error) {
	var rows []quoteModel
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainQuotes(rows), nil
}

func (r *QuoteRepository) ListByProvider(ctx context.Context, providerID int64) ([]domain.Quote, error) {
	var rows []quoteModel
	if err := r.db.WithContext(ctx).Where("provider_id = ?", providerID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainQuotes(rows), nil
}

// HasQuoted reports whether the provider already bid on the project.
func (r *QuoteRepository) HasQuoted(ctx context.Context, projectID, providerID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&quoteModel{}).
		Where("project_id = ? AND provider_id = ?", projectID, providerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func toDomainQuotes(rows []quoteModel) []domain.Quote {
	out := make([]domain.Quote, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainQuote(m))
	}
	return out
}
