package repository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quoteme/internal/domain"
)

type ProviderRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

type providerModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Email       string    `gorm:"column:email;uniqueIndex"`
	Bio         *string   `gorm:"column:bio"`
	Trades      []byte    `gorm:"column:trades"`
	Lat         *float64  `gorm:"column:lat"`
	Lon         *float64  `gorm:"column:lon"`
	Rating      float64   `gorm:"column:rating"`
	ReviewCount int       `gorm:"column:review_count"`
	Status      string    `gorm:"column:status;index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (providerModel) TableName() string { return "providers" }

func toDomainProvider(m providerModel) *domain.Provider {
	var trades []domain.Trade
	if len(m.Trades) > 0 {
		_ = json.Unmarshal(m.Trades, &trades)
	}

	var bio string
	if m.Bio != nil {
		bio = *m.Bio
	}

	var loc *domain.Coordinate
	if m.Lat != nil && m.Lon != nil {
		loc = &domain.Coordinate{Lat: *m.Lat, Lon: *m.Lon}
	}

	return &domain.Provider{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		Bio:         bio,
		Trades:      trades,
		Location:    loc,
		Rating:      m.Rating,
		ReviewCount: m.ReviewCount,
		Status:      domain.ProviderStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toProviderModel(p *domain.Provider) (providerModel, error) {
	trades, err := json.Marshal(p.Trades)
	if err != nil {
		return providerModel{}, err
	}

	var bio *string
	if p.Bio != "" {
		v := p.Bio
		bio = &v
	}

	var lat, lon *float64
	if p.Location != nil {
		la, lo := p.Location.Lat, p.Location.Lon
		lat, lon = &la, &lo
	}

	return providerModel{
		ID:          p.ID,
		Name:        p.Name,
		Email:       strings.TrimSpace(strings.ToLower(p.Email)),
		Bio:         bio,
		Trades:      trades,
		Lat:         lat,
		Lon:         lon,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func (r *ProviderRepository) Create(ctx context.Context, p *domain.Provider) error {
	m, err := toProviderModel(p)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*p = *toDomainProvider(m)
	return nil
}

func (r *ProviderRepository) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	var m providerModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainProvider(m), nil
}

// GetByIDs returns the providers for the given ids, keyed by id. Missing
// ids are simply absent from the map.
func (r *ProviderRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Provider, error) {
	out := make(map[int64]*domain.Provider, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []providerModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, m := range rows {
		out[m.ID] = toDomainProvider(m)
	}
	return out, nil
}

func (r *ProviderRepository) ListByStatus(ctx context.Context, status domain.ProviderStatus) ([]domain.Provider, error) {
	var rows []providerModel
	if err := r.db.WithContext(ctx).Where("status = ?", string(status)).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Provider, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainProvider(m))
	}
	return out, nil
}

// UpdateRating reads the provider under a row lock, lets decide mutate
// rating, review count and status, and persists all three in one write.
// A crash or concurrent reader can never observe the rating applied
// without the status decision that goes with it.
func (r *ProviderRepository) UpdateRating(ctx context.Context, id int64, decide func(p *domain.Provider) error) (*domain.Provider, error) {
	var updated *domain.Provider

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m providerModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, id).Error; err != nil {
			return err
		}

		p := toDomainProvider(m)
		if err := decide(p); err != nil {
			return err
		}

		if err := tx.Model(&providerModel{}).Where("id = ?", id).Updates(map[string]any{
			"rating":       p.Rating,
			"review_count": p.ReviewCount,
			"status":       string(p.Status),
			"updated_at":   time.Now(),
		}).Error; err != nil {
			return err
		}

		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ProfileUpdate carries the editable profile fields. Nil means "leave
// unchanged" so callers can distinguish clearing from not touching.
type ProfileUpdate struct {
	Name     *string
	Bio      *string
	Trades   []domain.Trade
	Location *domain.Coordinate
}

// UpdateProfile applies the edit inside one transaction. Status is only
// promoted from ONBOARDING to ACTIVE once the profile carries trades and
// a location; a DEACTIVATED provider keeps its status no matter what the
// edit contains.
func (r *ProviderRepository) UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) (*domain.Provider, error) {
	var updated *domain.Provider

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m providerModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, id).Error; err != nil {
			return err
		}

		changes := map[string]any{"updated_at": time.Now()}
		if upd.Name != nil {
			m.Name = *upd.Name
			changes["name"] = m.Name
		}
		if upd.Bio != nil {
			m.Bio = upd.Bio
			changes["bio"] = upd.Bio
		}
		if upd.Trades != nil {
			b, err := json.Marshal(upd.Trades)
			if err != nil {
				return err
			}
			m.Trades = b
			changes["trades"] = b
		}
		if upd.Location != nil {
			la, lo := upd.Location.Lat, upd.Location.Lon
			m.Lat, m.Lon = &la, &lo
			changes["lat"] = la
			changes["lon"] = lo
		}

		var tradesAfter []domain.Trade
		if len(m.Trades) > 0 {
			_ = json.Unmarshal(m.Trades, &tradesAfter)
		}
		if domain.ProviderStatus(m.Status) == domain.ProviderOnboarding &&
			len(tradesAfter) > 0 && m.Lat != nil && m.Lon != nil {
			m.Status = string(domain.ProviderActive)
			changes["status"] = m.Status
		}

		if err := tx.Model(&providerModel{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return err
		}

		updated = toDomainProvider(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
