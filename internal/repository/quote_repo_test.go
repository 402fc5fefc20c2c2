package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"quoteme/internal/database"
	"quoteme/internal/domain"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func tradePtr(t domain.Trade) *domain.Trade { return &t }

func submitQuote(t *testing.T, repo *QuoteRepository, projectID, providerID int64, trade *domain.Trade) *domain.Quote {
	t.Helper()
	q := &domain.Quote{
		ProjectID:  projectID,
		ProviderID: providerID,
		Trade:      trade,
		Amount:     100,
		Proposal:   fmt.Sprintf("bid from %d", providerID),
	}
	require.NoError(t, repo.Create(context.Background(), q))
	return q
}

func TestQuoteCreate_SecondBidSameProviderIsUniqueViolation(t *testing.T) {
	repo := NewQuoteRepository(setupDB(t))

	submitQuote(t, repo, 1, 10, tradePtr(domain.TradePlumber))

	err := repo.Create(context.Background(), &domain.Quote{
		ProjectID:  1,
		ProviderID: 10,
		Amount:     200,
		Proposal:   "changed my mind",
	})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestQuoteCreate_SameProviderDifferentProjects(t *testing.T) {
	repo := NewQuoteRepository(setupDB(t))

	submitQuote(t, repo, 1, 10, nil)
	submitQuote(t, repo, 2, 10, nil)

	mine, err := repo.ListByProvider(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestQuoteSelect_SingleWinnerPerTrade(t *testing.T) {
	repo := NewQuoteRepository(setupDB(t))
	ctx := context.Background()

	a := submitQuote(t, repo, 1, 10, tradePtr(domain.TradePlumber))
	b := submitQuote(t, repo, 1, 11, tradePtr(domain.TradePlumber))
	other := submitQuote(t, repo, 1, 12, tradePtr(domain.TradeElectrician))

	require.NoError(t, repo.Select(ctx, 1, a.ID))
	require.NoError(t, repo.Select(ctx, 1, other.ID))
	// Re-selection within the same trade must dethrone the previous winner.
	require.NoError(t, repo.Select(ctx, 1, b.ID))

	quotes, err := repo.ListByProject(ctx, 1)
	require.NoError(t, err)

	selected := map[int64]bool{}
	for _, q := range quotes {
		selected[q.ID] = q.IsSelected
	}
	assert.False(t, selected[a.ID])
	assert.True(t, selected[b.ID])
	assert.True(t, selected[other.ID], "selection in another trade slot is untouched")
}

func TestQuoteSelect_GeneralBidsShareOneSlot(t *testing.T) {
	repo := NewQuoteRepository(setupDB(t))
	ctx := context.Background()

	a := submitQuote(t, repo, 1, 10, nil)
	b := submitQuote(t, repo, 1, 11, nil)
	scoped := submitQuote(t, repo, 1, 12, tradePtr(domain.TradePlumber))

	require.NoError(t, repo.Select(ctx, 1, scoped.ID))
	require.NoError(t, repo.Select(ctx, 1, a.ID))
	require.NoError(t, repo.Select(ctx, 1, b.ID))

	quotes, err := repo.ListByProject(ctx, 1)
	require.NoError(t, err)

	selected := map[int64]bool{}
	for _, q := range quotes {
		selected[q.ID] = q.IsSelected
	}
	assert.False(t, selected[a.ID])
	assert.True(t, selected[b.ID])
	assert.True(t, selected[scoped.ID])
}

func TestQuoteSelect_WrongProjectNotFound(t *testing.T) {
	repo := NewQuoteRepository(setupDB(t))
	ctx := context.Background()

	q := submitQuote(t, repo, 1, 10, nil)

	err := repo.Select(ctx, 2, q.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	quotes, err := repo.ListByProject(ctx, 1)
	require.NoError(t, err)
	assert.False(t, quotes[0].IsSelected, "failed select must not flip state")
}

func TestHasQuoted(t *testing.T) {
	repo := NewQuoteRepository(setupDB(t))
	ctx := context.Background()

	submitQuote(t, repo, 1, 10, nil)

	yes, err := repo.HasQuoted(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, yes)

	no, err := repo.HasQuoted(ctx, 1, 11)
	require.NoError(t, err)
	assert.False(t, no)
}
