//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/print-order-service/internal/circuitbreaker"
	"github.com/guttosm/print-order-service/internal/domain/model"
)

func TestPriceTablesRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewPriceTablesRepository(db)

	var first *model.PriceTableRecord

	t.Run("get active when none exists", func(t *testing.T) {
		active, err := repo.GetActive(ctx)
		assert.NoError(t, err)
		assert.Nil(t, active)
	})

	t.Run("create first version", func(t *testing.T) {
		rec, err := repo.Create(ctx, model.DefaultPriceTable(), "admin@campus")
		require.NoError(t, err)
		require.NotNil(t, rec)

		assert.True(t, rec.Active)
		assert.Equal(t, 1, rec.Table.Version)
		assert.Equal(t, "admin@campus", rec.CreatedBy)
		assert.NotEmpty(t, rec.ID)
		first = rec
	})

	t.Run("rates survive a round trip exactly", func(t *testing.T) {
		table := model.DefaultPriceTable()
		table.MonochromeRate = decimal.RequireFromString("0.35")
		table.ColoredRate = decimal.RequireFromString("1.15")
		table.BindingRates[model.BindingComb] = decimal.RequireFromString("5.125")

		_, err := repo.Create(ctx, table, "admin@campus")
		require.NoError(t, err)

		active, err := repo.GetActive(ctx)
		require.NoError(t, err)
		require.NotNil(t, active)

		assert.Equal(t, 2, active.Table.Version)
		assert.True(t, active.Table.MonochromeRate.Equal(decimal.RequireFromString("0.35")))
		assert.True(t, active.Table.ColoredRate.Equal(decimal.RequireFromString("1.15")))
		assert.True(t, active.Table.BindingRates[model.BindingComb].Equal(decimal.RequireFromString("5.125")))
		assert.True(t, active.Table.BindingRates[model.BindingNone].IsZero())
		assert.NoError(t, active.Table.Validate())
	})

	t.Run("activate an older version", func(t *testing.T) {
		require.NotNil(t, first)

		rec, err := repo.Activate(ctx, first.ID, "admin@campus")
		require.NoError(t, err)
		assert.True(t, rec.Active)
		assert.Equal(t, 1, rec.Table.Version)

		active, err := repo.GetActive(ctx)
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, first.ID, active.ID)
	})

	t.Run("activate unknown version", func(t *testing.T) {
		_, err := repo.Activate(ctx, "6710c3e2f1a4b2c3d4e5f601", "admin@campus")
		assert.ErrorIs(t, err, ErrPriceTableNotFound)

		_, err = repo.Activate(ctx, "not-an-id", "admin@campus")
		assert.ErrorIs(t, err, ErrPriceTableNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		records, err := repo.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, 2, records[0].Table.Version)
		assert.False(t, records[0].Active)
		assert.Equal(t, 1, records[1].Table.Version)
		assert.True(t, records[1].Active)
	})

	t.Run("list with limit", func(t *testing.T) {
		records, err := repo.List(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})
}

func TestPriceTablesRepositoryWithCircuitBreaker_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewPriceTablesRepository(db)
	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	wrappedRepo := NewPriceTablesRepositoryWithCircuitBreaker(repo, cb)

	t.Run("circuit breaker allows successful operations", func(t *testing.T) {
		rec, err := wrappedRepo.Create(ctx, model.DefaultPriceTable(), "test")
		require.NoError(t, err)
		assert.NotNil(t, rec)

		active, err := wrappedRepo.GetActive(ctx)
		require.NoError(t, err)
		assert.NotNil(t, active)

		_, err = wrappedRepo.Activate(ctx, rec.ID, "test")
		require.NoError(t, err)

		records, err := wrappedRepo.List(ctx, 5)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("circuit breaker stats", func(t *testing.T) {
		stats := cb.GetStats()
		assert.Equal(t, "closed", stats.State)
		assert.True(t, stats.IsHealthy)
		assert.Equal(t, cb, wrappedRepo.GetCircuitBreaker())
	})
}
