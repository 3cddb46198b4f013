package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appinv "github.com/shopadmin/backend/internal/application/inventory"
	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/inventory"
	"github.com/shopadmin/backend/internal/domain/shared"
)

func setupScopeTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&catalog.Product{}, &catalog.Variant{}, &inventory.Reservation{})
	require.NoError(t, err)

	return db
}

func seedVariant(t *testing.T, db *gorm.DB, stock int64) (uuid.UUID, string) {
	t.Helper()
	product, err := catalog.NewProduct("Classic Tee")
	require.NoError(t, err)
	v, err := product.AddVariant("Small - Blue", stock, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), product))
	return product.ID, v.VariantID
}

func TestGormTransactionScope_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("commits repository writes on success", func(t *testing.T) {
		db := setupScopeTestDB(t)
		scope := NewGormTransactionScope(db)
		productID, variantID := seedVariant(t, db, 10)

		var created *inventory.Reservation
		err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
			variants, err := repos.ProductRepo().FindVariantsForUpdate(ctx, productID, catalog.VariantMatch{
				Field: catalog.MatchByVariantID,
				Value: variantID,
			})
			if err != nil {
				return err
			}
			if len(variants) != 1 {
				return shared.ErrNotFound
			}

			r, err := inventory.NewReservation(productID, catalog.VariantMatch{
				Field: catalog.MatchByVariantID,
				Value: variantID,
			}, 3, "user-1", time.Hour)
			if err != nil {
				return err
			}
			created = r
			return repos.ReservationRepo().Create(ctx, r)
		})
		require.NoError(t, err)

		found, err := NewGormReservationRepository(db).FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), found.Quantity)
	})

	t.Run("rolls back every write when the function fails", func(t *testing.T) {
		db := setupScopeTestDB(t)
		scope := NewGormTransactionScope(db)
		productID, variantID := seedVariant(t, db, 10)

		var abandonedID uuid.UUID
		err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
			r, err := inventory.NewReservation(productID, catalog.VariantMatch{
				Field: catalog.MatchByVariantID,
				Value: variantID,
			}, 3, "user-1", time.Hour)
			if err != nil {
				return err
			}
			abandonedID = r.ID
			if err := repos.ReservationRepo().Create(ctx, r); err != nil {
				return err
			}
			return errors.New("capacity check failed after insert")
		})
		require.Error(t, err)

		_, err = NewGormReservationRepository(db).FindByID(ctx, abandonedID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestIsTransactionAbort(t *testing.T) {
	assert.True(t, isTransactionAbort(errors.New("ERROR: could not serialize access (SQLSTATE 40001)")))
	assert.True(t, isTransactionAbort(errors.New("ERROR: deadlock detected (SQLSTATE 40P01)")))
	assert.False(t, isTransactionAbort(errors.New("connection refused")))
}
