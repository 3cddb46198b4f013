package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/inventory"
	"github.com/shopadmin/backend/internal/domain/shared"
)

func setupReservationTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&inventory.Reservation{})
	require.NoError(t, err)

	return db
}

func makeReservation(t *testing.T, productID uuid.UUID, field catalog.VariantMatchField, value string, quantity int64, ttl time.Duration) *inventory.Reservation {
	t.Helper()
	r, err := inventory.NewReservation(productID, catalog.VariantMatch{Field: field, Value: value}, quantity, "user-1", time.Hour)
	require.NoError(t, err)
	r.ExpiresAt = time.Now().Add(ttl)
	return r
}

func TestGormReservationRepository_CreateAndFind(t *testing.T) {
	db := setupReservationTestDB(t)
	repo := NewGormReservationRepository(db)
	ctx := context.Background()
	productID := uuid.New()

	t.Run("round trips a reservation", func(t *testing.T) {
		r := makeReservation(t, productID, catalog.MatchByVariantID, "var-small", 3, time.Hour)
		require.NoError(t, repo.Create(ctx, r))

		found, err := repo.FindByID(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, r.ID, found.ID)
		assert.Equal(t, catalog.MatchByVariantID, found.MatchField)
		assert.Equal(t, "var-small", found.MatchValue)
		assert.Equal(t, int64(3), found.Quantity)
		assert.Equal(t, inventory.ReservationStatusHeld, found.Status)
	})

	t.Run("returns not found for an unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("persists state transitions", func(t *testing.T) {
		r := makeReservation(t, productID, catalog.MatchByVariantID, "var-medium", 2, time.Hour)
		require.NoError(t, repo.Create(ctx, r))

		require.NoError(t, r.Cancel())
		require.NoError(t, repo.Save(ctx, r))

		found, err := repo.FindByID(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, inventory.ReservationStatusCancelled, found.Status)
	})
}

func TestGormReservationRepository_SumActiveForVariant(t *testing.T) {
	ctx := context.Background()

	t.Run("sums holds across both addressing shapes", func(t *testing.T) {
		db := setupReservationTestDB(t)
		repo := NewGormReservationRepository(db)
		productID := uuid.New()

		require.NoError(t, repo.Create(ctx, makeReservation(t, productID, catalog.MatchByVariantID, "var-small", 3, time.Hour)))
		require.NoError(t, repo.Create(ctx, makeReservation(t, productID, catalog.MatchByLabel, "Small - Blue", 2, time.Hour)))
		// Different variant of the same product
		require.NoError(t, repo.Create(ctx, makeReservation(t, productID, catalog.MatchByVariantID, "var-medium", 5, time.Hour)))

		total, err := repo.SumActiveForVariant(ctx, productID, "var-small", "Small - Blue")
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
	})

	t.Run("excludes expired holds even before the sweeper runs", func(t *testing.T) {
		db := setupReservationTestDB(t)
		repo := NewGormReservationRepository(db)
		productID := uuid.New()

		require.NoError(t, repo.Create(ctx, makeReservation(t, productID, catalog.MatchByVariantID, "var-small", 3, time.Hour)))
		require.NoError(t, repo.Create(ctx, makeReservation(t, productID, catalog.MatchByVariantID, "var-small", 4, -time.Minute)))

		total, err := repo.SumActiveForVariant(ctx, productID, "var-small", "Small - Blue")
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("excludes terminal states", func(t *testing.T) {
		db := setupReservationTestDB(t)
		repo := NewGormReservationRepository(db)
		productID := uuid.New()

		held := makeReservation(t, productID, catalog.MatchByVariantID, "var-small", 3, time.Hour)
		require.NoError(t, repo.Create(ctx, held))

		cancelled := makeReservation(t, productID, catalog.MatchByVariantID, "var-small", 2, time.Hour)
		require.NoError(t, cancelled.Cancel())
		require.NoError(t, repo.Create(ctx, cancelled))

		total, err := repo.SumActiveForVariant(ctx, productID, "var-small", "")
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("returns zero when no holds exist", func(t *testing.T) {
		db := setupReservationTestDB(t)
		repo := NewGormReservationRepository(db)

		total, err := repo.SumActiveForVariant(ctx, uuid.New(), "var-small", "Small - Blue")
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("does not leak holds from other products", func(t *testing.T) {
		db := setupReservationTestDB(t)
		repo := NewGormReservationRepository(db)
		productID := uuid.New()
		otherProduct := uuid.New()

		require.NoError(t, repo.Create(ctx, makeReservation(t, otherProduct, catalog.MatchByVariantID, "var-small", 9, time.Hour)))
		require.NoError(t, repo.Create(ctx, makeReservation(t, productID, catalog.MatchByVariantID, "var-small", 3, time.Hour)))

		total, err := repo.SumActiveForVariant(ctx, productID, "var-small", "")
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})
}

func TestGormReservationRepository_FindExpired(t *testing.T) {
	ctx := context.Background()
	db := setupReservationTestDB(t)
	repo := NewGormReservationRepository(db)
	productID := uuid.New()

	stale1 := makeReservation(t, productID, catalog.MatchByVariantID, "var-small", 1, -2*time.Minute)
	stale2 := makeReservation(t, productID, catalog.MatchByVariantID, "var-medium", 2, -time.Minute)
	fresh := makeReservation(t, productID, catalog.MatchByVariantID, "var-large", 3, time.Hour)
	expiredAlready := makeReservation(t, productID, catalog.MatchByVariantID, "var-small", 4, -time.Hour)
	expiredAlready.Status = inventory.ReservationStatusExpired

	for _, r := range []*inventory.Reservation{stale1, stale2, fresh, expiredAlready} {
		require.NoError(t, repo.Create(ctx, r))
	}

	expired, err := repo.FindExpired(ctx, time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, expired, 2)
	// Oldest expiry first
	assert.Equal(t, stale1.ID, expired[0].ID)
	assert.Equal(t, stale2.ID, expired[1].ID)

	limited, err := repo.FindExpired(ctx, time.Now(), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
