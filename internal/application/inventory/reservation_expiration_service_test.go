package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/inventory"
)

func expiredReservation(t *testing.T, productID uuid.UUID, match catalog.VariantMatch) inventory.Reservation {
	t.Helper()
	r, err := inventory.NewReservation(productID, match, 2, "user-1", time.Hour)
	require.NoError(t, err)
	r.ExpiresAt = time.Now().Add(-time.Minute)
	return *r
}

func TestReservationExpirationService_ReleaseExpiredReservations(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()

	t.Run("expires stale holds and invalidates their cache shape", func(t *testing.T) {
		reservations := new(MockReservationRepository)
		cache := newFakeCache()
		svc := NewReservationExpirationService(reservations, cache, nil)

		stale := expiredReservation(t, productID, catalog.VariantMatch{Field: catalog.MatchByLabel, Value: "Small - Blue"})
		reservations.On("FindExpired", ctx, mock.AnythingOfType("time.Time"), DefaultExpirationBatchSize).
			Return([]inventory.Reservation{stale}, nil)
		reservations.On("Save", ctx, mock.MatchedBy(func(r *inventory.Reservation) bool {
			return r.Status == inventory.ReservationStatusExpired
		})).Return(nil)

		stats, err := svc.ReleaseExpiredReservations(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.TotalExpired)
		assert.Equal(t, 1, stats.SuccessExpired)
		assert.Equal(t, 0, stats.FailedExpiries)

		assert.Equal(t, []string{"inventory:product:" + productID.String() + ":label:Small - Blue"}, cache.deleted)
	})

	t.Run("continues past individual failures", func(t *testing.T) {
		reservations := new(MockReservationRepository)
		cache := newFakeCache()
		svc := NewReservationExpirationService(reservations, cache, nil)

		first := expiredReservation(t, productID, catalog.VariantMatch{Field: catalog.MatchByVariantID, Value: "var-small"})
		second := expiredReservation(t, productID, catalog.VariantMatch{Field: catalog.MatchByVariantID, Value: "var-medium"})
		reservations.On("FindExpired", ctx, mock.AnythingOfType("time.Time"), DefaultExpirationBatchSize).
			Return([]inventory.Reservation{first, second}, nil)
		reservations.On("Save", ctx, mock.MatchedBy(func(r *inventory.Reservation) bool {
			return r.MatchValue == "var-small"
		})).Return(errors.New("store write failed"))
		reservations.On("Save", ctx, mock.MatchedBy(func(r *inventory.Reservation) bool {
			return r.MatchValue == "var-medium"
		})).Return(nil)

		stats, err := svc.ReleaseExpiredReservations(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.TotalExpired)
		assert.Equal(t, 1, stats.SuccessExpired)
		assert.Equal(t, 1, stats.FailedExpiries)
	})

	t.Run("reports an empty sweep without touching the cache", func(t *testing.T) {
		reservations := new(MockReservationRepository)
		cache := newFakeCache()
		svc := NewReservationExpirationService(reservations, cache, nil)

		reservations.On("FindExpired", ctx, mock.AnythingOfType("time.Time"), DefaultExpirationBatchSize).
			Return([]inventory.Reservation{}, nil)

		stats, err := svc.ReleaseExpiredReservations(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.TotalExpired)
		assert.Empty(t, cache.deleted)
	})
}
