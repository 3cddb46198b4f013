package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/inventory"
	"github.com/shopadmin/backend/internal/domain/shared"
)

// GormReservationRepository implements inventory.ReservationRepository using GORM
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// Create inserts a new reservation
func (r *GormReservationRepository) Create(ctx context.Context, reservation *inventory.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// Save persists reservation state changes
func (r *GormReservationRepository) Save(ctx context.Context, reservation *inventory.Reservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

// FindByID finds a reservation by its ID
func (r *GormReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Reservation, error) {
	var reservation inventory.Reservation
	if err := r.db.WithContext(ctx).First(&reservation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// FindExpired returns held reservations whose expiry passed before the given
// instant, oldest first
func (r *GormReservationRepository) FindExpired(ctx context.Context, before time.Time, limit int) ([]inventory.Reservation, error) {
	var reservations []inventory.Reservation
	if err := r.db.WithContext(ctx).
		Where("status = ?", inventory.ReservationStatusHeld).
		Where("expires_at < ?", before).
		Order("expires_at ASC").
		Limit(limit).
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// SumActiveForVariant totals the held, non-expired quantity against one
// logical variant. Holds created under either addressing shape count: they
// reserve the same physical stock.
func (r *GormReservationRepository) SumActiveForVariant(ctx context.Context, productID uuid.UUID, variantID, label string) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.Reservation{}).
		Where("product_id = ?", productID).
		Where("status = ?", inventory.ReservationStatusHeld).
		Where("expires_at > ?", time.Now())

	if label != "" {
		query = query.Where(
			"(match_field = ? AND match_value = ?) OR (match_field = ? AND match_value = ?)",
			catalog.MatchByVariantID, variantID,
			catalog.MatchByLabel, label,
		)
	} else {
		query = query.Where("match_field = ? AND match_value = ?", catalog.MatchByVariantID, variantID)
	}

	var total *int64
	if err := query.Select("SUM(quantity)").Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

var _ inventory.ReservationRepository = (*GormReservationRepository)(nil)
