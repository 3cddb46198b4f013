package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReservationRepository defines the persistence contract for reservations
type ReservationRepository interface {
	Create(ctx context.Context, reservation *Reservation) error
	Save(ctx context.Context, reservation *Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*Reservation, error)

	// FindExpired returns held reservations whose expiry passed before the
	// given instant, up to limit rows
	FindExpired(ctx context.Context, before time.Time, limit int) ([]Reservation, error)

	// SumActiveForVariant totals the held, non-expired quantity against one
	// logical variant. Both addressing shapes are counted: holds created
	// under variant_id and holds created under label refer to the same
	// stock, so the sum matches either. An empty label skips the label arm.
	SumActiveForVariant(ctx context.Context, productID uuid.UUID, variantID, label string) (int64, error)
}
