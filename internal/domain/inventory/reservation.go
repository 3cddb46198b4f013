package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/shared"
)

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	ReservationStatusHeld      ReservationStatus = "held"
	ReservationStatusCommitted ReservationStatus = "committed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusExpired   ReservationStatus = "expired"
)

// Reservation is a time-boxed hold against a variant's inventory.
//
// The variant is recorded by whichever addressing scheme created the hold
// (MatchField is variant_id or label). Expired holds stop counting against
// availability the moment their expiry passes, even before the sweeper
// transitions them.
type Reservation struct {
	shared.BaseEntity
	ProductID  uuid.UUID                 `gorm:"type:uuid;not null;index:idx_reservations_product"`
	MatchField catalog.VariantMatchField `gorm:"type:varchar(20);not null"`
	MatchValue string                    `gorm:"type:varchar(200);not null;index:idx_reservations_match"`
	Quantity   int64                     `gorm:"not null"`
	HolderID   string                    `gorm:"type:varchar(100);not null"`
	Status     ReservationStatus         `gorm:"type:varchar(20);not null;default:'held';index:idx_reservations_status"`
	ExpiresAt  time.Time                 `gorm:"not null;index:idx_reservations_expires"`
}

// TableName returns the table name for GORM
func (Reservation) TableName() string {
	return "reservations"
}

// NewReservation creates a held reservation with the given time-to-live
func NewReservation(productID uuid.UUID, match catalog.VariantMatch, quantity int64, holderID string, ttl time.Duration) (*Reservation, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Reservation quantity must be positive")
	}
	if holderID == "" {
		return nil, shared.NewDomainError("INVALID_HOLDER", "Reservation holder is required")
	}
	if ttl <= 0 {
		return nil, shared.NewDomainError("INVALID_TTL", "Reservation TTL must be positive")
	}
	return &Reservation{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		MatchField: match.Field,
		MatchValue: match.Value,
		Quantity:   quantity,
		HolderID:   holderID,
		Status:     ReservationStatusHeld,
		ExpiresAt:  time.Now().Add(ttl),
	}, nil
}

// IsActive reports whether the hold still counts against availability
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationStatusHeld && time.Now().Before(r.ExpiresAt)
}

// Commit converts the hold into a permanent deduction. Valid only from held;
// commit is allowed past expiry only if the sweeper has not run yet, so the
// caller must re-check expiry before relying on it.
func (r *Reservation) Commit() error {
	if r.Status != ReservationStatusHeld {
		return shared.ErrInvalidState
	}
	if time.Now().After(r.ExpiresAt) {
		return shared.NewDomainError("RESERVATION_EXPIRED", "Reservation has expired and cannot be committed")
	}
	r.Status = ReservationStatusCommitted
	r.UpdatedAt = time.Now()
	return nil
}

// Cancel releases the hold. Valid only from held.
func (r *Reservation) Cancel() error {
	if r.Status != ReservationStatusHeld {
		return shared.ErrInvalidState
	}
	r.Status = ReservationStatusCancelled
	r.UpdatedAt = time.Now()
	return nil
}

// Expire marks a held reservation whose expiry has passed. Kept as a
// distinct terminal state rather than cancelled so the audit trail shows
// which holds timed out.
func (r *Reservation) Expire() error {
	if r.Status != ReservationStatusHeld {
		return shared.ErrInvalidState
	}
	if time.Now().Before(r.ExpiresAt) {
		return shared.NewDomainError("RESERVATION_NOT_EXPIRED", "Reservation has not expired yet")
	}
	r.Status = ReservationStatusExpired
	r.UpdatedAt = time.Now()
	return nil
}
