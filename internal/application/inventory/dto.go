package inventory

import (
	"time"

	"github.com/google/uuid"
)

// CheckAvailabilityRequest asks whether a quantity can be satisfied.
// Exactly one of VariantID or Label must address the variant once the
// active addressing scheme is applied.
type CheckAvailabilityRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	VariantID string    `json:"variant_id"`
	Label     string    `json:"label"`
	Quantity  int64     `json:"quantity" binding:"required,min=1"`
}

// AvailabilityResponse reports whether the requested quantity is available
type AvailabilityResponse struct {
	Available      bool  `json:"available"`
	AvailableStock int64 `json:"available_stock"`
}

// InventoryInfoRequest identifies the variant to read availability for
type InventoryInfoRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	VariantID string    `json:"variant_id"`
	Label     string    `json:"label"`
}

// InventoryInfoResponse is the availability payload returned to callers
type InventoryInfoResponse struct {
	ProductID         uuid.UUID `json:"product_id"`
	VariantID         string    `json:"variant_id"`
	Label             string    `json:"label"`
	RawStock          int64     `json:"raw_stock"`
	ReservedQuantity  int64     `json:"reserved_quantity"`
	AvailableStock    int64     `json:"available_stock"`
	LowStockThreshold int64     `json:"low_stock_threshold"`
	LowStock          bool      `json:"low_stock"`
	Cached            bool      `json:"cached"`
}

// ReserveInventoryRequest asks for a time-boxed hold against a variant
type ReserveInventoryRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	VariantID string    `json:"variant_id"`
	Label     string    `json:"label"`
	Quantity  int64     `json:"quantity" binding:"required,min=1"`
	HolderID  string    `json:"holder_id" binding:"required"`
	TTLMs     int64     `json:"ttl_ms" binding:"omitempty,min=1"`
}

// ReserveInventoryResponse reports the outcome of a reservation attempt.
// Insufficient stock is an expected outcome, not an error: Success is false
// and Reason carries the error code.
type ReserveInventoryResponse struct {
	Success       bool       `json:"success"`
	ReservationID *uuid.UUID `json:"reservation_id,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Reason        string     `json:"reason,omitempty"`
}

// ReservationResponse represents a reservation in API responses
type ReservationResponse struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	MatchField string    `json:"match_field"`
	MatchValue string    `json:"match_value"`
	Quantity   int64     `json:"quantity"`
	HolderID   string    `json:"holder_id"`
	Status     string    `json:"status"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// AdjustInventoryRequest replaces a variant's raw on-hand count. The
// product ID comes from the URL path, not the body.
type AdjustInventoryRequest struct {
	ProductID uuid.UUID `json:"-"`
	VariantID string    `json:"variant_id"`
	Label     string    `json:"label"`
	NewCount  int64     `json:"new_count" binding:"min=0"`
}
