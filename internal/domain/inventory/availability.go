package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/shared"
)

// InventoryInfo is the availability payload served to callers and stored in
// the cache. It is never authoritative: it can always be rebuilt from the
// product and reservation stores.
type InventoryInfo struct {
	ProductID         uuid.UUID `json:"product_id"`
	VariantID         string    `json:"variant_id"`
	Label             string    `json:"label"`
	RawStock          int64     `json:"raw_stock"`
	ReservedQuantity  int64     `json:"reserved_quantity"`
	AvailableStock    int64     `json:"available_stock"`
	LowStockThreshold int64     `json:"low_stock_threshold"`
	LowStock          bool      `json:"low_stock"`
	ComputedAt        time.Time `json:"computed_at"`
}

// AvailabilityCache is the key-value store in front of stock aggregation.
// Get returns (nil, nil) on a miss; errors mean the store itself is
// unreachable and callers fall back to direct computation.
type AvailabilityCache interface {
	Get(ctx context.Context, key string) (*InventoryInfo, error)
	Set(ctx context.Context, key string, info *InventoryInfo, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// StockAggregator computes a variant's availability from the product store
// and the reservation ledger. It is read-only and knows nothing about
// caching.
type StockAggregator struct {
	products     catalog.ProductRepository
	reservations ReservationRepository
}

// NewStockAggregator creates a stock aggregator
func NewStockAggregator(products catalog.ProductRepository, reservations ReservationRepository) *StockAggregator {
	return &StockAggregator{
		products:     products,
		reservations: reservations,
	}
}

// ComputeRawStock returns the on-hand count of the single variant matching
// the predicate. Zero matches means the variant does not exist; more than
// one means a label collision, which is a data-integrity fault and is
// reported as not found rather than resolved to an arbitrary row.
func (a *StockAggregator) ComputeRawStock(ctx context.Context, productID uuid.UUID, match catalog.VariantMatch) (*catalog.Variant, error) {
	variants, err := a.products.FindVariants(ctx, productID, match)
	if err != nil {
		return nil, err
	}
	if len(variants) != 1 {
		return nil, shared.ErrNotFound
	}
	return &variants[0], nil
}

// ComputeAvailability returns the full availability payload for the variant
// matching the predicate: raw stock minus the sum of active holds.
func (a *StockAggregator) ComputeAvailability(ctx context.Context, productID uuid.UUID, match catalog.VariantMatch) (*InventoryInfo, error) {
	variant, err := a.ComputeRawStock(ctx, productID, match)
	if err != nil {
		return nil, err
	}

	reserved, err := a.reservations.SumActiveForVariant(ctx, productID, variant.VariantID, variant.Label)
	if err != nil {
		return nil, err
	}

	available := variant.Inventory - reserved
	if available < 0 {
		available = 0
	}

	return &InventoryInfo{
		ProductID:         productID,
		VariantID:         variant.VariantID,
		Label:             variant.Label,
		RawStock:          variant.Inventory,
		ReservedQuantity:  reserved,
		AvailableStock:    available,
		LowStockThreshold: variant.LowStockThreshold,
		LowStock:          available <= variant.LowStockThreshold,
		ComputedAt:        time.Now(),
	}, nil
}
