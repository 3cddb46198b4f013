package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/inventory"
	"github.com/shopadmin/backend/internal/domain/shared"
)

const (
	// DefaultReservationTTL is used when a reserve request carries no TTL
	DefaultReservationTTL = 15 * time.Minute
	// DefaultCacheTTL bounds how long an availability payload may be served
	// without recomputation
	DefaultCacheTTL = 5 * time.Minute
)

// InventoryService orchestrates availability reads and reservation writes.
//
// Reads are cache-aside and fail open: a broken cache degrades to direct
// computation, never to an error. Writes run inside a transaction scope and
// invalidate both cache key shapes of the touched variant, because the
// addressing flag can differ between the writer and a concurrent reader.
type InventoryService struct {
	flags          inventory.FlagGate
	aggregator     *inventory.StockAggregator
	cache          inventory.AvailabilityCache
	txScope        TransactionScope
	cacheTTL       time.Duration
	reservationTTL time.Duration
	logger         *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	flags inventory.FlagGate,
	aggregator *inventory.StockAggregator,
	cache inventory.AvailabilityCache,
	txScope TransactionScope,
	logger *zap.Logger,
) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		flags:          flags,
		aggregator:     aggregator,
		cache:          cache,
		txScope:        txScope,
		cacheTTL:       DefaultCacheTTL,
		reservationTTL: DefaultReservationTTL,
		logger:         logger,
	}
}

// SetCacheTTL overrides the availability cache TTL
func (s *InventoryService) SetCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

// SetReservationTTL overrides the default hold duration applied to reserve
// requests that carry no TTL
func (s *InventoryService) SetReservationTTL(ttl time.Duration) {
	if ttl > 0 {
		s.reservationTTL = ttl
	}
}

// CheckAvailability reports whether the requested quantity is available for
// the addressed variant. Read-only; addressing and not-found faults are
// surfaced to the caller.
func (s *InventoryService) CheckAvailability(ctx context.Context, req CheckAvailabilityRequest) (*AvailabilityResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.ErrInvalidInput
	}

	key, err := inventory.ResolveVariantKey(req.VariantID, req.Label, s.flags.IsLabelModeEnabled())
	if err != nil {
		return nil, err
	}

	info, err := s.aggregator.ComputeAvailability(ctx, req.ProductID, key.Match)
	if err != nil {
		return nil, err
	}

	return &AvailabilityResponse{
		Available:      info.AvailableStock >= req.Quantity,
		AvailableStock: info.AvailableStock,
	}, nil
}

// GetProductInventoryInfo returns the availability payload for a variant,
// served from cache when possible.
func (s *InventoryService) GetProductInventoryInfo(ctx context.Context, req InventoryInfoRequest) (*InventoryInfoResponse, error) {
	key, err := inventory.ResolveVariantKey(req.VariantID, req.Label, s.flags.IsLabelModeEnabled())
	if err != nil {
		return nil, err
	}
	cacheKey := key.CacheKey(req.ProductID)

	cached, cacheErr := s.cache.Get(ctx, cacheKey)
	if cacheErr != nil {
		s.logger.Warn("Availability cache read failed, computing directly",
			zap.String("cache_key", cacheKey),
			zap.Error(cacheErr),
		)
	}
	if cached != nil {
		return toInfoResponse(cached, true), nil
	}

	info, err := s.aggregator.ComputeAvailability(ctx, req.ProductID, key.Match)
	if err != nil {
		return nil, err
	}

	if cacheErr == nil {
		if err := s.cache.Set(ctx, cacheKey, info, s.cacheTTL); err != nil {
			s.logger.Warn("Availability cache write failed",
				zap.String("cache_key", cacheKey),
				zap.Error(err),
			)
		}
	}

	return toInfoResponse(info, false), nil
}

// ReserveInventory places a time-boxed hold on a variant's stock. The
// capacity check and the insert run in one transaction; a transaction abort
// is retried once before being surfaced. Insufficient stock is reported as
// an unsuccessful result, not an error.
func (s *InventoryService) ReserveInventory(ctx context.Context, req ReserveInventoryRequest) (*ReserveInventoryResponse, error) {
	if req.Quantity <= 0 || req.HolderID == "" {
		return nil, shared.ErrInvalidInput
	}

	key, err := inventory.ResolveVariantKey(req.VariantID, req.Label, s.flags.IsLabelModeEnabled())
	if err != nil {
		return nil, err
	}

	ttl := s.reservationTTL
	if req.TTLMs > 0 {
		ttl = time.Duration(req.TTLMs) * time.Millisecond
	}

	var reservation *inventory.Reservation
	var variant catalog.Variant

	attempt := func() error {
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			variants, err := repos.ProductRepo().FindVariantsForUpdate(ctx, req.ProductID, key.Match)
			if err != nil {
				return err
			}
			if len(variants) != 1 {
				return shared.ErrNotFound
			}
			variant = variants[0]

			reserved, err := repos.ReservationRepo().SumActiveForVariant(ctx, req.ProductID, variant.VariantID, variant.Label)
			if err != nil {
				return err
			}
			if variant.Inventory-reserved < req.Quantity {
				return shared.ErrInsufficientStock
			}

			r, err := inventory.NewReservation(req.ProductID, key.Match, req.Quantity, req.HolderID, ttl)
			if err != nil {
				return err
			}
			if err := repos.ReservationRepo().Create(ctx, r); err != nil {
				return err
			}
			reservation = r
			return nil
		})
	}

	err = attempt()
	if errors.Is(err, shared.ErrTransactionAborted) {
		s.logger.Warn("Reservation transaction aborted, retrying once",
			zap.String("product_id", req.ProductID.String()),
		)
		err = attempt()
	}
	if errors.Is(err, shared.ErrInsufficientStock) {
		return &ReserveInventoryResponse{Success: false, Reason: shared.ErrInsufficientStock.Code}, nil
	}
	if err != nil {
		return nil, err
	}

	s.invalidateVariant(ctx, req.ProductID, variant.VariantID, variant.Label)

	return &ReserveInventoryResponse{
		Success:       true,
		ReservationID: &reservation.ID,
		ExpiresAt:     &reservation.ExpiresAt,
	}, nil
}

// CommitReservation converts a held reservation into a permanent deduction
// of the variant's raw stock.
func (s *InventoryService) CommitReservation(ctx context.Context, reservationID uuid.UUID) (*ReservationResponse, error) {
	var reservation *inventory.Reservation
	var variant catalog.Variant

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.ReservationRepo().FindByID(ctx, reservationID)
		if err != nil {
			return err
		}

		match := catalog.VariantMatch{Field: r.MatchField, Value: r.MatchValue}
		variants, err := repos.ProductRepo().FindVariantsForUpdate(ctx, r.ProductID, match)
		if err != nil {
			return err
		}
		if len(variants) != 1 {
			return shared.ErrNotFound
		}
		variant = variants[0]

		if err := r.Commit(); err != nil {
			return err
		}
		if err := variant.DeductInventory(r.Quantity); err != nil {
			return err
		}
		if err := repos.ProductRepo().SaveVariant(ctx, &variant); err != nil {
			return err
		}
		if err := repos.ReservationRepo().Save(ctx, r); err != nil {
			return err
		}
		reservation = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateVariant(ctx, reservation.ProductID, variant.VariantID, variant.Label)
	return toReservationResponse(reservation), nil
}

// CancelReservation releases a held reservation
func (s *InventoryService) CancelReservation(ctx context.Context, reservationID uuid.UUID) (*ReservationResponse, error) {
	var reservation *inventory.Reservation
	var variant catalog.Variant

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.ReservationRepo().FindByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if err := r.Cancel(); err != nil {
			return err
		}
		if err := repos.ReservationRepo().Save(ctx, r); err != nil {
			return err
		}

		match := catalog.VariantMatch{Field: r.MatchField, Value: r.MatchValue}
		variants, err := repos.ProductRepo().FindVariants(ctx, r.ProductID, match)
		if err == nil && len(variants) == 1 {
			variant = variants[0]
		}
		reservation = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if variant.VariantID == "" && variant.Label == "" {
		// Variant lookup failed; invalidate at least the shape the
		// reservation was created under.
		switch reservation.MatchField {
		case catalog.MatchByLabel:
			variant.Label = reservation.MatchValue
		default:
			variant.VariantID = reservation.MatchValue
		}
	}
	s.invalidateVariant(ctx, reservation.ProductID, variant.VariantID, variant.Label)
	return toReservationResponse(reservation), nil
}

// AdjustInventory replaces the variant's raw on-hand count (manual
// correction by an operator)
func (s *InventoryService) AdjustInventory(ctx context.Context, req AdjustInventoryRequest) (*InventoryInfoResponse, error) {
	key, err := inventory.ResolveVariantKey(req.VariantID, req.Label, s.flags.IsLabelModeEnabled())
	if err != nil {
		return nil, err
	}

	var variant catalog.Variant
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		variants, err := repos.ProductRepo().FindVariantsForUpdate(ctx, req.ProductID, key.Match)
		if err != nil {
			return err
		}
		if len(variants) != 1 {
			return shared.ErrNotFound
		}
		variant = variants[0]
		if err := variant.SetInventory(req.NewCount); err != nil {
			return err
		}
		return repos.ProductRepo().SaveVariant(ctx, &variant)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateVariant(ctx, req.ProductID, variant.VariantID, variant.Label)

	info, err := s.aggregator.ComputeAvailability(ctx, req.ProductID, key.Match)
	if err != nil {
		return nil, err
	}
	return toInfoResponse(info, false), nil
}

// invalidateVariant drops every cache key shape the variant can be stored
// under. Cache faults are logged and swallowed; the next read repopulates.
func (s *InventoryService) invalidateVariant(ctx context.Context, productID uuid.UUID, variantID, label string) {
	keys := inventory.CacheKeysForVariant(productID, variantID, label)
	if len(keys) == 0 {
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("Availability cache invalidation failed",
			zap.Strings("cache_keys", keys),
			zap.Error(err),
		)
	}
}

func toInfoResponse(info *inventory.InventoryInfo, cached bool) *InventoryInfoResponse {
	return &InventoryInfoResponse{
		ProductID:         info.ProductID,
		VariantID:         info.VariantID,
		Label:             info.Label,
		RawStock:          info.RawStock,
		ReservedQuantity:  info.ReservedQuantity,
		AvailableStock:    info.AvailableStock,
		LowStockThreshold: info.LowStockThreshold,
		LowStock:          info.LowStock,
		Cached:            cached,
	}
}

func toReservationResponse(r *inventory.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:         r.ID,
		ProductID:  r.ProductID,
		MatchField: string(r.MatchField),
		MatchValue: r.MatchValue,
		Quantity:   r.Quantity,
		HolderID:   r.HolderID,
		Status:     string(r.Status),
		ExpiresAt:  r.ExpiresAt,
		CreatedAt:  r.CreatedAt,
	}
}
