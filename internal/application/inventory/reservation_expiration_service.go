package inventory

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/inventory"
)

// DefaultExpirationBatchSize bounds how many expired holds one sweep processes
const DefaultExpirationBatchSize = 200

// ReservationExpirationService transitions held reservations past their
// expiry to the expired state. Expired holds already stop counting against
// availability the moment their expiry passes, so the sweep is off the
// critical path; it exists to keep the audit trail honest and the table
// small.
type ReservationExpirationService struct {
	reservations inventory.ReservationRepository
	cache        inventory.AvailabilityCache
	batchSize    int
	logger       *zap.Logger
}

// NewReservationExpirationService creates a new ReservationExpirationService
func NewReservationExpirationService(
	reservations inventory.ReservationRepository,
	cache inventory.AvailabilityCache,
	logger *zap.Logger,
) *ReservationExpirationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReservationExpirationService{
		reservations: reservations,
		cache:        cache,
		batchSize:    DefaultExpirationBatchSize,
		logger:       logger,
	}
}

// ExpiredReservationStats contains statistics about one sweep
type ExpiredReservationStats struct {
	TotalExpired   int       `json:"total_expired"`
	SuccessExpired int       `json:"success_expired"`
	FailedExpiries int       `json:"failed_expiries"`
	ProcessedAt    time.Time `json:"processed_at"`
}

// ReleaseExpiredReservations finds held reservations past their expiry and
// transitions them to expired
func (s *ReservationExpirationService) ReleaseExpiredReservations(ctx context.Context) (*ExpiredReservationStats, error) {
	stats := &ExpiredReservationStats{
		ProcessedAt: time.Now(),
	}

	expired, err := s.reservations.FindExpired(ctx, time.Now(), s.batchSize)
	if err != nil {
		s.logger.Error("Failed to find expired reservations", zap.Error(err))
		return nil, err
	}

	stats.TotalExpired = len(expired)
	if stats.TotalExpired == 0 {
		s.logger.Debug("No expired reservations found")
		return stats, nil
	}

	s.logger.Info("Found expired reservations",
		zap.Int("count", stats.TotalExpired),
	)

	for i := range expired {
		if err := s.expireReservation(ctx, &expired[i]); err != nil {
			s.logger.Error("Failed to expire reservation",
				zap.String("reservation_id", expired[i].ID.String()),
				zap.String("holder_id", expired[i].HolderID),
				zap.Error(err),
			)
			stats.FailedExpiries++
			continue
		}
		stats.SuccessExpired++
	}

	s.logger.Info("Completed reservation expiry sweep",
		zap.Int("total", stats.TotalExpired),
		zap.Int("expired", stats.SuccessExpired),
		zap.Int("failed", stats.FailedExpiries),
	)

	return stats, nil
}

func (s *ReservationExpirationService) expireReservation(ctx context.Context, r *inventory.Reservation) error {
	if err := r.Expire(); err != nil {
		return err
	}
	if err := s.reservations.Save(ctx, r); err != nil {
		return err
	}

	// The hold stopped counting at its expiry instant, but a cached payload
	// computed before that instant may still include it.
	var variantID, label string
	if r.MatchField == catalog.MatchByLabel {
		label = r.MatchValue
	} else {
		variantID = r.MatchValue
	}
	keys := inventory.CacheKeysForVariant(r.ProductID, variantID, label)
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("Availability cache invalidation failed after expiry",
			zap.Strings("cache_keys", keys),
			zap.Error(err),
		)
	}
	return nil
}

// Run sweeps on the given interval until the context is cancelled
func (s *ReservationExpirationService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ReleaseExpiredReservations(ctx); err != nil {
				s.logger.Error("Reservation expiry sweep failed", zap.Error(err))
			}
		}
	}
}
