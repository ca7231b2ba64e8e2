// Package stats serves rating aggregates for vehicle listing pages. The
// numbers are derived on demand from the review store, cached briefly, and
// deduplicated so a burst of requests for one hot vehicle hits the database
// once.
package stats

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/autovia/reviews-service/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GetVehicleStats(ctx context.Context, vehicleID uuid.UUID) (*models.ReviewStats, error)
	GetModerationStats(ctx context.Context) (*models.ModerationStats, error)
}

type ServiceImpl struct {
	repo               Repository
	logger             *zap.Logger
	cache              *gocache.Cache
	group              singleflight.Group
	includeAllStatuses bool
}

func NewService(repo Repository, cacheTTL time.Duration, includeAllStatuses bool, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:               repo,
		logger:             logger,
		cache:              gocache.New(cacheTTL, 2*cacheTTL),
		includeAllStatuses: includeAllStatuses,
	}
}

// GetVehicleStats returns the aggregate for one vehicle. A vehicle with no
// counted reviews gets a well-formed zero aggregate, never an error.
func (s *ServiceImpl) GetVehicleStats(ctx context.Context, vehicleID uuid.UUID) (*models.ReviewStats, error) {
	key := vehicleID.String()
	if cached, found := s.cache.Get(key); found {
		return cached.(*models.ReviewStats), nil
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		stats, err := s.repo.GetVehicleStats(ctx, vehicleID, !s.includeAllStatuses)
		if err != nil {
			s.logger.Error("Failed to compute vehicle stats",
				zap.String("vehicle_id", key),
				zap.Error(err))
			return nil, err
		}
		s.cache.Set(key, stats, gocache.DefaultExpiration)
		return stats, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.ReviewStats), nil
}

func (s *ServiceImpl) GetModerationStats(ctx context.Context) (*models.ModerationStats, error) {
	stats, err := s.repo.GetModerationStats(ctx)
	if err != nil {
		s.logger.Error("Failed to compute moderation stats", zap.Error(err))
		return nil, err
	}
	return stats, nil
}

// Invalidate drops the cached aggregate for a vehicle. Callers use it after
// a moderation decision so listing pages converge faster than the TTL.
func (s *ServiceImpl) Invalidate(vehicleID uuid.UUID) {
	s.cache.Delete(vehicleID.String())
}
