package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/autovia/reviews-service/internal/app/models"
	"github.com/autovia/reviews-service/internal/app/observability/metrics"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	// GetVehicleStats aggregates ratings for one vehicle. When onlyApproved
	// is true, reviews outside the approved status do not count.
	GetVehicleStats(ctx context.Context, vehicleID uuid.UUID, onlyApproved bool) (*models.ReviewStats, error)
	// GetModerationStats counts reviews per status across all vehicles.
	GetModerationStats(ctx context.Context) (*models.ModerationStats, error)
}

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgpool *pgxpool.Pool, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *RepositoryImpl) GetVehicleStats(ctx context.Context, vehicleID uuid.UUID, onlyApproved bool) (*models.ReviewStats, error) {
	start := time.Now()
	defer func() {
		metrics.Get().DBQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}()

	query := `
        SELECT
            COUNT(*),
            COALESCE(AVG(rating), 0),
            COUNT(*) FILTER (WHERE rating = 1),
            COUNT(*) FILTER (WHERE rating = 2),
            COUNT(*) FILTER (WHERE rating = 3),
            COUNT(*) FILTER (WHERE rating = 4),
            COUNT(*) FILTER (WHERE rating = 5),
            COUNT(*) FILTER (WHERE recommend)
        FROM reviews
        WHERE vehicle_id = $1
    `
	if onlyApproved {
		query += ` AND status = 'approved'`
	}

	stats := &models.ReviewStats{
		RatingDistribution: make(map[int]int, 5),
	}
	var perRating [5]int
	var recommended int
	err := r.pgpool.QueryRow(ctx, query, vehicleID).Scan(
		&stats.TotalReviews,
		&stats.AverageRating,
		&perRating[0], &perRating[1], &perRating[2], &perRating[3], &perRating[4],
		&recommended,
	)
	if err != nil {
		r.logger.Error("Failed to aggregate vehicle stats",
			zap.String("vehicle_id", vehicleID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to aggregate vehicle stats: %w", err)
	}

	for i, n := range perRating {
		stats.RatingDistribution[i+1] = n
	}
	if stats.TotalReviews > 0 {
		stats.RecommendPercentage = float64(recommended) / float64(stats.TotalReviews) * 100
	}
	return stats, nil
}

func (r *RepositoryImpl) GetModerationStats(ctx context.Context) (*models.ModerationStats, error) {
	start := time.Now()
	defer func() {
		metrics.Get().DBQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}()

	query := `
        SELECT
            COUNT(*) FILTER (WHERE status = 'pending'),
            COUNT(*) FILTER (WHERE status = 'approved'),
            COUNT(*) FILTER (WHERE status = 'rejected')
        FROM reviews
    `
	stats := &models.ModerationStats{}
	err := r.pgpool.QueryRow(ctx, query).Scan(&stats.PendingCount, &stats.ApprovedCount, &stats.RejectedCount)
	if err != nil {
		r.logger.Error("Failed to aggregate moderation stats", zap.Error(err))
		return nil, fmt.Errorf("failed to aggregate moderation stats: %w", err)
	}
	return stats, nil
}
