// Package vehicles is the read-only collaborator for vehicle listings.
package vehicles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/autovia/reviews-service/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	Exists(ctx context.Context, vehicleID uuid.UUID) (bool, error)
	GetSummary(ctx context.Context, vehicleID uuid.UUID) (*models.VehicleSummary, error)
}

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgxpool *pgxpool.Pool, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *RepositoryImpl) Exists(ctx context.Context, vehicleID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM vehicles WHERE id = $1)`
	var exists bool
	if err := r.pgpool.QueryRow(ctx, query, vehicleID).Scan(&exists); err != nil {
		r.logger.Error("Failed to check vehicle exists", zap.String("vehicle_id", vehicleID.String()), zap.Error(err))
		return false, fmt.Errorf("failed to check vehicle exists: %w", err)
	}
	return exists, nil
}

func (r *RepositoryImpl) GetSummary(ctx context.Context, vehicleID uuid.UUID) (*models.VehicleSummary, error) {
	query := `
        SELECT id, title, slug, thumbnail
        FROM vehicles
        WHERE id = $1
    `
	var summary models.VehicleSummary
	err := r.pgpool.QueryRow(ctx, query, vehicleID).Scan(&summary.ID, &summary.Title, &summary.Slug, &summary.Thumbnail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get vehicle summary", zap.String("vehicle_id", vehicleID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get vehicle summary: %w", err)
	}
	return &summary, nil
}
