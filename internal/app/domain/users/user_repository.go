// Package users is the read-only collaborator for user profiles. The review
// service only needs the lightweight summary joined onto listed reviews;
// account management lives in another service.
package users

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
	GetAuthorSummary(ctx context.Context, userID uuid.UUID) (*models.AuthorSummary, error)
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

func (r *RepositoryImpl) GetAuthorSummary(ctx context.Context, userID uuid.UUID) (*models.AuthorSummary, error) {
	query := `
        SELECT id, display_name, avatar
        FROM users
        WHERE id = $1
    `
	var summary models.AuthorSummary
	err := r.pgpool.QueryRow(ctx, query, userID).Scan(&summary.ID, &summary.DisplayName, &summary.Avatar)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get author summary", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get author summary: %w", err)
	}
	return &summary, nil
}
