package votes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/autovia/reviews-service/internal/app/models"
	"github.com/autovia/reviews-service/internal/app/observability/metrics"
)

var _ Repository = (*RepositoryImpl)(nil)

// PgxPool is the slice of pgxpool.Pool the vote ledger needs. Narrowed so
// repository tests can substitute pgxmock.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository is the vote ledger. A vote either inserts exactly one
// (review_id, voter_id) row and bumps the matching counter, or it conflicts
// and changes nothing.
type Repository interface {
	ApplyVote(ctx context.Context, reviewID, voterID uuid.UUID, direction models.VoteDirection) (bool, error)
}

type RepositoryImpl struct {
	logger *zap.Logger
	db     PgxPool
}

func NewRepository(db PgxPool, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		db:     db,
	}
}

const maxVoteAttempts = 3

// ApplyVote records one vote at most once per voter. The counter moves with
// `SET helpful_count = helpful_count + 1` inside the same transaction as the
// ledger insert, so the increment never round-trips through application
// memory and cannot lose updates under concurrent voters. Transient
// serialization and deadlock failures are retried.
func (r *RepositoryImpl) ApplyVote(ctx context.Context, reviewID, voterID uuid.UUID, direction models.VoteDirection) (bool, error) {
	tracer := otel.Tracer("reviews-service/votes")
	ctx, span := tracer.Start(ctx, "ApplyVote")
	span.SetAttributes(
		attribute.String("review.id", reviewID.String()),
		attribute.String("vote.direction", string(direction)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.Get().DBQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}()

	var lastErr error
	for attempt := 1; attempt <= maxVoteAttempts; attempt++ {
		applied, err := r.applyVoteOnce(ctx, reviewID, voterID, direction)
		if err == nil {
			return applied, nil
		}
		if !isRetryable(err) {
			return false, err
		}
		lastErr = err
		r.logger.Warn("Transient conflict applying vote, retrying",
			zap.String("review_id", reviewID.String()),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}
	r.logger.Error("Vote failed after retries",
		zap.String("review_id", reviewID.String()),
		zap.Error(lastErr))
	return false, fmt.Errorf("failed to apply vote after %d attempts: %w", maxVoteAttempts, lastErr)
}

func (r *RepositoryImpl) applyVoteOnce(ctx context.Context, reviewID, voterID uuid.UUID, direction models.VoteDirection) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	insertQuery := `
        INSERT INTO review_votes (review_id, voter_id, direction)
        VALUES ($1, $2, $3)
        ON CONFLICT (review_id, voter_id) DO NOTHING
    `
	tag, err := tx.Exec(ctx, insertQuery, reviewID, voterID, direction)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			// FK violation: the review is gone.
			return false, models.ErrNotFound
		}
		return false, fmt.Errorf("failed to insert vote: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// The voter already voted on this review; idempotent no-op.
		if err = tx.Commit(ctx); err != nil {
			return false, fmt.Errorf("failed to commit duplicate vote: %w", err)
		}
		return false, nil
	}

	counter := "helpful_count"
	if direction == models.VoteUnhelpful {
		counter = "unhelpful_count"
	}
	updateQuery := fmt.Sprintf(`UPDATE reviews SET %s = %s + 1, updated_at = NOW() WHERE id = $1`, counter, counter)
	updateTag, err := tx.Exec(ctx, updateQuery, reviewID)
	if err != nil {
		return false, fmt.Errorf("failed to increment %s: %w", counter, err)
	}
	if updateTag.RowsAffected() == 0 {
		return false, models.ErrNotFound
	}

	if err = tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit vote: %w", err)
	}
	return true, nil
}

// isRetryable reports whether the error is a transient storage conflict
// (serialization failure or deadlock) worth another attempt.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
