package reviews

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/autovia/reviews-service/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

// PgxPool is the slice of pgxpool.Pool the record store uses. Narrowed so
// repository tests can substitute pgxmock and exercise the generated SQL.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is the durable review record store. It holds no business logic:
// status rules live in the moderation service, counter rules in the vote
// service.
type Repository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	Update(ctx context.Context, id uuid.UUID, params models.UpdateReviewParams) (*models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID, filter models.ReviewFilter, onlyApproved bool, sort models.ReviewSort, page, limit int) ([]models.Review, int, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, page, limit int) ([]models.Review, int, error)
	ListForModeration(ctx context.Context, filter models.ModerationFilter) ([]models.Review, int, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.ReviewStatus, notes *string) error
	MarkReported(ctx context.Context, id uuid.UUID) error
}

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool PgxPool
}

func NewRepository(pgpool PgxPool, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

const reviewColumns = `
    id, vehicle_id, author_id, rating, title, comment, pros, cons, recommend,
    purchase_type, ownership_duration, verified_purchase, helpful_count,
    unhelpful_count, reported, status, moderator_notes, created_at, updated_at
`

func scanReview(row pgx.Row) (*models.Review, error) {
	var review models.Review
	err := row.Scan(
		&review.ID, &review.VehicleID, &review.AuthorID, &review.Rating, &review.Title,
		&review.Comment, &review.Pros, &review.Cons, &review.Recommend,
		&review.PurchaseType, &review.OwnershipDuration, &review.VerifiedPurchase,
		&review.HelpfulCount, &review.UnhelpfulCount, &review.Reported,
		&review.Status, &review.ModeratorNotes, &review.CreatedAt, &review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Create inserts a new review. The store assigns id and timestamps; the
// validator has already forced status=pending and zeroed counters.
func (r *RepositoryImpl) Create(ctx context.Context, review *models.Review) error {
	query := `
        INSERT INTO reviews (
            vehicle_id, author_id, rating, title, comment, pros, cons, recommend,
            purchase_type, ownership_duration, verified_purchase, status
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
        ) RETURNING id, created_at, updated_at
    `
	err := r.pgpool.QueryRow(ctx, query,
		review.VehicleID, review.AuthorID, review.Rating, review.Title, review.Comment,
		review.Pros, review.Cons, review.Recommend, review.PurchaseType,
		review.OwnershipDuration, review.VerifiedPurchase, review.Status,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to create review", zap.Error(err))
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	review, err := scanReview(r.pgpool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get review", zap.String("review_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return review, nil
}

// Update is a partial merge: only non-nil params touch the row, everything
// else keeps its stored value.
func (r *RepositoryImpl) Update(ctx context.Context, id uuid.UUID, params models.UpdateReviewParams) (*models.Review, error) {
	builder := sq.Update("reviews").
		PlaceholderFormat(sq.Dollar).
		Set("updated_at", sq.Expr("NOW()")).
		Where("id = ?", id).
		Suffix("RETURNING" + reviewColumns)

	if params.Title != nil {
		builder = builder.Set("title", *params.Title)
	}
	if params.Comment != nil {
		builder = builder.Set("comment", *params.Comment)
	}
	if params.Pros != nil {
		builder = builder.Set("pros", *params.Pros)
	}
	if params.Cons != nil {
		builder = builder.Set("cons", *params.Cons)
	}
	if params.Recommend != nil {
		builder = builder.Set("recommend", *params.Recommend)
	}
	if params.Status != nil {
		builder = builder.Set("status", *params.Status)
	}
	if params.ModeratorNotes != nil {
		builder = builder.Set("moderator_notes", *params.ModeratorNotes)
	}
	if params.Reported != nil {
		builder = builder.Set("reported", *params.Reported)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	review, err := scanReview(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to update review", zap.String("review_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return review, nil
}

// Delete removes the review and its vote ledger rows in one transaction.
// Moderator-only: authorization is enforced by the moderation service.
func (r *RepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err = tx.Exec(ctx, `DELETE FROM review_votes WHERE review_id = $1`, id); err != nil {
		r.logger.Error("Failed to purge votes for review", zap.String("review_id", id.String()), zap.Error(err))
		return fmt.Errorf("failed to purge votes: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete review", zap.String("review_id", id.String()), zap.Error(err))
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// orderClause maps a sort key to SQL. Ties always break on created_at DESC so
// pages are deterministic under concurrent inserts.
func orderClause(sort models.ReviewSort) string {
	switch sort {
	case models.SortOldest:
		return "created_at ASC, id ASC"
	case models.SortHighestRating:
		return "rating DESC, created_at DESC"
	case models.SortLowestRating:
		return "rating ASC, created_at DESC"
	case models.SortMostHelpful:
		return "helpful_count DESC, created_at DESC"
	default:
		return "created_at DESC, id DESC"
	}
}

func (r *RepositoryImpl) ListByVehicle(ctx context.Context, vehicleID uuid.UUID, filter models.ReviewFilter, onlyApproved bool, sort models.ReviewSort, page, limit int) ([]models.Review, int, error) {
	where := sq.And{sq.Eq{"vehicle_id": vehicleID}}
	if onlyApproved {
		where = append(where, sq.Eq{"status": models.ReviewStatusApproved})
	}
	if filter.Rating != nil {
		where = append(where, sq.Eq{"rating": *filter.Rating})
	}
	return r.listPage(ctx, where, orderClause(sort), page, limit)
}

func (r *RepositoryImpl) ListByAuthor(ctx context.Context, authorID uuid.UUID, page, limit int) ([]models.Review, int, error) {
	where := sq.And{sq.Eq{"author_id": authorID}}
	return r.listPage(ctx, where, orderClause(models.SortNewest), page, limit)
}

// ListForModeration serves the dealer dashboard queue: optional status filter,
// free-text search over title and comment, any public sort order.
func (r *RepositoryImpl) ListForModeration(ctx context.Context, filter models.ModerationFilter) ([]models.Review, int, error) {
	where := sq.And{}
	if filter.Status != nil {
		where = append(where, sq.Eq{"status": *filter.Status})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where = append(where, sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"comment": pattern},
		})
	}
	if len(where) == 0 {
		where = append(where, sq.Expr("TRUE"))
	}
	return r.listPage(ctx, where, orderClause(filter.Sort), filter.Page, filter.Limit)
}

// listPage runs the shared count + page pair. page is 1-based; a page past the
// end returns an empty slice with the true total, which is not an error.
func (r *RepositoryImpl) listPage(ctx context.Context, where sq.Sqlizer, order string, page, limit int) ([]models.Review, int, error) {
	countQuery, countArgs, err := sq.Select("COUNT(*)").
		From("reviews").
		Where(where).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err = r.pgpool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.logger.Error("Failed to count reviews", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	offset := (page - 1) * limit
	query, args, err := sq.Select(reviewColumns).
		From("reviews").
		Where(where).
		OrderBy(order).
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list reviews", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.logger.Error("Failed to scan review row", zap.Error(err))
			return nil, 0, fmt.Errorf("failed to scan review row: %w", err)
		}
		reviews = append(reviews, *review)
	}
	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating review rows", zap.Error(err))
		return nil, 0, fmt.Errorf("error iterating review rows: %w", err)
	}
	return reviews, total, nil
}

// SetStatus records a moderator decision. Notes are merged, not cleared, when
// absent.
func (r *RepositoryImpl) SetStatus(ctx context.Context, id uuid.UUID, status models.ReviewStatus, notes *string) error {
	query := `
        UPDATE reviews
        SET status = $2, moderator_notes = COALESCE($3, moderator_notes), updated_at = NOW()
        WHERE id = $1
    `
	tag, err := r.pgpool.Exec(ctx, query, id, status, notes)
	if err != nil {
		r.logger.Error("Failed to set review status", zap.String("review_id", id.String()), zap.Error(err))
		return fmt.Errorf("failed to set review status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MarkReported flips the reported flag. Set-once: repeated reports are the
// same UPDATE and observably identical.
func (r *RepositoryImpl) MarkReported(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, `UPDATE reviews SET reported = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to mark review reported", zap.String("review_id", id.String()), zap.Error(err))
		return fmt.Errorf("failed to mark review reported: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
