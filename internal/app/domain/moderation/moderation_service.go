// Package moderation owns the review visibility lifecycle: pending reviews
// become approved or rejected by moderator decision, and only moderators can
// reverse a decision. End users can only report.
package moderation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/autovia/reviews-service/internal/app/domain/reviews"
	"github.com/autovia/reviews-service/internal/app/models"
	"github.com/autovia/reviews-service/internal/app/observability/metrics"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	SetStatus(ctx context.Context, actor models.Actor, reviewID uuid.UUID, status models.ReviewStatus, notes *string) error
	UpdateReview(ctx context.Context, actor models.Actor, reviewID uuid.UUID, params models.UpdateReviewParams) (*models.Review, error)
	Report(ctx context.Context, reviewID, reporterID uuid.UUID) error
	Delete(ctx context.Context, actor models.Actor, reviewID uuid.UUID) error
	ListQueue(ctx context.Context, filter models.ModerationFilter) ([]models.Review, models.Pagination, error)
}

// StatsInvalidator drops cached vehicle stats so a moderation decision shows
// up in listings before the cache TTL expires. Optional: nil disables it.
type StatsInvalidator interface {
	Invalidate(vehicleID uuid.UUID)
}

type ServiceImpl struct {
	reviewRepo reviews.Repository
	stats      StatsInvalidator
	logger     *zap.Logger
}

func NewService(reviewRepo reviews.Repository, stats StatsInvalidator, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		reviewRepo: reviewRepo,
		stats:      stats,
		logger:     logger,
	}
}

// invalidateStats is best-effort: the stats cache self-heals on TTL expiry,
// so a lookup failure here is logged and swallowed.
func (s *ServiceImpl) invalidateStats(ctx context.Context, l *zap.Logger, reviewID uuid.UUID) {
	if s.stats == nil {
		return
	}
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		l.Warn("Could not resolve vehicle for stats invalidation", zap.Error(err))
		return
	}
	s.stats.Invalidate(review.VehicleID)
}

// SetStatus applies a moderator decision. Valid targets are approved and
// rejected; a review never goes back to pending. Non-moderators get
// ErrForbidden regardless of the requested transition.
func (s *ServiceImpl) SetStatus(ctx context.Context, actor models.Actor, reviewID uuid.UUID, status models.ReviewStatus, notes *string) error {
	l := s.logger.With(zap.String("method", "SetStatus"), zap.String("review_id", reviewID.String()))

	if !actor.IsModerator() {
		l.Warn("Non-moderator attempted status change", zap.String("actor_id", actor.ID.String()))
		return models.ErrForbidden
	}
	if status != models.ReviewStatusApproved && status != models.ReviewStatusRejected {
		return fmt.Errorf("cannot set status %q: %w", status, models.ErrInvalidTransition)
	}

	if err := s.reviewRepo.SetStatus(ctx, reviewID, status, notes); err != nil {
		l.Error("Failed to set review status", zap.Error(err))
		return err
	}

	s.invalidateStats(ctx, l, reviewID)

	metrics.Get().ModerationActionsTotal.Add(ctx, 1)
	l.Info("Review status set",
		zap.String("status", string(status)),
		zap.String("moderator_id", actor.ID.String()))
	return nil
}

// UpdateReview is the moderator edit: a partial merge where only supplied
// fields touch the row. Status changes ride through the same transition rule
// as SetStatus.
func (s *ServiceImpl) UpdateReview(ctx context.Context, actor models.Actor, reviewID uuid.UUID, params models.UpdateReviewParams) (*models.Review, error) {
	l := s.logger.With(zap.String("method", "UpdateReview"), zap.String("review_id", reviewID.String()))

	if !actor.IsModerator() {
		l.Warn("Non-moderator attempted edit", zap.String("actor_id", actor.ID.String()))
		return nil, models.ErrForbidden
	}
	if params.Status != nil && *params.Status != models.ReviewStatusApproved && *params.Status != models.ReviewStatusRejected {
		return nil, fmt.Errorf("cannot set status %q: %w", *params.Status, models.ErrInvalidTransition)
	}

	review, err := s.reviewRepo.Update(ctx, reviewID, params)
	if err != nil {
		l.Error("Failed to update review", zap.Error(err))
		return nil, err
	}

	if s.stats != nil && params.Status != nil {
		s.stats.Invalidate(review.VehicleID)
	}

	metrics.Get().ModerationActionsTotal.Add(ctx, 1)
	l.Info("Review updated", zap.String("moderator_id", actor.ID.String()))
	return review, nil
}

// Report flags a review for moderator attention. Idempotent: reporting twice
// has the same observable effect as reporting once, and it never changes the
// review's status on its own.
func (s *ServiceImpl) Report(ctx context.Context, reviewID, reporterID uuid.UUID) error {
	l := s.logger.With(zap.String("method", "Report"), zap.String("review_id", reviewID.String()))

	if err := s.reviewRepo.MarkReported(ctx, reviewID); err != nil {
		l.Error("Failed to report review", zap.Error(err))
		return err
	}

	metrics.Get().ReportsTotal.Add(ctx, 1)
	l.Info("Review reported", zap.String("reporter_id", reporterID.String()))
	return nil
}

// Delete is the only destructive operation in the subsystem; it also purges
// the review's vote ledger rows.
func (s *ServiceImpl) Delete(ctx context.Context, actor models.Actor, reviewID uuid.UUID) error {
	l := s.logger.With(zap.String("method", "Delete"), zap.String("review_id", reviewID.String()))

	if !actor.IsModerator() {
		l.Warn("Non-moderator attempted delete", zap.String("actor_id", actor.ID.String()))
		return models.ErrForbidden
	}

	// Resolve the vehicle before the row is gone.
	var vehicleID uuid.UUID
	if s.stats != nil {
		if review, err := s.reviewRepo.GetByID(ctx, reviewID); err == nil {
			vehicleID = review.VehicleID
		}
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		l.Error("Failed to delete review", zap.Error(err))
		return err
	}

	if s.stats != nil && vehicleID != uuid.Nil {
		s.stats.Invalidate(vehicleID)
	}

	metrics.Get().ModerationActionsTotal.Add(ctx, 1)
	l.Info("Review deleted", zap.String("moderator_id", actor.ID.String()))
	return nil
}

// ListQueue lists reviews for the moderation dashboard. Authorization is
// enforced at the route level; the filter may span any status.
func (s *ServiceImpl) ListQueue(ctx context.Context, filter models.ModerationFilter) ([]models.Review, models.Pagination, error) {
	l := s.logger.With(zap.String("method", "ListQueue"))

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if !filter.Sort.IsValid() {
		filter.Sort = models.SortNewest
	}

	items, total, err := s.reviewRepo.ListForModeration(ctx, filter)
	if err != nil {
		l.Error("Failed to list moderation queue", zap.Error(err))
		return nil, models.Pagination{}, err
	}
	return items, models.NewPagination(total, filter.Page, filter.Limit), nil
}
