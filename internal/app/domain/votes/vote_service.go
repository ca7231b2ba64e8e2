package votes

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/autovia/reviews-service/internal/app/models"
	"github.com/autovia/reviews-service/internal/app/observability/metrics"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	ApplyVote(ctx context.Context, reviewID, voterID uuid.UUID, direction models.VoteDirection) (bool, error)
}

type ServiceImpl struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

// ApplyVote applies a helpful/unhelpful vote. A repeat vote from the same
// voter returns applied=false with no error; the caller still reports
// success so the UI stays quiet about double clicks.
func (s *ServiceImpl) ApplyVote(ctx context.Context, reviewID, voterID uuid.UUID, direction models.VoteDirection) (bool, error) {
	l := s.logger.With(zap.String("method", "ApplyVote"), zap.String("review_id", reviewID.String()))

	applied, err := s.repo.ApplyVote(ctx, reviewID, voterID, direction)
	if err != nil {
		l.Error("Failed to apply vote", zap.Error(err))
		return false, err
	}

	if applied {
		metrics.Get().VotesAppliedTotal.Add(ctx, 1)
		l.Info("Vote applied", zap.String("direction", string(direction)))
	} else {
		metrics.Get().VotesDuplicateTotal.Add(ctx, 1)
		l.Debug("Duplicate vote ignored", zap.String("voter_id", voterID.String()))
	}
	return applied, nil
}
