package votes

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/autovia/reviews-service/internal/app/models"
)

func newVoteRepoTest(t *testing.T) (pgxmock.PgxPoolIface, *RepositoryImpl) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return mockPool, NewRepository(mockPool, zap.NewNop())
}

func TestApplyVote_FirstVoteIncrementsCounter(t *testing.T) {
	mockPool, repo := newVoteRepoTest(t)
	reviewID, voterID := uuid.New(), uuid.New()

	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO review_votes").
		WithArgs(reviewID, voterID, models.VoteHelpful).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec(`UPDATE reviews SET helpful_count = helpful_count \+ 1`).
		WithArgs(reviewID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()

	applied, err := repo.ApplyVote(context.Background(), reviewID, voterID, models.VoteHelpful)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestApplyVote_UnhelpfulUsesOtherCounter(t *testing.T) {
	mockPool, repo := newVoteRepoTest(t)
	reviewID, voterID := uuid.New(), uuid.New()

	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO review_votes").
		WithArgs(reviewID, voterID, models.VoteUnhelpful).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec(`UPDATE reviews SET unhelpful_count = unhelpful_count \+ 1`).
		WithArgs(reviewID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()

	applied, err := repo.ApplyVote(context.Background(), reviewID, voterID, models.VoteUnhelpful)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestApplyVote_DuplicateVoteIsNoOp(t *testing.T) {
	mockPool, repo := newVoteRepoTest(t)
	reviewID, voterID := uuid.New(), uuid.New()

	// ON CONFLICT DO NOTHING: zero rows means the ledger already has this
	// voter, so no counter update may follow.
	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO review_votes").
		WithArgs(reviewID, voterID, models.VoteHelpful).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mockPool.ExpectCommit()

	applied, err := repo.ApplyVote(context.Background(), reviewID, voterID, models.VoteHelpful)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestApplyVote_MissingReviewReturnsNotFound(t *testing.T) {
	mockPool, repo := newVoteRepoTest(t)
	reviewID, voterID := uuid.New(), uuid.New()

	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO review_votes").
		WithArgs(reviewID, voterID, models.VoteHelpful).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	mockPool.ExpectRollback()

	applied, err := repo.ApplyVote(context.Background(), reviewID, voterID, models.VoteHelpful)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.False(t, applied)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestApplyVote_RetriesTransientConflict(t *testing.T) {
	mockPool, repo := newVoteRepoTest(t)
	reviewID, voterID := uuid.New(), uuid.New()

	// First attempt hits a serialization failure, second succeeds.
	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO review_votes").
		WithArgs(reviewID, voterID, models.VoteHelpful).
		WillReturnError(&pgconn.PgError{Code: "40001"})
	mockPool.ExpectRollback()

	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO review_votes").
		WithArgs(reviewID, voterID, models.VoteHelpful).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec(`UPDATE reviews SET helpful_count = helpful_count \+ 1`).
		WithArgs(reviewID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()

	applied, err := repo.ApplyVote(context.Background(), reviewID, voterID, models.VoteHelpful)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestApplyVote_GivesUpAfterMaxAttempts(t *testing.T) {
	mockPool, repo := newVoteRepoTest(t)
	reviewID, voterID := uuid.New(), uuid.New()

	for i := 0; i < maxVoteAttempts; i++ {
		mockPool.ExpectBegin()
		mockPool.ExpectExec("INSERT INTO review_votes").
			WithArgs(reviewID, voterID, models.VoteHelpful).
			WillReturnError(&pgconn.PgError{Code: "40P01"})
		mockPool.ExpectRollback()
	}

	applied, err := repo.ApplyVote(context.Background(), reviewID, voterID, models.VoteHelpful)
	require.Error(t, err)
	assert.False(t, applied)

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
