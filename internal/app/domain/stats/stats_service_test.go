package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/autovia/reviews-service/internal/app/models"
)

type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) GetVehicleStats(ctx context.Context, vehicleID uuid.UUID, onlyApproved bool) (*models.ReviewStats, error) {
	args := m.Called(ctx, vehicleID, onlyApproved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewStats), args.Error(1)
}

func (m *MockStatsRepo) GetModerationStats(ctx context.Context) (*models.ModerationStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ModerationStats), args.Error(1)
}

// Ratings [5, 4, 3, 5, 2], four recommends out of five.
func sampleStats() *models.ReviewStats {
	return &models.ReviewStats{
		AverageRating:       3.8,
		TotalReviews:        5,
		RatingDistribution:  map[int]int{1: 0, 2: 1, 3: 1, 4: 1, 5: 2},
		RecommendPercentage: 80,
	}
}

func TestGetVehicleStats_ReturnsAggregate(t *testing.T) {
	repo := new(MockStatsRepo)
	service := NewService(repo, time.Minute, false, zap.NewNop())
	vehicleID := uuid.New()

	repo.On("GetVehicleStats", mock.Anything, vehicleID, true).
		Return(sampleStats(), nil).Once()

	stats, err := service.GetVehicleStats(context.Background(), vehicleID)
	require.NoError(t, err)
	assert.InDelta(t, 3.8, stats.AverageRating, 0.001)
	assert.Equal(t, 5, stats.TotalReviews)
	assert.Equal(t, 2, stats.RatingDistribution[5])
	assert.InDelta(t, 80, stats.RecommendPercentage, 0.001)

	sum := 0
	for _, n := range stats.RatingDistribution {
		sum += n
	}
	assert.Equal(t, stats.TotalReviews, sum)
	repo.AssertExpectations(t)
}

func TestGetVehicleStats_ZeroReviewsIsWellFormed(t *testing.T) {
	repo := new(MockStatsRepo)
	service := NewService(repo, time.Minute, false, zap.NewNop())
	vehicleID := uuid.New()

	repo.On("GetVehicleStats", mock.Anything, vehicleID, true).
		Return(&models.ReviewStats{RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}, nil).Once()

	stats, err := service.GetVehicleStats(context.Background(), vehicleID)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalReviews)
	assert.Zero(t, stats.AverageRating)
	assert.Zero(t, stats.RecommendPercentage)
	assert.Len(t, stats.RatingDistribution, 5)
}

func TestGetVehicleStats_SecondCallHitsCache(t *testing.T) {
	repo := new(MockStatsRepo)
	service := NewService(repo, time.Minute, false, zap.NewNop())
	vehicleID := uuid.New()

	repo.On("GetVehicleStats", mock.Anything, vehicleID, true).
		Return(sampleStats(), nil).Once()

	first, err := service.GetVehicleStats(context.Background(), vehicleID)
	require.NoError(t, err)
	second, err := service.GetVehicleStats(context.Background(), vehicleID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "GetVehicleStats", 1)
}

func TestGetVehicleStats_InvalidateForcesRecompute(t *testing.T) {
	repo := new(MockStatsRepo)
	service := NewService(repo, time.Minute, false, zap.NewNop())
	vehicleID := uuid.New()

	repo.On("GetVehicleStats", mock.Anything, vehicleID, true).
		Return(sampleStats(), nil).Twice()

	_, err := service.GetVehicleStats(context.Background(), vehicleID)
	require.NoError(t, err)

	service.Invalidate(vehicleID)

	_, err = service.GetVehicleStats(context.Background(), vehicleID)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "GetVehicleStats", 2)
}

func TestGetVehicleStats_StatusBlindWhenConfigured(t *testing.T) {
	repo := new(MockStatsRepo)
	service := NewService(repo, time.Minute, true, zap.NewNop())
	vehicleID := uuid.New()

	repo.On("GetVehicleStats", mock.Anything, vehicleID, false).
		Return(sampleStats(), nil).Once()

	_, err := service.GetVehicleStats(context.Background(), vehicleID)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetVehicleStats_ErrorIsNotCached(t *testing.T) {
	repo := new(MockStatsRepo)
	service := NewService(repo, time.Minute, false, zap.NewNop())
	vehicleID := uuid.New()

	repo.On("GetVehicleStats", mock.Anything, vehicleID, true).
		Return(nil, errors.New("timeout")).Once()
	repo.On("GetVehicleStats", mock.Anything, vehicleID, true).
		Return(sampleStats(), nil).Once()

	_, err := service.GetVehicleStats(context.Background(), vehicleID)
	require.Error(t, err)

	stats, err := service.GetVehicleStats(context.Background(), vehicleID)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalReviews)
}

func TestGetModerationStats_Passthrough(t *testing.T) {
	repo := new(MockStatsRepo)
	service := NewService(repo, time.Minute, false, zap.NewNop())

	repo.On("GetModerationStats", mock.Anything).
		Return(&models.ModerationStats{PendingCount: 3, ApprovedCount: 10, RejectedCount: 2}, nil).Once()

	stats, err := service.GetModerationStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.PendingCount)
	assert.Equal(t, 10, stats.ApprovedCount)
	assert.Equal(t, 2, stats.RejectedCount)
}
