package reviews

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/autovia/reviews-service/internal/app/domain/users"
	"github.com/autovia/reviews-service/internal/app/domain/vehicles"
	"github.com/autovia/reviews-service/internal/app/models"
	"github.com/autovia/reviews-service/internal/app/observability/metrics"
)

var _ Service = (*ServiceImpl)(nil)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

// Service covers review submission and the public listing reads. Moderation
// and voting have their own services.
type Service interface {
	SubmitReview(ctx context.Context, req SubmitReviewRequest) (*models.Review, error)
	GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID, filter models.ReviewFilter, sort models.ReviewSort, page, limit int) ([]models.ReviewWithAuthor, models.Pagination, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, page, limit int) ([]models.ReviewWithAuthor, models.Pagination, error)
}

type ServiceImpl struct {
	repo        Repository
	vehicleRepo vehicles.Repository
	userRepo    users.Repository
	logger      *zap.Logger

	// includeAllStatuses mirrors the legacy status-blind listing; the default
	// keeps pending and rejected reviews off public pages.
	includeAllStatuses bool
}

func NewService(repo Repository, vehicleRepo vehicles.Repository, userRepo users.Repository, includeAllStatuses bool, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:               repo,
		vehicleRepo:        vehicleRepo,
		userRepo:           userRepo,
		logger:             logger,
		includeAllStatuses: includeAllStatuses,
	}
}

// SubmitReview validates the payload, verifies the vehicle reference and
// stores the review as pending. Duplicate submissions intentionally create
// duplicate reviews; only voting and reporting are idempotent.
func (s *ServiceImpl) SubmitReview(ctx context.Context, req SubmitReviewRequest) (*models.Review, error) {
	l := s.logger.With(zap.String("method", "SubmitReview"))

	review, validationErrs := ValidateSubmission(req)
	if validationErrs != nil {
		return nil, validationErrs
	}

	exists, err := s.vehicleRepo.Exists(ctx, review.VehicleID)
	if err != nil {
		l.Error("Failed to check vehicle exists", zap.Error(err))
		return nil, fmt.Errorf("checking vehicle: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("vehicle %s: %w", review.VehicleID, models.ErrNotFound)
	}

	if err := s.repo.Create(ctx, review); err != nil {
		l.Error("Failed to create review", zap.Error(err))
		return nil, err
	}

	metrics.Get().ReviewsSubmittedTotal.Add(ctx, 1)
	l.Info("Review submitted",
		zap.String("review_id", review.ID.String()),
		zap.String("vehicle_id", review.VehicleID.String()),
		zap.Int("rating", review.Rating))
	return review, nil
}

func (s *ServiceImpl) GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByVehicle returns one page of reviews for a vehicle listing page, each
// joined with a best-effort author summary.
func (s *ServiceImpl) ListByVehicle(ctx context.Context, vehicleID uuid.UUID, filter models.ReviewFilter, sort models.ReviewSort, page, limit int) ([]models.ReviewWithAuthor, models.Pagination, error) {
	l := s.logger.With(zap.String("method", "ListByVehicle"), zap.String("vehicle_id", vehicleID.String()))
	page, limit = clampPage(page, limit)
	if !sort.IsValid() {
		sort = models.SortNewest
	}

	items, total, err := s.repo.ListByVehicle(ctx, vehicleID, filter, !s.includeAllStatuses, sort, page, limit)
	if err != nil {
		l.Error("Failed to list reviews", zap.Error(err))
		return nil, models.Pagination{}, err
	}

	enriched := s.attachAuthors(ctx, items)
	return enriched, models.NewPagination(total, page, limit), nil
}

// ListByAuthor returns the reviews one user has written, joined with vehicle
// summaries so the profile page can render listing cards.
func (s *ServiceImpl) ListByAuthor(ctx context.Context, authorID uuid.UUID, page, limit int) ([]models.ReviewWithAuthor, models.Pagination, error) {
	l := s.logger.With(zap.String("method", "ListByAuthor"), zap.String("author_id", authorID.String()))
	page, limit = clampPage(page, limit)

	items, total, err := s.repo.ListByAuthor(ctx, authorID, page, limit)
	if err != nil {
		l.Error("Failed to list author reviews", zap.Error(err))
		return nil, models.Pagination{}, err
	}

	enriched := s.attachAuthors(ctx, items)
	s.attachVehicles(ctx, enriched)
	return enriched, models.NewPagination(total, page, limit), nil
}

// attachAuthors joins author summaries onto a page of reviews. A failed lookup
// degrades the single item, never the page; summaries are fetched once per
// distinct author.
func (s *ServiceImpl) attachAuthors(ctx context.Context, items []models.Review) []models.ReviewWithAuthor {
	authors := make(map[uuid.UUID]*models.AuthorSummary, len(items))
	enriched := make([]models.ReviewWithAuthor, 0, len(items))
	for _, review := range items {
		summary, seen := authors[review.AuthorID]
		if !seen {
			var err error
			summary, err = s.userRepo.GetAuthorSummary(ctx, review.AuthorID)
			if err != nil {
				s.logger.Warn("Author summary lookup failed, returning review without author",
					zap.String("author_id", review.AuthorID.String()),
					zap.Error(err))
				summary = nil
			}
			authors[review.AuthorID] = summary
		}
		enriched = append(enriched, models.ReviewWithAuthor{Review: review, Author: summary})
	}
	return enriched
}

func (s *ServiceImpl) attachVehicles(ctx context.Context, items []models.ReviewWithAuthor) {
	summaries := make(map[uuid.UUID]*models.VehicleSummary, len(items))
	for i := range items {
		summary, seen := summaries[items[i].VehicleID]
		if !seen {
			var err error
			summary, err = s.vehicleRepo.GetSummary(ctx, items[i].VehicleID)
			if err != nil {
				s.logger.Warn("Vehicle summary lookup failed, returning review without vehicle",
					zap.String("vehicle_id", items[i].VehicleID.String()),
					zap.Error(err))
				summary = nil
			}
			summaries[items[i].VehicleID] = summary
		}
		items[i].Vehicle = summary
	}
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
