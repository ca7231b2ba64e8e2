package reviews

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/autovia/reviews-service/internal/app/domain"
	"github.com/autovia/reviews-service/internal/app/middleware"
	"github.com/autovia/reviews-service/internal/app/models"
)

type Handler struct {
	*domain.BaseHandler
	service Service
}

func NewHandler(base *domain.BaseHandler, service Service) *Handler {
	return &Handler{
		BaseHandler: base,
		service:     service,
	}
}

// SubmitReview handles POST /api/v1/reviews. The author is always the
// authenticated caller; any author_id in the payload is ignored.
func (h *Handler) SubmitReview(c *gin.Context) {
	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Warn("Malformed review payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		h.RespondError(c, models.ErrUnauthenticated)
		return
	}
	req.AuthorID = userID.String()

	review, err := h.service.SubmitReview(c.Request.Context(), req)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.RespondData(c, http.StatusCreated, "review", review)
}

// GetReview handles GET /api/v1/reviews/:id.
func (h *Handler) GetReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid review id"})
		return
	}

	review, err := h.service.GetReview(c.Request.Context(), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, "review", review)
}

// ListVehicleReviews handles GET /api/v1/vehicles/:id/reviews with page,
// limit, sort and rating query parameters.
func (h *Handler) ListVehicleReviews(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid vehicle id"})
		return
	}

	page, limit := pageParams(c)
	sort := models.ReviewSort(c.DefaultQuery("sort", string(models.SortNewest)))

	var filter models.ReviewFilter
	if raw := c.Query("rating"); raw != "" {
		rating, convErr := strconv.Atoi(raw)
		if convErr != nil || rating < 1 || rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "rating filter must be between 1 and 5"})
			return
		}
		filter.Rating = &rating
	}

	items, pagination, err := h.service.ListByVehicle(c.Request.Context(), vehicleID, filter, sort, page, limit)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.RespondList(c, "reviews", items, pagination)
}

// ListAuthorReviews handles GET /api/v1/users/:id/reviews.
func (h *Handler) ListAuthorReviews(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid user id"})
		return
	}

	page, limit := pageParams(c)
	items, pagination, err := h.service.ListByAuthor(c.Request.Context(), authorID, page, limit)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.RespondList(c, "reviews", items, pagination)
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return page, limit
}
