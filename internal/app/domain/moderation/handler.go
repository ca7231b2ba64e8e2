package moderation

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

type statusRequest struct {
	Status         models.ReviewStatus `json:"status"`
	ModeratorNotes *string             `json:"moderator_notes"`
}

// SetStatus handles PUT /api/v1/moderation/reviews/:id/status.
func (h *Handler) SetStatus(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid review id"})
		return
	}

	var req statusRequest
	if err = c.ShouldBindJSON(&req); err != nil {
		h.Logger.Warn("Malformed status payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	actor := middleware.GetActorFromContext(c)
	if err = h.service.SetStatus(c.Request.Context(), actor, reviewID, req.Status, req.ModeratorNotes); err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "status": req.Status})
}

// UpdateReview handles PUT /api/v1/moderation/reviews/:id. Only supplied
// fields change; absent fields keep their stored values.
func (h *Handler) UpdateReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid review id"})
		return
	}

	var params models.UpdateReviewParams
	if err = c.ShouldBindJSON(&params); err != nil {
		h.Logger.Warn("Malformed update payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	actor := middleware.GetActorFromContext(c)
	review, err := h.service.UpdateReview(c.Request.Context(), actor, reviewID, params)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, "review", review)
}

// Report handles POST /api/v1/reviews/:id/report. Available to any
// authenticated user, not just moderators.
func (h *Handler) Report(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid review id"})
		return
	}

	reporterID := middleware.GetUserIDFromContext(c)
	if reporterID == uuid.Nil {
		h.RespondError(c, models.ErrUnauthenticated)
		return
	}

	if err = h.service.Report(c.Request.Context(), reviewID, reporterID); err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Delete handles DELETE /api/v1/moderation/reviews/:id.
func (h *Handler) Delete(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid review id"})
		return
	}

	actor := middleware.GetActorFromContext(c)
	if err = h.service.Delete(c.Request.Context(), actor, reviewID); err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListQueue handles GET /api/v1/moderation/reviews. Supports status, search,
// sort, page and limit query parameters.
func (h *Handler) ListQueue(c *gin.Context) {
	var filter models.ModerationFilter
	if raw := c.Query("status"); raw != "" {
		status := models.ReviewStatus(raw)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid status filter"})
			return
		}
		filter.Status = &status
	}
	filter.Search = c.Query("search")
	filter.Sort = models.ReviewSort(c.DefaultQuery("sort", string(models.SortNewest)))
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	items, pagination, err := h.service.ListQueue(c.Request.Context(), filter)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.RespondList(c, "reviews", items, pagination)
}
