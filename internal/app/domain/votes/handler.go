package votes

import (
	"net/http"

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

type voteRequest struct {
	Direction models.VoteDirection `json:"direction"`
}

// Vote handles POST /api/v1/reviews/:id/vote. The response says whether the
// vote counted; a repeat vote by the same caller returns 200 with
// applied=false rather than an error.
func (h *Handler) Vote(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid review id"})
		return
	}

	var req voteRequest
	if err = c.ShouldBindJSON(&req); err != nil {
		h.Logger.Warn("Malformed vote payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if !req.Direction.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "direction must be helpful or unhelpful"})
		return
	}

	voterID := middleware.GetUserIDFromContext(c)
	if voterID == uuid.Nil {
		h.RespondError(c, models.ErrUnauthenticated)
		return
	}

	applied, err := h.service.ApplyVote(c.Request.Context(), reviewID, voterID, req.Direction)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "applied": applied})
}
