package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/autovia/reviews-service/internal/app/domain"
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

// GetVehicleStats handles GET /api/v1/vehicles/:id/reviews/stats.
func (h *Handler) GetVehicleStats(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid vehicle id"})
		return
	}

	stats, err := h.service.GetVehicleStats(c.Request.Context(), vehicleID)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, "stats", stats)
}

// GetModerationStats handles GET /api/v1/moderation/stats.
func (h *Handler) GetModerationStats(c *gin.Context) {
	stats, err := h.service.GetModerationStats(c.Request.Context())
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, "stats", stats)
}
