// Package domain holds what every domain handler shares: the response
// envelope and the mapping from service errors to HTTP statuses.
package domain

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autovia/reviews-service/internal/app/models"
)

type BaseHandler struct {
	Logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	return &BaseHandler{Logger: logger}
}

// RespondData writes the success envelope with the payload under its own key.
func (h *BaseHandler) RespondData(c *gin.Context, status int, key string, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		key:       data,
	})
}

// RespondList writes the success envelope for a paginated collection.
func (h *BaseHandler) RespondList(c *gin.Context, key string, items interface{}, pagination models.Pagination) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		key:          items,
		"pagination": pagination,
	})
}

// RespondError translates a service error into a status code and the error
// envelope. Validation errors carry the per-field map so clients can show
// inline messages.
func (h *BaseHandler) RespondError(c *gin.Context, err error) {
	var fieldErrs models.ValidationErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "validation failed",
			"fields":  fieldErrs,
		})
		return
	}

	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrBadRequest), errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "resource not found"})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, models.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "insufficient permissions"})
	default:
		h.Logger.Error("Unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
	}
}
