package api

import (
	"errors"
	"net/http"

	"inventory-service/internal/models"
	"inventory-service/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrInsufficientStock):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps a service error to its HTTP status. Internal errors are
// logged server-side and replaced with a generic message; taxonomy errors
// pass their message through. The body field name differs between the two
// services, so it is a parameter.
func respondError(c *gin.Context, field string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		util.GetLogger().Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(status, gin.H{field: "Internal server error"})
		return
	}
	c.JSON(status, gin.H{field: err.Error()})
}
