package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/swiftbuy/storefront/internal/coupon"
	apperrors "github.com/swiftbuy/storefront/pkg/errors"
)

// respondError maps service errors to HTTP responses. Backend messages
// pass through unchanged; backend 5xx become 502.
func respondError(c *gin.Context, err error, logger *zap.Logger) {
	var fieldErrs coupon.FieldErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation failed",
			"fields": fieldErrs,
		})
		return
	}

	var subErr *apperrors.SubmissionError
	if errors.As(err, &subErr) {
		status := subErr.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": subErr.Message})
		return
	}

	logger.Error("Backend call failed", zap.Error(err))
	c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
}
