package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/swiftbuy/storefront/internal/api/middleware"
	"github.com/swiftbuy/storefront/internal/service"
)

// CartPricer prices the signed-in user's cart
type CartPricer interface {
	CartPricing(ctx context.Context, token string) (*service.CartPricing, error)
}

// HandleCartPricing handles GET /v1/cart/pricing
func HandleCartPricing(pricer CartPricer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := middleware.GetAuthToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		pricing, err := pricer.CartPricing(c.Request.Context(), token)
		if err != nil {
			respondError(c, err, logger)
			return
		}

		c.JSON(http.StatusOK, pricing)
	}
}
