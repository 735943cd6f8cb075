package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/swiftbuy/storefront/internal/api/handlers"
	"github.com/swiftbuy/storefront/internal/api/middleware"
	"github.com/swiftbuy/storefront/internal/config"
)

// Services are the handlers' dependencies
type Services struct {
	Pricing handlers.CartPricer
	Coupons handlers.CouponManager
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, services Services, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	v1.Use(middleware.AuthToken(logger))
	{
		v1.GET("/cart/pricing", handlers.HandleCartPricing(services.Pricing, logger))

		adminRoutes := v1.Group("/admin")
		{
			adminRoutes.POST("/coupons", handlers.HandleCreateCoupon(services.Coupons, logger))
			adminRoutes.GET("/coupons", handlers.HandleListCoupons(services.Coupons, logger))
			adminRoutes.GET("/coupons/:code/submissions", handlers.HandleListSubmissions(services.Coupons, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.String("request_id", middleware.GetRequestID(c)),
		)
	}
}
