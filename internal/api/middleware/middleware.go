package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swiftbuy/storefront/internal/backend"
)

const (
	authTokenKey = "auth_token"
	requestIDKey = "request_id"
)

// RequestID assigns every request an id, reusing the caller's X-Request-ID
// when present, and carries it to backend calls through the request context
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(backend.HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Header(backend.HeaderRequestID, id)
		c.Request = c.Request.WithContext(backend.WithRequestID(c.Request.Context(), id))

		c.Next()
	}
}

// GetRequestID returns the id set by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// AuthToken requires a bearer token and stores it for the handlers. The
// token is forwarded to the backend, which decides whether it is valid.
func AuthToken(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			logger.Debug("Missing bearer token", zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(authTokenKey, token)
		c.Next()
	}
}

// GetAuthToken returns the bearer token stored by AuthToken
func GetAuthToken(c *gin.Context) (string, bool) {
	token := c.GetString(authTokenKey)
	return token, token != ""
}
