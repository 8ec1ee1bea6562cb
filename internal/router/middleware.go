package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/laptev-dv/diploma-backend/internal/handlers"
	"github.com/laptev-dv/diploma-backend/internal/repository"
)

// RequestIDKey is the context key for the per-request correlation ID.
const RequestIDKey = "request_id"

// RequestID assigns every request a correlation ID, honoring one supplied
// by the client.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// AuthRequired resolves the Authorization bearer credential to a caller
// identity. Invalid, expired or revoked tokens are rejected before any
// handler runs.
func AuthRequired(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		authToken, err := repository.GetAuthToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}
		if authToken.Expired(time.Now()) {
			// Clean up the stale row so the token cannot linger.
			if err := repository.DeleteAuthToken(c.Request.Context(), token); err != nil {
				log.Warn("Failed to delete expired token", zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "token expired"})
			return
		}

		c.Set(handlers.UserIDKey, authToken.UserID)
		c.Next()
	}
}
