package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tidianess/assetflow/internal/service/auth"
)

const (
	actorKey = "actor"
	roleKey  = "role"
)

// RequireAuth validates the Authorization bearer token and stores the acting
// user's identity in the request context for audit fields.
func RequireAuth(secret string, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := auth.Parse(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			logger.Debug("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(actorKey, claims.Subject)
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

// Actor returns the authenticated username, empty when unauthenticated.
func Actor(c *gin.Context) string {
	return c.GetString(actorKey)
}

// Role returns the authenticated user's role.
func Role(c *gin.Context) string {
	return c.GetString(roleKey)
}
