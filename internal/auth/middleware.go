package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const bearerPrefix = "Bearer "

const contextKeyUserID = "user_id"

// UserIDFromContext returns the current user ID set by RequireAuth.
// A zero ObjectID if not set.
func UserIDFromContext(c *gin.Context) primitive.ObjectID {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return primitive.NilObjectID
	}
	id, ok := v.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID
	}
	return id
}

// RequireAuth returns a middleware that verifies the Authorization bearer
// token and sets the current user ID in context. Missing, malformed, expired
// or wrongly-signed tokens get 401 before any task logic runs.
func RequireAuth(tokens *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		claims, err := tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}
