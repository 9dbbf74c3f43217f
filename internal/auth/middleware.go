package auth

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	// UserIDKey is where the middleware stores the resolved user id.
	UserIDKey = "user_id"

	sessionCachePrefix = "daily:session:"
	sessionCacheTTL    = 10 * time.Minute
)

type SessionStore interface {
	UserIDByTokenHash(tokenHash string) (string, error)
}

// RequireAuth resolves the bearer token to a user id, consulting the Redis
// cache before Postgres. cache may be nil.
func RequireAuth(sessions SessionStore, cache *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			return
		}

		tokenHash := HashToken(strings.TrimPrefix(header, "Bearer "))
		cacheKey := sessionCachePrefix + tokenHash

		if cache != nil {
			if userID, err := cache.Get(c.Request.Context(), cacheKey).Result(); err == nil && userID != "" {
				c.Set(UserIDKey, userID)
				c.Next()
				return
			}
		}

		userID, err := sessions.UserIDByTokenHash(tokenHash)
		if err != nil {
			slog.Error("error resolving session", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		if cache != nil {
			if err := cache.Set(c.Request.Context(), cacheKey, userID, sessionCacheTTL).Err(); err != nil {
				slog.Warn("error caching session", "error", err)
			}
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}
