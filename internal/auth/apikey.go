package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// consumerCtxKey is the Gin context key holding the name bound to the presented key.
const consumerCtxKey = "api_consumer"

// APIKeyMiddleware restricts operational endpoints (scrapers, dashboards) to
// callers presenting a known X-API-Key. An empty key set leaves the route open.
func APIKeyMiddleware(keys map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(keys) == 0 {
			c.Next()
			return
		}

		presented := strings.TrimSpace(c.GetHeader("X-API-Key"))
		name, ok := lookup(keys, presented)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(consumerCtxKey, name)
		c.Next()
	}
}

// Consumer returns the authenticated consumer name, or "" on open routes.
func Consumer(c *gin.Context) string {
	return c.GetString(consumerCtxKey)
}

func lookup(keys map[string]string, presented string) (string, bool) {
	if presented == "" {
		return "", false
	}
	for key, name := range keys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(presented)) == 1 {
			return name, true
		}
	}
	return "", false
}
