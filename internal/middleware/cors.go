package middleware

import "github.com/gin-gonic/gin"

// CORS headers sent on every /api/event response, including errors, so a page
// served from another origin (e.g. the dev server port) can call the relay.
const (
	AllowOrigin  = "*"
	AllowMethods = "POST, OPTIONS"
	AllowHeaders = "Content-Type"
)

// CORS sets the permissive cross-origin headers and a JSON content type.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", AllowOrigin)
		h.Set("Access-Control-Allow-Methods", AllowMethods)
		h.Set("Access-Control-Allow-Headers", AllowHeaders)
		h.Set("Content-Type", "application/json")
		c.Next()
	}
}
