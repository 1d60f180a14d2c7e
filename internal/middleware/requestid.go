package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is accepted from upstream proxies and echoed back.
	RequestIDHeader = "X-Request-ID"

	requestIDCtxKey = "request_id"
)

// RequestID tags each request with an id, reusing a sane incoming one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDCtxKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// GetReqID returns the request id stored by RequestID, or "".
func GetReqID(c *gin.Context) string {
	return c.GetString(requestIDCtxKey)
}
