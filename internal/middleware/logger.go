package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one access log entry per request. Query strings are left out.
func Logger(log *slog.Logger) gin.HandlerFunc {
	log = log.With(slog.String("component", "middleware/logger"))

	log.Info("logger middleware enabled")

	return func(c *gin.Context) {
		t1 := time.Now()

		c.Next()

		entry := log.With(
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("user_agent", c.Request.UserAgent()),
			slog.String("request_id", GetReqID(c)),
		)
		entry.Info("request completed",
			slog.Int("status", c.Writer.Status()),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("duration", time.Since(t1).String()),
		)
	}
}
