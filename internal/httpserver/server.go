package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/event-relay-service/internal/auth"
	"github.com/PratikDhanave/event-relay-service/internal/config"
	"github.com/PratikDhanave/event-relay-service/internal/handlers"
	"github.com/PratikDhanave/event-relay-service/internal/middleware"
	"github.com/PratikDhanave/event-relay-service/internal/relay"
)

// NewRouter wires public endpoints, the relay and the metrics scrape.
// Public: /health, /ready, /api/event
// Keyed (when METRICS_API_KEYS is set): /metrics
func NewRouter(cfg config.Config, log *slog.Logger, fwd relay.Forwarder) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))

	creds := relay.Credentials{
		AccessToken: cfg.Meta.AccessToken,
		PixelID:     cfg.Meta.PixelID,
	}

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: the relay can only forward once credentials are configured.
	r.GET("/ready", func(c *gin.Context) {
		if !cfg.Meta.HasCredentials() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": "missing credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	handlers.RegisterEventRoutes(r, handlers.NewEventRelay(
		log,
		creds,
		relay.Options{
			TestEventCode:   cfg.Meta.TestEventCode,
			DefaultCurrency: cfg.Meta.DefaultCurrency,
		},
		fwd,
	))

	opsGroup := r.Group("/")
	opsGroup.Use(auth.APIKeyMiddleware(cfg.Metrics.APIKeys))
	handlers.RegisterMetricRoutes(opsGroup)

	return r
}
