package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/event-relay-service/internal/metrics"
)

// RegisterMetricRoutes registers the Prometheus scrape endpoint.
//
// GET /metrics
// - guarded by whatever middleware the caller attached to r
func RegisterMetricRoutes(r gin.IRoutes) {
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}
