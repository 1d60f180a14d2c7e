package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/event-relay-service/internal/lib/logger/sl"
	"github.com/PratikDhanave/event-relay-service/internal/metrics"
	"github.com/PratikDhanave/event-relay-service/internal/middleware"
	"github.com/PratikDhanave/event-relay-service/internal/models"
	"github.com/PratikDhanave/event-relay-service/internal/relay"
)

// EventPath is the same-origin path the composer posts to.
const EventPath = "/api/event"

// maxBodyBytes bounds the inbound payload; a single tracked event is a few hundred bytes.
const maxBodyBytes = 1 << 20

// RegisterEventRoutes mounts the relay on /api/event and everything below it.
//
// OPTIONS → 204 with CORS headers
// POST    → enrich, forward once, mirror the upstream status and body
// other   → 405
func RegisterEventRoutes(r *gin.Engine, h gin.HandlerFunc) {
	g := r.Group(EventPath, middleware.CORS())
	g.Any("", h)
	g.Any("/*rest", h)

	// Any only covers the standard methods; other verbs end up in NoRoute.
	r.NoRoute(func(c *gin.Context) {
		if !underEventPath(c.Request.URL.Path) {
			c.Abort()
		}
	}, middleware.CORS(), h)
}

func underEventPath(p string) bool {
	return p == EventPath || strings.HasPrefix(p, EventPath+"/")
}

// NewEventRelay builds the relay handler. creds are fixed at construction so the
// handler never consults process-wide state; empty creds make every POST fail.
func NewEventRelay(log *slog.Logger, creds relay.Credentials, opts relay.Options, fwd relay.Forwarder) gin.HandlerFunc {
	return func(c *gin.Context) {
		const op = "handlers.event.relay"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(c)),
		)

		switch c.Request.Method {
		case http.MethodOptions:
			metrics.RelayRequests.WithLabelValues(metrics.OutcomePreflight).Inc()
			c.Status(http.StatusNoContent)
			return
		case http.MethodPost:
		default:
			metrics.RelayRequests.WithLabelValues(metrics.OutcomeMethodNotAllowed).Inc()
			c.Header("Allow", middleware.AllowMethods)
			c.JSON(http.StatusMethodNotAllowed, models.ErrorResponse{Error: "Method Not Allowed"})
			return
		}

		if creds.AccessToken == "" || creds.PixelID == "" {
			metrics.RelayRequests.WithLabelValues(metrics.OutcomeMissingCredentials).Inc()
			log.Error("relay credentials are not configured")
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Missing credentials"})
			return
		}

		body, err := relay.DecodeBody(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
		if tooLarge := new(*http.MaxBytesError); errors.As(err, tooLarge) {
			metrics.RelayRequests.WithLabelValues(metrics.OutcomeTooLarge).Inc()
			log.Warn("request body too large", slog.Int64("limit", (*tooLarge).Limit))
			c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: "Payload Too Large"})
			return
		}
		if err != nil {
			metrics.RelayRequests.WithLabelValues(metrics.OutcomeBadRequest).Inc()
			log.Warn("invalid request body", sl.Err(err))
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid JSON", Details: err.Error()})
			return
		}

		eventName := relay.EventName(body)
		relay.Enrich(body, relay.ClientIP(c.Request.Header), opts)

		payload, err := relay.EncodeBody(body)
		if err != nil {
			metrics.RelayRequests.WithLabelValues(metrics.OutcomeBadRequest).Inc()
			log.Error("failed to encode enriched body", sl.Err(err))
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid JSON", Details: err.Error()})
			return
		}

		// The outbound call outlives a caller that hangs up; its result is simply dropped.
		ctx := context.WithoutCancel(c.Request.Context())

		res, err := fwd.Forward(ctx, creds, payload)
		if err != nil {
			metrics.RelayRequests.WithLabelValues(metrics.OutcomeUpstreamError).Inc()
			details := relay.Redact(err.Error(), creds.AccessToken)
			if details == "" {
				details = "upstream request failed"
			}
			log.Error("failed to forward event", slog.String("event_name", eventName), slog.String("error", details))
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal Error", Details: details})
			return
		}

		metrics.RelayRequests.WithLabelValues(metrics.OutcomeForwarded).Inc()
		log.Info("event relayed",
			slog.String("event_name", eventName),
			slog.Int("upstream_status", res.StatusCode),
		)

		c.Data(res.StatusCode, "application/json", res.Body)
	}
}
