package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Relay outcomes recorded per inbound request.
const (
	OutcomeForwarded          = "forwarded"
	OutcomePreflight          = "preflight"
	OutcomeMethodNotAllowed   = "method_not_allowed"
	OutcomeMissingCredentials = "missing_credentials"
	OutcomeBadRequest         = "bad_request"
	OutcomeTooLarge           = "too_large"
	OutcomeUpstreamError      = "upstream_error"
)

var (
	RelayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_requests_total",
			Help: "Inbound /api/event requests by outcome",
		},
		[]string{"outcome"},
	)

	UpstreamResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_upstream_responses_total",
			Help: "Responses received from the Conversions API by status code",
		},
		[]string{"code"},
	)

	UpstreamLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_upstream_duration_seconds",
			Help:    "Latency of the single outbound call to the Conversions API",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
