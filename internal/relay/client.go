package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/PratikDhanave/event-relay-service/internal/metrics"
	"github.com/PratikDhanave/event-relay-service/internal/tracing"
)

// ErrMalformedResponse is returned when the upstream reply is not JSON.
var ErrMalformedResponse = errors.New("upstream returned malformed JSON")

// Credentials identify the destination pixel and authorize the call.
type Credentials struct {
	AccessToken string
	PixelID     string
}

// Result is the upstream reply relayed verbatim to the caller.
type Result struct {
	StatusCode int
	Body       []byte
}

//go:generate mockery --name=Forwarder --dir=. --output=./mocks --filename=forwarder_mock.go --outpkg=mocks
type Forwarder interface {
	Forward(ctx context.Context, creds Credentials, body []byte) (Result, error)
}

// GraphClient posts event payloads to the Conversions API.
type GraphClient struct {
	httpClient *http.Client
	baseURL    string
	apiVersion string
}

// NewGraphClient builds a client for baseURL (e.g. https://graph.facebook.com).
// A zero timeout leaves the transport defaults in place.
func NewGraphClient(baseURL, apiVersion string, timeout time.Duration) *GraphClient {
	return &GraphClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiVersion: apiVersion,
	}
}

// Forward performs exactly one POST of body to the events edge of creds.PixelID.
// Any status is a successful Result as long as the reply is valid JSON.
func (c *GraphClient) Forward(ctx context.Context, creds Credentials, body []byte) (Result, error) {
	// Credentials stay off the span, the pixel id included.
	ctx, span := tracing.Tracer().Start(ctx, "relay.forward", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	res, err := c.forward(ctx, creds, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}
	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode))
	return res, nil
}

func (c *GraphClient) forward(ctx context.Context, creds Credentials, body []byte) (Result, error) {
	endpoint := c.endpoint(creds.PixelID, creds.AccessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %s", Redact(err.Error(), creds.AccessToken))
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = c.endpoint(creds.PixelID, redacted)
		}
		return Result{}, fmt.Errorf("post events: %w", err)
	}
	defer resp.Body.Close()

	metrics.UpstreamResponses.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}
	if !json.Valid(raw) {
		return Result{}, fmt.Errorf("%w (status %d)", ErrMalformedResponse, resp.StatusCode)
	}

	return Result{StatusCode: resp.StatusCode, Body: raw}, nil
}

func (c *GraphClient) endpoint(pixelID, token string) string {
	q := make(url.Values)
	q.Set("access_token", token)
	return fmt.Sprintf("%s/%s/%s/events?%s", c.baseURL, c.apiVersion, url.PathEscape(pixelID), q.Encode())
}
