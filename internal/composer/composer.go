package composer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PratikDhanave/event-relay-service/internal/lib/logger/sl"
	"github.com/PratikDhanave/event-relay-service/internal/models"
)

// relayPath is where the relay listens, relative to Config.RelayURL.
const relayPath = "/api/event"

// ErrEmptyEventName is returned by Compose for a blank event name.
var ErrEmptyEventName = errors.New("event name is required")

// Config describes where events go and how they are labelled.
type Config struct {
	// RelayURL is the origin serving the relay, e.g. "https://tournament.example".
	RelayURL string
	// DefaultCurrency is added to custom_data when the caller gives none. Empty disables it.
	DefaultCurrency string
	// ActionSource defaults to "website".
	ActionSource string
}

// Composer builds tracked events from what the page environment exposes and
// submits them to the relay. It holds no platform credentials.
type Composer struct {
	log        *slog.Logger
	cfg        Config
	env        Environment
	httpClient *http.Client
	now        func() time.Time
	newID      func() string
}

type Option func(*Composer)

func WithHTTPClient(c *http.Client) Option {
	return func(cm *Composer) { cm.httpClient = c }
}

func WithClock(now func() time.Time) Option {
	return func(cm *Composer) { cm.now = now }
}

// WithIDGenerator overrides the event_id source. Returning "" omits event_id.
func WithIDGenerator(f func() string) Option {
	return func(cm *Composer) { cm.newID = f }
}

// New returns a Composer. A nil env behaves like NoopEnvironment.
func New(log *slog.Logger, cfg Config, env Environment, opts ...Option) *Composer {
	if env == nil {
		env = NoopEnvironment{}
	}
	if cfg.ActionSource == "" {
		cfg.ActionSource = models.ActionSourceWebsite
	}

	c := &Composer{
		log:        log.With(slog.String("component", "composer")),
		cfg:        cfg,
		env:        env,
		httpClient: http.DefaultClient,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose assembles the payload for a single event. customData is copied, not modified.
func (c *Composer) Compose(eventName string, customData map[string]interface{}) (models.EventsRequest, error) {
	eventName = strings.TrimSpace(eventName)
	if eventName == "" {
		return models.EventsRequest{}, ErrEmptyEventName
	}

	event := models.TrackedEvent{
		EventName:      eventName,
		EventTime:      c.now().Unix(),
		EventID:        c.newID(),
		ActionSource:   c.cfg.ActionSource,
		EventSourceURL: c.env.PageURL(),
		UserData: models.UserData{
			ClientUserAgent: c.env.UserAgent(),
		},
		CustomData: c.customData(customData),
	}
	if v, ok := c.env.Cookie(models.CookieFBC); ok {
		event.UserData.FBC = v
	}
	if v, ok := c.env.Cookie(models.CookieFBP); ok {
		event.UserData.FBP = v
	}

	return models.EventsRequest{Data: []models.TrackedEvent{event}}, nil
}

func (c *Composer) customData(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in)+1)
	for k, v := range in {
		out[k] = v
	}

	if c.cfg.DefaultCurrency != "" {
		if cur, _ := out["currency"].(string); cur == "" {
			out["currency"] = c.cfg.DefaultCurrency
		}
	}

	if v, ok := out["value"]; ok {
		if f, ok := toFloat(v); ok {
			out["value"] = f
		} else {
			c.log.Warn("custom_data.value is not numeric, sending as is", slog.Any("value", v))
		}
	}

	return out
}

// Send composes and posts one event to the relay. It never fails the caller:
// the parsed reply is returned when there is one, nil otherwise, and every
// failure is logged. There is no retry.
func (c *Composer) Send(ctx context.Context, eventName string, customData map[string]interface{}) map[string]interface{} {
	const op = "composer.Send"

	log := c.log.With(slog.String("op", op), slog.String("event_name", eventName))

	payload, err := c.Compose(eventName, customData)
	if err != nil {
		log.Warn("event not sent", sl.Err(err))
		return nil
	}

	reply, status, err := c.post(ctx, payload)
	if err != nil {
		log.Error("error sending event", sl.Err(err))
		return nil
	}

	if status >= http.StatusBadRequest {
		log.Error("relay rejected event", slog.Int("status", status), slog.Any("error", reply["error"]))
	} else {
		log.Info("event sent", slog.Int("status", status))
	}

	return reply
}

func (c *Composer) post(ctx context.Context, payload models.EventsRequest) (map[string]interface{}, int, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal event: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.RelayURL, "/") + relayPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("post event: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read reply: %w", err)
	}

	var reply map[string]interface{}
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode reply (status %d): %w", resp.StatusCode, err)
	}

	return reply, resp.StatusCode, nil
}
