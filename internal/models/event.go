package models

// ActionSourceWebsite is the action_source reported for events fired from the landing page.
const ActionSourceWebsite = "website"

// Attribution cookie names set by the advertising platform's browser pixel.
const (
	CookieFBC = "_fbc"
	CookieFBP = "_fbp"
)

// EventsRequest is the POST /api/event payload and the body forwarded upstream.
// test_event_code routes events to the platform's test console when present.
type EventsRequest struct {
	Data          []TrackedEvent `json:"data"`
	TestEventCode string         `json:"test_event_code,omitempty"`
}

// TrackedEvent is a single conversion event as composed in the browser.
// event_id is optional; the platform uses it to deduplicate pixel and server events.
type TrackedEvent struct {
	EventName      string                 `json:"event_name"`
	EventTime      int64                  `json:"event_time"`
	EventID        string                 `json:"event_id,omitempty"`
	ActionSource   string                 `json:"action_source"`
	EventSourceURL string                 `json:"event_source_url"`
	UserData       UserData               `json:"user_data"`
	CustomData     map[string]interface{} `json:"custom_data"`
}

// UserData carries the matching keys for a TrackedEvent.
// ClientIPAddress is only ever filled by the relay.
type UserData struct {
	ClientUserAgent string `json:"client_user_agent"`
	FBC             string `json:"fbc,omitempty"`
	FBP             string `json:"fbp,omitempty"`
	ClientIPAddress string `json:"client_ip_address,omitempty"`
}

// ErrorResponse is the body returned for locally generated relay failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
