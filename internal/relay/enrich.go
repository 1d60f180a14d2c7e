package relay

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// Options are deployment choices applied to every relayed payload.
type Options struct {
	// TestEventCode is attached as test_event_code unless the payload carries one.
	TestEventCode string
	// DefaultCurrency fills custom_data.currency on the first event when missing.
	DefaultCurrency string
}

// DecodeBody parses an inbound payload as an open JSON object. Numbers are kept
// as json.Number so fields the relay does not touch are forwarded unchanged.
func DecodeBody(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	if body == nil {
		return nil, errors.New("decode body: payload must be a JSON object")
	}
	if dec.More() {
		return nil, errors.New("decode body: trailing data after JSON object")
	}
	return body, nil
}

// Enrich adds server-side information to data[0] of body in place.
//
// user_data is created when absent. client_ip_address is set to ip, or removed
// when ip is empty, so a value supplied by the browser never reaches upstream.
func Enrich(body map[string]any, ip string, opts Options) {
	if body == nil {
		return
	}

	if opts.TestEventCode != "" {
		if code, _ := body["test_event_code"].(string); code == "" {
			body["test_event_code"] = opts.TestEventCode
		}
	}

	event := firstEvent(body)
	if event == nil {
		return
	}

	userData, ok := event["user_data"].(map[string]any)
	if !ok {
		userData = map[string]any{}
		event["user_data"] = userData
	}
	if ip != "" {
		userData["client_ip_address"] = ip
	} else {
		delete(userData, "client_ip_address")
	}

	if opts.DefaultCurrency != "" {
		customData, ok := event["custom_data"].(map[string]any)
		if !ok {
			customData = map[string]any{}
			event["custom_data"] = customData
		}
		if cur, _ := customData["currency"].(string); cur == "" {
			customData["currency"] = opts.DefaultCurrency
		}
	}
}

// EventName returns data[0].event_name, or "" when the payload has none.
func EventName(body map[string]any) string {
	event := firstEvent(body)
	if event == nil {
		return ""
	}
	name, _ := event["event_name"].(string)
	return name
}

func firstEvent(body map[string]any) map[string]any {
	data, ok := body["data"].([]any)
	if !ok || len(data) == 0 {
		return nil
	}
	event, _ := data[0].(map[string]any)
	return event
}

// EncodeBody serializes a payload without HTML escaping, matching what browsers send.
func EncodeBody(body map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Redact removes secret, raw or query-escaped, from s.
func Redact(s, secret string) string {
	if secret == "" {
		return s
	}
	s = strings.ReplaceAll(s, secret, redacted)
	if escaped := url.QueryEscape(secret); escaped != secret {
		s = strings.ReplaceAll(s, escaped, redacted)
	}
	return s
}

const redacted = "[REDACTED]"
