package relay

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	body, err := DecodeBody(strings.NewReader(s))
	require.NoError(t, err)
	return body
}

func userData(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	event := firstEvent(body)
	require.NotNil(t, event)
	ud, ok := event["user_data"].(map[string]any)
	require.True(t, ok, "user_data must be an object")
	return ud
}

func TestEnrich_SetsClientIP(t *testing.T) {
	body := decode(t, `{"data":[{"event_name":"Contact","user_data":{"client_user_agent":"UA"}}]}`)

	Enrich(body, "203.0.113.5", Options{})

	ud := userData(t, body)
	assert.Equal(t, "203.0.113.5", ud["client_ip_address"])
	assert.Equal(t, "UA", ud["client_user_agent"])
}

func TestEnrich_CreatesUserData(t *testing.T) {
	body := decode(t, `{"data":[{"event_name":"ViewContent"}]}`)

	Enrich(body, "198.51.100.7", Options{})

	assert.Equal(t, "198.51.100.7", userData(t, body)["client_ip_address"])
}

func TestEnrich_NoIPLeavesFieldUnset(t *testing.T) {
	body := decode(t, `{"data":[{"event_name":"ViewContent"}]}`)

	Enrich(body, "", Options{})

	ud := userData(t, body)
	_, present := ud["client_ip_address"]
	assert.False(t, present)

	out, err := EncodeBody(body)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "client_ip_address")
}

func TestEnrich_DropsBrowserSuppliedIP(t *testing.T) {
	body := decode(t, `{"data":[{"event_name":"Purchase","user_data":{"client_ip_address":"6.6.6.6"}}]}`)

	Enrich(body, "", Options{})
	_, present := userData(t, body)["client_ip_address"]
	assert.False(t, present)

	body = decode(t, `{"data":[{"event_name":"Purchase","user_data":{"client_ip_address":"6.6.6.6"}}]}`)
	Enrich(body, "203.0.113.5", Options{})
	assert.Equal(t, "203.0.113.5", userData(t, body)["client_ip_address"])
}

func TestEnrich_NoEvents(t *testing.T) {
	cases := []string{
		`{}`,
		`{"data":[]}`,
		`{"data":"nope"}`,
		`{"data":[42]}`,
	}
	for _, in := range cases {
		t.Run(in, func(t *testing.T) {
			body := decode(t, in)
			before, err := EncodeBody(body)
			require.NoError(t, err)

			Enrich(body, "203.0.113.5", Options{})

			after, err := EncodeBody(body)
			require.NoError(t, err)
			assert.JSONEq(t, string(before), string(after))
		})
	}

	assert.NotPanics(t, func() { Enrich(nil, "203.0.113.5", Options{}) })
}

func TestEnrich_OnlyFirstEvent(t *testing.T) {
	body := decode(t, `{"data":[{"event_name":"A"},{"event_name":"B"}]}`)

	Enrich(body, "203.0.113.5", Options{})

	second := body["data"].([]any)[1].(map[string]any)
	_, present := second["user_data"]
	assert.False(t, present)
}

func TestEnrich_Options(t *testing.T) {
	opts := Options{TestEventCode: "TEST70646", DefaultCurrency: "USD"}

	t.Run("fills missing values", func(t *testing.T) {
		body := decode(t, `{"data":[{"event_name":"ViewContent"}]}`)
		Enrich(body, "", opts)

		assert.Equal(t, "TEST70646", body["test_event_code"])
		cd := firstEvent(body)["custom_data"].(map[string]any)
		assert.Equal(t, "USD", cd["currency"])
	})

	t.Run("caller values win", func(t *testing.T) {
		body := decode(t, `{"test_event_code":"MINE","data":[{"event_name":"Purchase","custom_data":{"currency":"UYU","value":1000.0}}]}`)
		Enrich(body, "", opts)

		assert.Equal(t, "MINE", body["test_event_code"])
		cd := firstEvent(body)["custom_data"].(map[string]any)
		assert.Equal(t, "UYU", cd["currency"])
		assert.Equal(t, json.Number("1000.0"), cd["value"])
	})

	t.Run("disabled by default", func(t *testing.T) {
		body := decode(t, `{"data":[{"event_name":"ViewContent"}]}`)
		Enrich(body, "", Options{})

		_, hasCode := body["test_event_code"]
		_, hasCustom := firstEvent(body)["custom_data"]
		assert.False(t, hasCode)
		assert.False(t, hasCustom)
	})
}

func TestDecodeBody_Rejects(t *testing.T) {
	for _, in := range []string{``, `null`, `[1,2]`, `"x"`, `{"a":1} {"b":2}`, `{bad`} {
		t.Run(in, func(t *testing.T) {
			_, err := DecodeBody(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestEncodeBody_PreservesUnknownFields(t *testing.T) {
	in := `{"data":[{"event_name":"Purchase","event_time":1735689600,"opt_out":false,"custom_data":{"value":1000.00,"contents":[{"id":"ticket","quantity":1}]}}],"partner_agent":"landing"}`
	body := decode(t, in)

	out, err := EncodeBody(body)
	require.NoError(t, err)

	assert.JSONEq(t, in, string(out))
	assert.Contains(t, string(out), `"event_time":1735689600`)
}

func TestEventName(t *testing.T) {
	assert.Equal(t, "Contact", EventName(decode(t, `{"data":[{"event_name":"Contact"}]}`)))
	assert.Equal(t, "", EventName(decode(t, `{"data":[]}`)))
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "token=[REDACTED]", Redact("token=abc/def", "abc/def"))
	assert.Equal(t, "token=[REDACTED]", Redact("token=abc%2Fdef", "abc/def"))
	assert.Equal(t, "unchanged", Redact("unchanged", ""))
}
