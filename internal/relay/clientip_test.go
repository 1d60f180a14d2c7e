package relay

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "first forwarded-for entry",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.5, 70.41.3.18"},
			want:    "203.0.113.5",
		},
		{
			name:    "forwarded-for wins over real-ip",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.5", "X-Real-IP": "198.51.100.7"},
			want:    "203.0.113.5",
		},
		{
			name:    "real-ip fallback",
			headers: map[string]string{"X-Real-IP": "198.51.100.7"},
			want:    "198.51.100.7",
		},
		{
			name:    "blank forwarded-for falls back",
			headers: map[string]string{"X-Forwarded-For": " , 70.41.3.18", "X-Real-IP": " 198.51.100.7 "},
			want:    "198.51.100.7",
		},
		{
			name: "no headers",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tc.headers {
				h.Set(k, v)
			}
			assert.Equal(t, tc.want, ClientIP(h))
		})
	}
}
