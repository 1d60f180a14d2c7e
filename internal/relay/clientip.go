package relay

import (
	"net/http"
	"strings"
)

// ClientIP returns the caller address as reported by the edge proxy: the first
// X-Forwarded-For entry, falling back to X-Real-IP. It never looks at the socket
// peer, which behind a proxy is the proxy itself.
func ClientIP(h http.Header) string {
	ip := strings.TrimSpace(strings.Split(h.Get("X-Forwarded-For"), ",")[0])
	if ip == "" {
		ip = strings.TrimSpace(h.Get("X-Real-IP"))
	}
	return ip
}
