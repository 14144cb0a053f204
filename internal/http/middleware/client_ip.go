package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the host part of RemoteAddr. X-Forwarded-For is ignored
// so callers cannot pick their own rate limit or abuse guard bucket.
func ClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	host, _, err := net.SplitHostPort(addr)
	if err == nil && host != "" {
		return host
	}
	return addr
}
