// Package httputil has small HTTP helpers shared by the server stack.
package httputil

import (
	"net/http"
	"strings"
)

// ClientIP resolves the originating client address for a request. It
// prefers X-Forwarded-For (first hop), then X-Real-IP, and falls back
// to RemoteAddr with the port stripped. The value is for logging only;
// never use it for authorization.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, ok := strings.Cut(xff, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	if idx := strings.LastIndex(r.RemoteAddr, ":"); idx != -1 {
		return r.RemoteAddr[:idx]
	}
	return r.RemoteAddr
}
