package clientip

import (
	"net"
	"net/http"
	"strings"
)

// RealClientIP returns the client IP from the request.
// Uses r.RemoteAddr only (no proxy headers). Use for rate limiting and logging
// when traffic goes directly to the app.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}

// ForwardedClientIP honors X-Forwarded-For / X-Real-IP when the app sits
// behind a trusted proxy. Falls back to RemoteAddr.
func ForwardedClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 && strings.TrimSpace(parts[0]) != "" {
			return strings.TrimSpace(parts[0])
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	return RealClientIP(r)
}
