package ratelimit

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// KeyFunc extracts the bucket key of a request.
type KeyFunc func(r *http.Request) string

// ByClientIP keys requests by remote address.
func ByClientIP(r *http.Request) string {
	return "ip:" + clientIP(r)
}

// ByCourier keys requests by the {id} route parameter of courier routes and
// falls back to the client IP elsewhere.
func ByCourier(r *http.Request) string {
	if id := chi.URLParam(r, "id"); id != "" {
		return "courier:" + id
	}
	return ByClientIP(r)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
