package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		remote string
		want   string
	}{
		{"1.2.3.4:5678", "1.2.3.4"},
		{"not-a-hostport", "not-a-hostport"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
		r.RemoteAddr = tt.remote
		assert.Equal(t, tt.want, clientIP(r))
	}
}

func TestByCourier(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/couriers/7/heartbeat", nil)
	r.RemoteAddr = "1.2.3.4:5678"
	assert.Equal(t, "ip:1.2.3.4", ByCourier(r))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "7")
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	assert.Equal(t, "courier:7", ByCourier(r))
}
