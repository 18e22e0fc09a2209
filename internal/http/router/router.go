package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"service-dispatch/internal/http/handlers"
	"service-dispatch/internal/http/middleware"
	"service-dispatch/internal/http/middleware/ratelimit"
	"service-dispatch/internal/logx"
)

// Params are the router dependencies.
type Params struct {
	dig.In

	Logger    logx.Logger
	Base      *handlers.Handlers
	Dispatch  *handlers.DispatchHandler
	Couriers  *handlers.CourierHandler
	Metrics   *middleware.HTTPMetrics `optional:"true"`
	RateLimit *ratelimit.Middleware   `optional:"true"`
	Gatherer  prometheus.Gatherer     `optional:"true"`
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(p Params) http.Handler {
	logger := p.Logger
	if logger == nil {
		logger = logx.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Observability(logger, p.Metrics))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(5 * time.Second))

	r.Get("/ping", p.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(p.Base.HealthcheckHead))
	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/orders", func(r chi.Router) {
		r.Get("/pending", p.Dispatch.Pending)
		r.Route("/{id}", func(r chi.Router) {
			r.Post("/assign", p.Dispatch.Assign)
			r.Post("/assign/{courierID}", p.Dispatch.AssignTo)
			r.Post("/accept", p.Dispatch.Accept)
			r.Post("/reject", p.Dispatch.Reject)
			r.Post("/status", p.Dispatch.AdvanceStatus)
			r.Post("/cancel", p.Dispatch.Cancel)
			r.Get("/assignment", p.Dispatch.Assignment)
			r.Get("/assignments", p.Dispatch.History)
		})
	})

	r.Get("/areas/{area}/couriers", p.Dispatch.Available)

	r.Route("/couriers/{id}", func(r chi.Router) {
		if p.RateLimit != nil {
			r.Use(p.RateLimit.Handler())
		}
		r.Post("/online", p.Couriers.Online)
		r.Post("/offline", p.Couriers.Offline)
		r.Post("/heartbeat", p.Couriers.Heartbeat)
		r.Get("/stats", p.Couriers.Stats)
		r.Get("/assignments", p.Couriers.Assignments)
	})

	r.NotFound(http.HandlerFunc(p.Base.NotFound))

	return r
}
