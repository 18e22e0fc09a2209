package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewNotifierRetriesTotal returns a Prometheus counter for the number of retry attempts performed by the status notifier
func NewNotifierRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifier_retries_total",
		Help: "Total number of retry attempts performed when publishing order status events",
	})
}

// NewNotifierDroppedTotal returns a counter of status events dropped because the queue was full or publishing failed
func NewNotifierDroppedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifier_dropped_total",
		Help: "Total number of order status events that were never published",
	})
}

// NewRegistryEvictionsTotal returns a counter of stale couriers evicted by the periodic sweep
func NewRegistryEvictionsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "availability_registry_evictions_total",
		Help: "Total number of stale couriers evicted from the availability registry by the sweep job",
	})
}

// NewRegistrySize returns a gauge reporting the number of couriers currently indexed as available
func NewRegistrySize(size func() int) prometheus.GaugeFunc {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "availability_registry_couriers",
		Help: "Number of couriers currently indexed as available",
	}, func() float64 { return float64(size()) })
}

// Dispatch groups the counters updated by the dispatch engine.
// A nil *Dispatch is valid and records nothing.
type Dispatch struct {
	Assignments *prometheus.CounterVec
	Rejections  prometheus.Counter
	Failures    prometheus.Counter
	Transitions *prometheus.CounterVec
}

// NewDispatch creates dispatch counters.
func NewDispatch() *Dispatch {
	return &Dispatch{
		Assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_assignments_total",
			Help: "Total number of orders assigned to couriers",
		}, []string{"mode"}),
		Rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_rejections_total",
			Help: "Total number of assignments rejected by couriers",
		}),
		Failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_assignment_failures_total",
			Help: "Total number of orders moved to ASSIGNMENT_FAILED after a rejection",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_status_transitions_total",
			Help: "Total number of order status transitions by target status",
		}, []string{"status"}),
	}
}

// Collectors returns every collector for registration.
func (d *Dispatch) Collectors() []prometheus.Collector {
	return []prometheus.Collector{d.Assignments, d.Rejections, d.Failures, d.Transitions}
}

// Assigned counts an assignment made in the given mode.
func (d *Dispatch) Assigned(mode string) {
	if d == nil {
		return
	}
	d.Assignments.WithLabelValues(mode).Inc()
}

// Rejected counts a courier rejection.
func (d *Dispatch) Rejected() {
	if d == nil {
		return
	}
	d.Rejections.Inc()
}

// Failed counts a failed reassignment.
func (d *Dispatch) Failed() {
	if d == nil {
		return
	}
	d.Failures.Inc()
}

// Transition counts a status change.
func (d *Dispatch) Transition(status string) {
	if d == nil {
		return
	}
	d.Transitions.WithLabelValues(status).Inc()
}
