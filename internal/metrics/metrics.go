package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	registry *prometheus.Registry

	// Engine metrics
	JoinsTotal  *prometheus.CounterVec
	LeavesTotal *prometheus.CounterVec

	// Queue state
	QueueOccupancy *prometheus.GaugeVec

	// Live push metrics
	LiveSubscribers    prometheus.Gauge
	EventsDroppedTotal prometheus.Counter
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		JoinsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queue_joins_total",
				Help: "Total number of join attempts",
			},
			[]string{"queue", "outcome"},
		),
		LeavesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queue_leaves_total",
				Help: "Total number of leave attempts",
			},
			[]string{"queue", "outcome"},
		),

		QueueOccupancy: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "queue_occupancy",
				Help: "Current number of callers waiting per queue",
			},
			[]string{"queue"},
		),

		LiveSubscribers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "live_subscribers",
				Help: "Number of connected live-update subscribers",
			},
		),
		EventsDroppedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "notify_events_dropped_total",
				Help: "Total number of change events dropped for slow subscribers",
			},
		),
	}

	registry.MustRegister(m.JoinsTotal)
	registry.MustRegister(m.LeavesTotal)
	registry.MustRegister(m.QueueOccupancy)
	registry.MustRegister(m.LiveSubscribers)
	registry.MustRegister(m.EventsDroppedTotal)

	return m
}

// Handler returns the HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
