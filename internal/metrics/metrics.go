// Package metrics exposes prometheus instrumentation for the API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors registered for the service.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	OrdersCreated   prometheus.Counter
}

// New creates and registers the service collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kasirkita_http_requests_total",
				Help: "Number of HTTP requests processed, by method, path and status.",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kasirkita_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds, by method and path.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		OrdersCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "kasirkita_orders_created_total",
				Help: "Number of orders successfully created.",
			},
		),
	}

	registry.MustRegister(m.RequestsTotal, m.RequestDuration, m.OrdersCreated)

	return m
}

// Handler returns the /metrics scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
