// Package metrics provides Prometheus metrics for repoctl.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for repoctl.
type Metrics struct {
	// REST transport metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	// Command metrics
	OperationsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered on a
// private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repoctl_requests_total",
			Help: "Total number of REST requests sent to the repository server",
		},
		[]string{"code", "method"},
	)

	m.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "repoctl_request_duration_seconds",
			Help:    "Duration of REST requests sent to the repository server",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"method"},
	)

	m.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "repoctl_requests_in_flight",
			Help: "Number of REST requests currently in flight",
		},
	)

	m.OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repoctl_operations_total",
			Help: "Total number of proxy configuration operations by result",
		},
		[]string{"operation", "result"},
	)

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RequestsInFlight,
		m.OperationsTotal,
	)

	return m
}

// InstrumentRoundTripper wraps next so every request updates the transport
// metrics. A nil next means http.DefaultTransport.
func (m *Metrics) InstrumentRoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperInFlight(m.RequestsInFlight,
		promhttp.InstrumentRoundTripperCounter(m.RequestsTotal,
			promhttp.InstrumentRoundTripperDuration(m.RequestDuration, next),
		),
	)
}

// RecordOperation counts one proxy configuration operation.
func (m *Metrics) RecordOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.OperationsTotal.WithLabelValues(operation, result).Inc()
}

// WriteTextfile writes the registry in the text exposition format to path,
// for pickup by the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
