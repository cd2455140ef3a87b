// Package metrics provides Prometheus metrics for the test-auth plugin.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the plugin.
type Metrics struct {
	// Session metrics
	SessionsStarted  *prometheus.CounterVec
	ResultsDelivered *prometheus.CounterVec
	DeliveryFailures prometheus.Counter
	SessionUpdates   *prometheus.CounterVec

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.SessionsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "testauth_sessions_started_total",
			Help: "Total number of authentication sessions started",
		},
		[]string{"delivery"},
	)

	m.ResultsDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "testauth_results_delivered_total",
			Help: "Total number of auth results delivered",
		},
		[]string{"delivery"},
	)

	m.DeliveryFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "testauth_delivery_failures_total",
			Help: "Total number of failed out-of-band result deliveries",
		},
	)

	m.SessionUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "testauth_session_updates_total",
			Help: "Total number of session update notifications received",
		},
		[]string{"activity"},
	)

	m.RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "testauth_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "status"},
	)

	m.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "testauth_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		},
		[]string{"method"},
	)

	m.registry.MustRegister(
		m.SessionsStarted,
		m.ResultsDelivered,
		m.DeliveryFailures,
		m.SessionUpdates,
		m.RequestsTotal,
		m.RequestDuration,
	)

	return m
}

// Handler returns an HTTP handler serving the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// statusRecorder captures the response status code for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request count and duration for each HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		m.RequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}
