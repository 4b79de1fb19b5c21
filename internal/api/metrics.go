package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the HTTP surface and the
// analysis pipeline, registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	jobsSubmitted   prometheus.Counter
}

// NewMetrics builds and registers all collectors. queueDepth is sampled on
// every scrape.
func NewMetrics(queueDepth func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docrank_http_requests_total",
				Help: "HTTP requests by method, route, and status.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docrank_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: []float64{0.01, 0.1, 0.5, 1.0, 2.0},
			},
			[]string{"method", "route"},
		),
		jobsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docrank_jobs_submitted_total",
			Help: "Analysis jobs accepted for processing.",
		}),
	}
	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.jobsSubmitted)

	if queueDepth != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "docrank_queue_depth",
			Help: "Jobs waiting in the analysis queue.",
		}, func() float64 { return float64(queueDepth()) }))
	}
	return m
}

// Middleware records request counts and durations with normalized routes.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(sw, r)

		route := normalizeRoute(r.URL.Path)
		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// JobSubmitted counts one accepted analysis job.
func (m *Metrics) JobSubmitted() {
	m.jobsSubmitted.Inc()
}

// normalizeRoute collapses job IDs so metric labels stay low-cardinality.
func normalizeRoute(path string) string {
	if strings.HasPrefix(path, "/api/analyze/") {
		if strings.HasSuffix(path, "/report") {
			return "/api/analyze/{jobID}/report"
		}
		return "/api/analyze/{jobID}"
	}
	return path
}
