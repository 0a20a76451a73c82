package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of one server.
// Each server owns its registry so tests can create many servers.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter           *prometheus.CounterVec
	RequestDurationHistogram *prometheus.HistogramVec
	StatusCategoryCounter    *prometheus.CounterVec

	RouteResolves *prometheus.CounterVec
	RouteBuilds   *prometheus.CounterVec
	MenuCache     *prometheus.CounterVec
	MenuReloads   prometheus.Counter
}

// NewMetrics creates and registers the collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navkit_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDurationHistogram: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "navkit_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		StatusCategoryCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navkit_http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"category"},
		),
		RouteResolves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navkit_route_resolves_total",
				Help: "Resolved paths by routing tier",
			},
			[]string{"tier"},
		),
		RouteBuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navkit_route_builds_total",
				Help: "Path builds by outcome (navigated or skip reason)",
			},
			[]string{"result"},
		),
		MenuCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navkit_menu_cache_total",
				Help: "Menu snapshot cache lookups",
			},
			[]string{"result"},
		),
		MenuReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "navkit_menu_reloads_total",
			Help: "Static menu file reloads",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestCounter,
		m.RequestDurationHistogram,
		m.StatusCategoryCounter,
		m.RouteResolves,
		m.RouteBuilds,
		m.MenuCache,
		m.MenuReloads,
	)
	return m
}

// Handler exposes the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	}
	return ""
}

type metricsRecorder struct {
	http.ResponseWriter
	status int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *metricsRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Middleware records request metrics. The path label is the matched mux
// pattern so ids in the URL do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &metricsRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(rec.status)

		m.RequestCounter.WithLabelValues(r.Method, path, status).Inc()
		m.RequestDurationHistogram.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		if category := statusCategory(rec.status); category != "" {
			m.StatusCategoryCounter.WithLabelValues(category).Inc()
		}
	})
}
