// Package metrics exposes Prometheus instrumentation for the service.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the service's Prometheus collectors. Each Service owns its
// own registry, so two instances in one process never fight over metric
// registration.
type Metrics struct {
	registry *prometheus.Registry

	// PagesPublished counts successful page publications.
	PagesPublished prometheus.Counter

	// ResponsesRecorded counts successfully stored participant responses.
	ResponsesRecorded prometheus.Counter

	// ResponsesReset counts explicit response resets by presenters.
	ResponsesReset prometheus.Counter

	// SessionsExpired counts sessions removed by the TTL sweeper.
	SessionsExpired prometheus.Counter

	httpRequests *prometheus.CounterVec
}

// New builds the collector set. liveSessions is sampled on every scrape to
// report the current session count; it may be nil.
func New(liveSessions func() float64) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		PagesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lectern_pages_published_total",
			Help: "Total number of pages published by presenters.",
		}),
		ResponsesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lectern_responses_recorded_total",
			Help: "Total number of participant responses recorded.",
		}),
		ResponsesReset: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lectern_responses_reset_total",
			Help: "Total number of response resets requested by presenters.",
		}),
		SessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lectern_sessions_expired_total",
			Help: "Total number of sessions removed by the idle sweeper.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lectern_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
	}

	m.registry.MustRegister(
		m.PagesPublished,
		m.ResponsesRecorded,
		m.ResponsesReset,
		m.SessionsExpired,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if liveSessions != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "lectern_sessions_live",
			Help: "Number of sessions currently held in memory.",
		}, liveSessions))
	}

	return m
}

// Handler serves the scrape endpoint for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts every request by method, matched chi route pattern and
// response status.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}
