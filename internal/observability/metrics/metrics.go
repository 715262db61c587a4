package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes the application's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	followsCreated       prometheus.Counter
	ratingsIngested      prometheus.Counter
	notificationsEmitted *prometheus.CounterVec
	rateLimitDecisions   *prometheus.CounterVec
}

// New builds and registers all collectors on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voozea",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "voozea",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		followsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voozea",
			Subsystem: "social",
			Name:      "follows_created_total",
			Help:      "Follow edges created.",
		}),
		ratingsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voozea",
			Subsystem: "rating",
			Name:      "ratings_ingested_total",
			Help:      "Ratings created or updated.",
		}),
		notificationsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voozea",
			Subsystem: "notification",
			Name:      "emitted_total",
			Help:      "Notifications emitted by type.",
		}, []string{"type"}),
		rateLimitDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voozea",
			Subsystem: "ratelimit",
			Name:      "decisions_total",
			Help:      "Rate limit decisions by scope and outcome.",
		}, []string{"scope", "outcome"}),
	}

	registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.followsCreated,
		m.ratingsIngested,
		m.notificationsEmitted,
		m.rateLimitDecisions,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GinMiddleware records per-request counters and latency.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.httpRequests.WithLabelValues(route, method, status).Inc()
		m.httpDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// FollowCreated counts a new follow edge.
func (m *Metrics) FollowCreated() {
	m.followsCreated.Inc()
}

// RatingIngested counts a rating create or update.
func (m *Metrics) RatingIngested() {
	m.ratingsIngested.Inc()
}

// NotificationEmitted counts an emitted notification by type.
func (m *Metrics) NotificationEmitted(notificationType string) {
	m.notificationsEmitted.WithLabelValues(notificationType).Inc()
}

// RateLimitDecision counts a rate-limit verdict for a scope.
func (m *Metrics) RateLimitDecision(scope string, allowed bool) {
	outcome := "allowed"
	if !allowed {
		outcome = "denied"
	}
	m.rateLimitDecisions.WithLabelValues(scope, outcome).Inc()
}
