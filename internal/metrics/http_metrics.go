package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private prometheus registry with the HTTP collectors and
// the domain counters.  A nil *Metrics is valid and records nothing, which
// keeps handlers usable in tests without a registry.
type Metrics struct {
	ServiceName string

	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	statusCategory  *prometheus.CounterVec
	authEvents      *prometheus.CounterVec
	catalogMutation *prometheus.CounterVec
}

// New creates and registers every collector for a service.
func New(serviceName string) *Metrics {
	m := &Metrics{
		ServiceName: serviceName,
		registry:    prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path", "status"},
		),
		statusCategory: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"service", "category", "method", "path"},
		),
		authEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_events_total",
				Help: "Authentication events by outcome (register, login_success, login_failure, logout)",
			},
			[]string{"service", "event"},
		),
		catalogMutation: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_mutations_total",
				Help: "Product aggregate and review writes by operation",
			},
			[]string{"service", "operation"},
		),
	}
	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.statusCategory,
		m.authEvents,
		m.catalogMutation,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// AuthEvent counts an authentication outcome.
func (m *Metrics) AuthEvent(event string) {
	if m == nil {
		return
	}
	m.authEvents.WithLabelValues(m.ServiceName, event).Inc()
}

// CatalogMutation counts a write to the product aggregate or reviews.
func (m *Metrics) CatalogMutation(operation string) {
	if m == nil {
		return
	}
	m.catalogMutation.WithLabelValues(m.ServiceName, operation).Inc()
}

func category(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	}
	return ""
}

// Middleware creates an Echo middleware function that records HTTP request metrics
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			start := time.Now()

			err := next(c)

			// Record metrics after the request is processed
			status := c.Response().Status
			method := c.Request().Method
			path := c.Path()
			statusStr := strconv.Itoa(status)

			m.requests.WithLabelValues(m.ServiceName, method, path, statusStr).Inc()
			if cat := category(status); cat != "" {
				m.statusCategory.WithLabelValues(m.ServiceName, cat, method, path).Inc()
			}
			m.duration.WithLabelValues(m.ServiceName, method, path, statusStr).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler returns an HTTP handler exposing this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
