// Package observability exposes the Prometheus metrics of the console.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the console metrics on a private registry. The handler
// also serves the default registry, which carries the Go runtime collectors
// and the authz decision metrics.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	exportsTotal    *prometheus.CounterVec
	exportRows      *prometheus.HistogramVec
	recordsCreated  *prometheus.CounterVec
	statusChanges   *prometheus.CounterVec
}

// NewMetrics initializes the registry and the console metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cabinet_http_requests_total",
		Help: "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cabinet_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cabinet_exports_total",
		Help: "Spreadsheet exports by tab and result.",
	}, []string{"tab", "result"})
	rows := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cabinet_export_rows",
		Help:    "Rows written per export.",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
	}, []string{"tab"})
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cabinet_records_created_total",
		Help: "Supplies and absences added through the console.",
	}, []string{"kind"})

	statuses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cabinet_absence_status_changes_total",
		Help: "Absence status updates by new status.",
	}, []string{"status"})

	registry.MustRegister(requests, duration, exports, rows, created, statuses)

	return &Metrics{
		registry: registry,
		handler: promhttp.HandlerFor(
			prometheus.Gatherers{registry, prometheus.DefaultGatherer},
			promhttp.HandlerOpts{ErrorHandling: promhttp.ContinueOnError},
		),
		requestsTotal:   requests,
		requestDuration: duration,
		exportsTotal:    exports,
		exportRows:      rows,
		recordsCreated:  created,
		statusChanges:   statuses,
	}
}

// Handler returns the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// GinMiddleware records request count and latency per matched route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// ObserveExport records the outcome of one export.
func (m *Metrics) ObserveExport(tab string, rows int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.exportsTotal.WithLabelValues(tab, "error").Inc()
		return
	}
	m.exportsTotal.WithLabelValues(tab, "ok").Inc()
	m.exportRows.WithLabelValues(tab).Observe(float64(rows))
}

// RecordCreated counts an added supply or absence.
func (m *Metrics) RecordCreated(kind string) {
	if m == nil {
		return
	}
	m.recordsCreated.WithLabelValues(kind).Inc()
}

// RecordStatusChange counts an absence moved to status.
func (m *Metrics) RecordStatusChange(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}
