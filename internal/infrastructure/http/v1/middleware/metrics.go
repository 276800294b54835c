package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	syncRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_runs_total",
			Help: "Total reconciliation runs by outcome",
		},
		[]string{"outcome"},
	)
)

// InitMetrics registers all collectors. Call once at startup.
func InitMetrics() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, syncRunsTotal)
}

// ObserveSyncRun records the outcome of one reconciliation run.
func ObserveSyncRun(outcome string) {
	syncRunsTotal.WithLabelValues(outcome).Inc()
}

// Metrics middleware records per-request counters and latency histograms.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = "undefined"
		}

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(path).Observe(duration.Seconds())
	}
}
