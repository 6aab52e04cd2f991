package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	authOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_outcomes_total",
			Help: "Authentication attempts by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// metricsMiddleware usa la ruta registrada como label para acotar la cardinalidad.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

func recordAuthOutcome(operation string, err error) {
	outcome := "success"
	if err != nil {
		status, _ := errorResponse(err)
		outcome = strconv.Itoa(status)
	}
	authOutcomesTotal.WithLabelValues(operation, outcome).Inc()
}
