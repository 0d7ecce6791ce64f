package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"siteclusters.io/server/internal/metrics"
)

// MetricsMiddleware creates a middleware that collects Prometheus metrics
// for HTTP requests.
//
// This middleware:
// - Tracks request count by method, path, and status code
// - Measures request duration in seconds
// - Measures response size in bytes
// - Tracks in-flight requests
//
// It should be added early in the middleware chain so all requests are
// counted with accurate timing.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()

		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path // fallback for unmatched routes
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)

		if size := c.Writer.Size(); size >= 0 {
			metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}
