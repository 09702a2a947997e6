package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gmp-artesanias/gmp-backend/internal/metrics"
)

// MetricsMiddleware records request count and latency by route template.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
