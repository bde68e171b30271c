package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hearsay/internal/metrics"
)

// Metrics records request counts and latency per matched route.
// Unmatched requests are grouped under a single label.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.InFlight.Inc()
		defer metrics.InFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		metrics.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.RequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
