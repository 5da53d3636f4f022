package http_metrics_middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/humanbelnik/moviematch/internal/infra/metrics"
)

// Observe records request count and latency per route template.
func Observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
