package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"vcard-backend/internal/shared/metrics"
)

// Metrics ghi request counter và latency theo route template (c.FullPath)
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
