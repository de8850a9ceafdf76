package middleware

import (
	"strconv"
	"time"

	"go-event-reservation/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics 收集 HTTP 請求指標
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()

		// 用路由模板而不是實際路徑，避免每個 id 各自成為一個 label
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		method := c.Request.Method
		statusCode := strconv.Itoa(c.Writer.Status())

		m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}
