// File: middleware/metrics.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"cmv-site/metrics"
)

// RequestMetrics records every request under its route pattern, so
// /admin/events/:kind is one series rather than one per kind.
func RequestMetrics(rec metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.HTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
