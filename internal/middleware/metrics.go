package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/coffeepulse/internal/metrics"
)

// Metrics counts served requests by method, route template and status.
// Unmatched routes are grouped under "unmatched" to bound label cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status())
	}
}
