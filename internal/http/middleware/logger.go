package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger prints one access log line per request. Query strings are left out
// because OAuth callbacks carry codes in them.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "-"
		}

		log.Printf("[HTTP] request_id=%s method=%s path=%s route=%s status=%d latency_ms=%.3f caller=%s ip=%s",
			GetRequestID(c),
			c.Request.Method,
			c.Request.URL.Path,
			route,
			c.Writer.Status(),
			float64(latency.Microseconds())/1000.0,
			GetCallerID(c),
			c.ClientIP(),
		)
	}
}
