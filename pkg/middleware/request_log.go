package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studentportal/portal/backend/go-services/pkg/logger"
	"github.com/studentportal/portal/backend/go-services/pkg/metrics"
)

// RequestLogger writes one log line per request and records its latency.
// Place it after RequestID so the id is available.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())

		account := "-"
		if v, ok := c.Get(AccountIDKey); ok {
			account = strconv.FormatInt(v.(int64), 10)
		}
		line := "request id=%s method=%s path=%s status=%d dur=%s ip=%s account=%s bytes=%d"
		args := []interface{}{c.GetString(RequestIDKey), c.Request.Method, c.Request.URL.Path, status, elapsed.Round(time.Microsecond), c.ClientIP(), account, c.Writer.Size()}
		switch {
		case status >= 500:
			logger.Errorf(line, args...)
		case status >= 400:
			logger.Warnf(line, args...)
		default:
			logger.Infof(line, args...)
		}
	}
}
