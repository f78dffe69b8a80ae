package middleware

import (
	"time"

	"datalayer/internal/logger"

	"github.com/gin-gonic/gin"
)

// Logger writes one line per request through the application logger.
func Logger(logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		msg := "%s %s %d %s %s"
		args := []interface{}{c.Request.Method, path, status, time.Since(start), c.ClientIP()}
		if len(c.Errors) > 0 {
			msg += " errors=%s"
			args = append(args, c.Errors.String())
		}

		if status >= 500 {
			logger.Error(msg, args...)
			return
		}
		logger.Debug(msg, args...)
	}
}
