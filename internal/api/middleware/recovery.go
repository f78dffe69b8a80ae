package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"syscall"

	"datalayer/internal/logger"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panicking event handler into a JSON 500. Panics caused
// by the storefront dropping the connection are swallowed without a reply.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			if err, ok := recovered.(error); ok && clientGone(err) {
				c.Abort()
				return
			}

			log.With("method", c.Request.Method, "path", c.Request.URL.Path).
				Error("Handler panicked: %v\n%s", recovered, debug.Stack())
			_ = c.Error(fmt.Errorf("panic: %v", recovered))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}()
		c.Next()
	}
}

func clientGone(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET)
}
