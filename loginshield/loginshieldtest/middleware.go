package loginshieldtest

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cryptium/loginshield-go/logger"
)

// recovery turns a handler panic into a 500 so the client under test sees a
// service error instead of a dropped connection.
func recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("panic recovered", logger.ErrorFields(fmt.Errorf("%v", err),
					"stack", string(debug.Stack()),
					logger.FieldMethod, c.Request.Method,
					logger.FieldPath, c.Request.URL.Path,
				))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal"})
			}
		}()
		c.Next()
	}
}

// logRequests logs every request after it completes, at a level chosen by
// the response status.
func logRequests(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path += "?" + q
		}
		fields := logger.DurationFields(time.Since(start),
			logger.FieldMethod, c.Request.Method,
			logger.FieldPath, path,
			logger.FieldStatus, status,
		)
		switch {
		case status >= 500:
			log.Error("request completed", fields)
		case status >= 400:
			log.Warn("request completed", fields)
		default:
			log.Debug("request completed", fields)
		}
	}
}
