package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"concerthall/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs every request with logrus and recovers from panics
// into a 500 envelope.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				requestFields(log, c, start).
					WithField("panic", err.Error()).
					WithField("stack", string(debug.Stack())).
					Error("request panicked")

				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				c.Abort()
				return
			}

			entry := requestFields(log, c, start)
			for _, err := range c.Errors {
				entry = entry.WithField("error", err.Error())
			}

			switch status := c.Writer.Status(); {
			case status >= http.StatusInternalServerError:
				entry.Error("request failed")
			case status >= http.StatusBadRequest:
				entry.Warn("request rejected")
			default:
				entry.Info("request handled")
			}
		}()

		c.Next()
	}
}

func requestFields(log logrus.FieldLogger, c *gin.Context, start time.Time) *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"status":     c.Writer.Status(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"query":      c.Request.URL.RawQuery,
		"client_ip":  c.ClientIP(),
		"user_id":    c.GetInt64(ContextUserID),
		"role":       c.GetString(ContextRole),
		"request_id": c.GetString(ContextRequestID),
		"latency":    time.Since(start).String(),
	})
}
