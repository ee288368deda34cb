package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"venuehub/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorLogger logs failed requests and recovers from panics.
func ErrorLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				requestLog(log, c, start).
					WithField("stack", string(debug.Stack())).
					Errorf("panic: %v", recovered)

				response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				c.Abort()
				return
			}

			for _, err := range c.Errors {
				entry := requestLog(log, c, start).WithField("type", fmt.Sprintf("%v", err.Type))
				if err.Meta != nil {
					entry = entry.WithField("meta", err.Meta)
				}
				entry.Error(err.Error())
			}

			if len(c.Errors) == 0 && c.Writer.Status() >= http.StatusInternalServerError {
				requestLog(log, c, start).Error("request failed")
			}
		}()

		c.Next()
	}
}

func requestLog(log *logrus.Logger, c *gin.Context, start time.Time) *logrus.Entry {
	fields := logrus.Fields{
		"status":     c.Writer.Status(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"client_ip":  c.ClientIP(),
		"request_id": requestID(c),
		"latency":    time.Since(start).String(),
	}
	if userID := c.GetInt64(ContextUserID); userID != 0 {
		fields["user_id"] = userID
	}
	return log.WithFields(fields)
}
