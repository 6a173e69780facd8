package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/narayanji/distributor-app/pkg/logger"
)

const contextLoggerKey = "request_logger"

// RequestLogger tags every request with an ID and logs method, path, status
// and latency on completion.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.New().String()

		requestLogger := logger.Get().WithContext(map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})

		c.Set(contextLoggerKey, requestLogger)
		c.Header("X-Request-ID", requestID)

		c.Next()

		fields := map[string]interface{}{
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case c.Writer.Status() >= 500:
			requestLogger.Error("Request completed with server error", nil, fields)
		case c.Writer.Status() >= 400:
			requestLogger.Warn("Request completed with client error", fields)
		default:
			requestLogger.Info("Request completed", fields)
		}
	}
}

// GetLoggerFromContext returns the request-scoped logger, falling back to the
// global one outside a request.
func GetLoggerFromContext(c *gin.Context) *logger.Logger {
	if value, exists := c.Get(contextLoggerKey); exists {
		if requestLogger, ok := value.(*logger.Logger); ok {
			return requestLogger
		}
	}
	return logger.Get()
}
