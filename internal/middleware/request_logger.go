package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/print-order-service/internal/logger"
	"github.com/guttosm/print-order-service/internal/service"
)

// RequestLogger logs every request once it completes, at a level chosen by
// its status code. When loggingService is set the entry is also persisted,
// tagged with the caller and any session or order number the handler
// recorded.
func RequestLogger(loggingService service.LoggingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		level := levelForStatus(statusCode)
		log := logger.Logger()
		event := log.WithLevel(level).
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status_code", statusCode).
			Int64("duration_ms", latency.Milliseconds()).
			Str("ip", c.ClientIP())
		if id := c.GetString(ContextKeySessionID); id != "" {
			event = event.Str("session_id", id)
		}
		if n := c.GetString(ContextKeyOrderNumber); n != "" {
			event = event.Str("order_number", n)
		}
		event.Msg("HTTP request")

		if loggingService == nil {
			return
		}
		entry := newLogEntry(c, level.String(), "HTTP request")
		entry.StatusCode = statusCode
		entry.Duration = latency.Milliseconds()
		storeLogEntry(loggingService, entry)
	}
}

// levelForStatus logs server errors as errors and client errors as
// warnings.
func levelForStatus(statusCode int) zerolog.Level {
	switch {
	case statusCode >= 500:
		return zerolog.ErrorLevel
	case statusCode >= 400:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
