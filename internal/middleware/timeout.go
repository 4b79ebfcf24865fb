package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/print-order-service/internal/domain/dto"
	"github.com/guttosm/print-order-service/internal/i18n"
)

// TimeoutConfig holds configuration for the timeout middleware.
type TimeoutConfig struct {
	// Timeout bounds how long a handler's calls to the order API may take.
	Timeout time.Duration
	// Exempt selects requests that run without a deadline.
	Exempt func(c *gin.Context) bool
}

// DefaultTimeoutConfig returns a 30 second deadline that exempts document
// uploads, whose duration depends on the client's bandwidth.
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		Timeout: 30 * time.Second,
		Exempt:  IsMultipart,
	}
}

// IsMultipart reports whether the request carries a multipart form.
func IsMultipart(c *gin.Context) bool {
	return c.ContentType() == gin.MIMEMultipartPOSTForm
}

// Timeout puts a deadline on the request context. Handlers run on the
// request goroutine; when the deadline passes before anything was written,
// the client gets 504.
func Timeout(cfg TimeoutConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Timeout <= 0 || (cfg.Exempt != nil && cfg.Exempt(c)) {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.Timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if c.Writer.Written() || !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return
		}
		message := i18n.GetTranslator().Translate(i18n.ErrKeyTimeout, i18n.GetLocale(c))
		c.AbortWithStatusJSON(http.StatusGatewayTimeout,
			dto.NewError(dto.ErrCodeTimeout, message).WithRequestID(GetRequestID(c)))
	}
}

// TimeoutWithDuration is Timeout with the default exemptions and d as the
// deadline.
func TimeoutWithDuration(d time.Duration) gin.HandlerFunc {
	cfg := DefaultTimeoutConfig()
	cfg.Timeout = d
	return Timeout(cfg)
}
