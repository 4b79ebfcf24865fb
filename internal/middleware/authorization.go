package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/print-order-service/internal/domain/dto"
	"github.com/guttosm/print-order-service/internal/i18n"
)

// RequireRole returns a middleware that lets a request through only when the
// caller holds at least one of roles. It must run after JWTAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.GetLocale(c)
		requestID := GetRequestID(c)

		claims, ok := GetClaims(c)
		if !ok {
			message := i18n.GetTranslator().Translate(i18n.ErrKeyUnauthorized, locale)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewError(dto.ErrCodeUnauthorized, message).WithRequestID(requestID))
			return
		}

		for _, role := range roles {
			if claims.HasRole(role) {
				c.Next()
				return
			}
		}

		message := i18n.GetTranslator().Translate(i18n.ErrKeyForbidden, locale)
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewError(dto.ErrCodeForbidden, message).WithRequestID(requestID))
	}
}
