package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/print-order-service/internal/middleware"
)

// DefaultAdminRole is the JWT role admin routes require when none is
// configured.
const DefaultAdminRole = "admin"

// AdminRoutes registers the print shop back office: orders, the print
// queue, price tables and session statistics.
type AdminRoutes struct {
	orders   *AdminOrderHandler
	prices   *PriceTableHandler
	pricing  *PricingHandler
	sessions *SessionHandler
}

// NewAdminRoutes builds the handlers for the services present in cfg.
func NewAdminRoutes(cfg *RouterConfig) *AdminRoutes {
	r := &AdminRoutes{}
	if cfg.Orders != nil {
		r.orders = NewAdminOrderHandler(cfg.Orders)
	}
	if cfg.PriceTables != nil {
		r.prices = NewPriceTableHandler(cfg.PriceTables)
		r.pricing = NewPricingHandler(cfg.PriceTables)
	}
	if cfg.Sessions != nil {
		r.sessions = NewSessionHandler(cfg.Sessions, cfg.MaxUploadBytes)
	}
	return r
}

// RegisterRoutes implements RouteGroup.
func (r *AdminRoutes) RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	admin := rg.Group("/admin", adminGuard(cfg)...)

	if r.orders != nil {
		admin.GET("/orders", r.orders.ListOrders)
		admin.GET("/orders/stats", r.orders.Stats)
		admin.PUT("/orders/:orderNumber/status", cfg.idempotency(), r.orders.UpdateStatus)
		admin.GET("/print-queue", r.orders.PrintQueue)
	}

	if r.prices != nil {
		admin.GET("/price-table", r.pricing.GetPriceTable)
		admin.PUT("/price-table", r.prices.Publish)
		admin.GET("/price-table/history", r.prices.History)
		admin.POST("/price-table/:id/activate", r.prices.Activate)
	}

	if r.sessions != nil {
		admin.GET("/sessions/stats", r.sessions.Stats)
	}
}

// adminGuard picks the admin authentication: bearer tokens carrying the
// admin role when a validator is configured, otherwise API keys when auth is
// enabled. With neither the admin routes are open, which only suits local
// development.
func adminGuard(cfg *RouterConfig) []gin.HandlerFunc {
	switch {
	case cfg.TokenValidator != nil:
		role := cfg.AdminRole
		if role == "" {
			role = DefaultAdminRole
		}
		guard := []gin.HandlerFunc{middleware.JWTAuth(cfg.TokenValidator), middleware.RequireRole(role)}
		if cfg.RateLimit > 0 {
			limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
			guard = append(guard, limiter.UserRateLimit())
		}
		return guard
	case cfg.EnableAuth && len(cfg.APIKeys) > 0:
		return []gin.HandlerFunc{middleware.APIKeyAuth(cfg.APIKeys)}
	default:
		return nil
	}
}
