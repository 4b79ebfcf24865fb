package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/print-order-service/internal/middleware"
)

// paymentCheckRate is how many payment checks one session may make per
// minute. The order page polls while the customer pays.
const paymentCheckRate = 30

// StorefrontRoutes registers the customer-facing routes: pricing, order
// sessions and order tracking.
type StorefrontRoutes struct {
	pricing  *PricingHandler
	sessions *SessionHandler
	orders   *OrderHandler
}

// NewStorefrontRoutes builds the handlers for the services present in cfg.
func NewStorefrontRoutes(cfg *RouterConfig) *StorefrontRoutes {
	r := &StorefrontRoutes{}
	if cfg.PriceTables != nil {
		r.pricing = NewPricingHandler(cfg.PriceTables)
	}
	if cfg.Sessions != nil {
		r.sessions = NewSessionHandler(cfg.Sessions, cfg.MaxUploadBytes)
	}
	if cfg.OrderLookup != nil {
		r.orders = NewOrderHandler(cfg.OrderLookup)
	}
	return r
}

// RegisterRoutes implements RouteGroup.
func (r *StorefrontRoutes) RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	if r.pricing != nil {
		pricing := rg.Group("/pricing")
		pricing.GET("/table", r.pricing.GetPriceTable)
		pricing.POST("/quote", r.pricing.Quote)
	}

	if r.sessions != nil {
		r.registerSessionRoutes(rg.Group("/sessions"), cfg)
	}

	if r.orders != nil {
		rg.GET("/orders/:orderNumber", r.orders.GetOrder)
	}
}

func (r *StorefrontRoutes) registerSessionRoutes(sessions *gin.RouterGroup, cfg *RouterConfig) {
	h := r.sessions

	sessions.POST("", h.Start)
	sessions.GET("/:id", h.Get)
	sessions.DELETE("/:id", h.Discard)

	sessions.POST("/:id/document", h.UploadDocument)
	sessions.PUT("/:id/document", h.SetDocument)
	sessions.PATCH("/:id/options", h.UpdateOptions)
	sessions.POST("/:id/proceed", h.Proceed)
	sessions.PUT("/:id/customer", h.SubmitCustomerInfo)
	sessions.POST("/:id/back", h.Back)
	sessions.POST("/:id/submit", cfg.idempotency(), h.Submit)
	sessions.POST("/:id/payment/cancel", h.CancelPayment)
	sessions.POST("/:id/reset", h.Reset)
	sessions.GET("/:id/receipt", h.Receipt)

	checkLimiter := middleware.NewRateLimiter(paymentCheckRate, time.Minute)
	sessions.POST("/:id/payment/check", checkLimiter.SessionRateLimit(), h.CheckPayment)
}
