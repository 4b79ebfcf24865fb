package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/print-order-service/internal/domain/dto"
	"github.com/guttosm/print-order-service/internal/middleware"
	"github.com/guttosm/print-order-service/internal/service"
)

// loggingServiceKey is the gin context key the router stores the audit log
// service under.
const loggingServiceKey = "logging_service"

// auditLogger returns the audit log service of the request, or nil when
// audit logging is disabled.
func auditLogger(c *gin.Context) service.LoggingService {
	if v, exists := c.Get(loggingServiceKey); exists {
		if ls, ok := v.(service.LoggingService); ok {
			return ls
		}
	}
	return nil
}

// audit records a business action, or its failure when err is set.
func audit(c *gin.Context, action, message string, err error, fields map[string]interface{}) {
	ls := auditLogger(c)
	if err != nil {
		middleware.AuditLogError(ls, c, action, message+" failed", err, fields)
		return
	}
	middleware.AuditLog(ls, c, action, message, fields)
}

// PricingHandler serves the public price table and price quotes.
type PricingHandler struct {
	prices service.PriceTableService
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(prices service.PriceTableService) *PricingHandler {
	return &PricingHandler{prices: prices}
}

// GetPriceTable handles GET /api/pricing/table requests.
//
// @Summary      Get the active price table
// @Description  Returns the per-page, binding and delivery rates every new order is priced with.
// @Tags         Pricing
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=model.PriceTable} "Active price table"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/pricing/table [get]
func (h *PricingHandler) GetPriceTable(c *gin.Context) {
	table, err := h.prices.Active(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(table)
}

// Quote handles POST /api/pricing/quote requests.
//
// @Summary      Price a print job
// @Description  Computes the price breakdown of a print job with the active price table. No order or session is created.
// @Tags         Pricing
// @Accept       json
// @Produce      json
// @Param        request body dto.QuoteRequest true "Print job"
// @Success      200 {object} dto.SuccessResponse{data=dto.QuoteResponse} "Price breakdown"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/pricing/quote [post]
func (h *PricingHandler) Quote(c *gin.Context) {
	req, ok := bindJSON[dto.QuoteRequest](c)
	if !ok {
		return
	}
	input, err := req.PricingInput()
	if err != nil {
		respondError(c, err)
		return
	}

	calc, err := h.prices.Calculator(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	breakdown, err := calc.ComputeBreakdown(input)
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(dto.NewQuoteResponse(breakdown, calc.Table().Currency))
}
