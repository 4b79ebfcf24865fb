package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/print-order-service/internal/domain/dto"
	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/i18n"
	"github.com/guttosm/print-order-service/internal/middleware"
	"github.com/guttosm/print-order-service/internal/ordering"
	"github.com/guttosm/print-order-service/internal/service"
)

// OrderHandler lets customers look up a submitted order.
type OrderHandler struct {
	lookup ordering.OrderLookup
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(lookup ordering.OrderLookup) *OrderHandler {
	return &OrderHandler{lookup: lookup}
}

// GetOrder handles GET /api/orders/{orderNumber} requests.
//
// @Summary      Look up an order
// @Tags         Orders
// @Produce      json
// @Param        orderNumber path string true "Order number"
// @Success      200 {object} dto.SuccessResponse{data=model.Order} "Order"
// @Failure      404 {object} dto.ErrorResponse "Order not found"
// @Failure      503 {object} dto.ErrorResponse "Order API unavailable"
// @Router       /api/orders/{orderNumber} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	number := c.Param("orderNumber")
	c.Set(middleware.ContextKeyOrderNumber, number)

	order, err := h.lookup.GetOrderByNumber(c.Request.Context(), number)
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(order)
}

// AdminOrderHandler serves the print desk's order console.
type AdminOrderHandler struct {
	views service.OrderViewService
}

// NewAdminOrderHandler creates a new AdminOrderHandler.
func NewAdminOrderHandler(views service.OrderViewService) *AdminOrderHandler {
	return &AdminOrderHandler{views: views}
}

// ListOrders handles GET /api/admin/orders requests.
//
// @Summary      List orders
// @Description  Lists orders filtered by status, creation date range and a search term, sorted by any column. Defaults to newest first.
// @Tags         Admin
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        status query string false "Order status, or all" Enums(all,pending,processing,completed,failed,cancelled)
// @Param        dateRange query string false "Creation date range" Enums(all,today,yesterday,thisWeek,thisMonth)
// @Param        search query string false "Matches order number, customer name, email and file name"
// @Param        sort query string false "Sort column" Enums(order_number,file_name,userInfo.name,userInfo.email,order_status,payment.status,created_at,updated_at,payment.date,total_price,page_count,monochrome_pages,color_pages)
// @Param        direction query string false "Sort direction" Enums(asc,desc)
// @Param        limit query int false "Orders fetched from the order API"
// @Success      200 {object} dto.SuccessResponse{data=dto.OrderListResponse} "Orders"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid filter"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - insufficient permissions"
// @Failure      503 {object} dto.ErrorResponse "Order API unavailable"
// @Security     BearerAuth
// @Router       /api/admin/orders [get]
func (h *AdminOrderHandler) ListOrders(c *gin.Context) {
	var params dto.OrderListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		NewResponseBuilder(c).Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}
	filters, sorting, limit, err := params.Parse()
	if err != nil {
		respondError(c, err)
		return
	}

	orders, err := h.views.List(c.Request.Context(), service.OrderListQuery{
		Filters: filters,
		Sorting: sorting,
		Limit:   limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(dto.NewOrderListResponse(orders))
}

// Stats handles GET /api/admin/orders/stats requests.
//
// @Summary      Order statistics
// @Description  Returns order counts per status, today's orders and the revenue of completed orders.
// @Tags         Admin
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Success      200 {object} dto.SuccessResponse{data=model.OrderStats} "Statistics"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - insufficient permissions"
// @Failure      503 {object} dto.ErrorResponse "Order API unavailable"
// @Security     BearerAuth
// @Router       /api/admin/orders/stats [get]
func (h *AdminOrderHandler) Stats(c *gin.Context) {
	stats, err := h.views.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(stats)
}

// PrintQueue handles GET /api/admin/print-queue requests.
//
// @Summary      Print queue
// @Description  Lists paid orders waiting to be printed, oldest payment first.
// @Tags         Admin
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Success      200 {object} dto.SuccessResponse{data=dto.OrderListResponse} "Print queue"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - insufficient permissions"
// @Failure      503 {object} dto.ErrorResponse "Order API unavailable"
// @Security     BearerAuth
// @Router       /api/admin/print-queue [get]
func (h *AdminOrderHandler) PrintQueue(c *gin.Context) {
	orders, err := h.views.PrintQueue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(dto.NewOrderListResponse(orders))
}

// UpdateStatus handles PUT /api/admin/orders/{orderNumber}/status requests.
//
// @Summary      Change an order's status
// @Description  Moves an order along pending, processing and completed, or to failed or cancelled. Completed, failed and cancelled orders cannot change. Supports idempotency via Idempotency-Key header.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        orderNumber path string true "Order number"
// @Param        request body dto.UpdateOrderStatusRequest true "New status"
// @Success      200 {object} dto.SuccessResponse{data=model.Order} "Updated order"
// @Failure      400 {object} dto.ErrorResponse "Unknown status"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - insufficient permissions"
// @Failure      404 {object} dto.ErrorResponse "Order not found"
// @Failure      409 {object} dto.ErrorResponse "Status change not allowed"
// @Failure      503 {object} dto.ErrorResponse "Order API unavailable"
// @Security     BearerAuth
// @Router       /api/admin/orders/{orderNumber}/status [put]
func (h *AdminOrderHandler) UpdateStatus(c *gin.Context) {
	number := c.Param("orderNumber")
	c.Set(middleware.ContextKeyOrderNumber, number)

	req, ok := bindJSON[dto.UpdateOrderStatusRequest](c)
	if !ok {
		return
	}
	status, err := req.OrderStatus()
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := h.views.UpdateStatus(c.Request.Context(), number, status)
	audit(c, model.ActionOrderStatusUpdate, "Order status changed", err, map[string]interface{}{
		"status": string(status),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(order)
}
