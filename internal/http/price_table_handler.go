package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/print-order-service/internal/domain/dto"
	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/i18n"
	"github.com/guttosm/print-order-service/internal/middleware"
	"github.com/guttosm/print-order-service/internal/service"
)

const defaultHistoryLimit = 20

// PriceTableHandler manages price table versions.
type PriceTableHandler struct {
	prices service.PriceTableService
}

// NewPriceTableHandler creates a new PriceTableHandler.
func NewPriceTableHandler(prices service.PriceTableService) *PriceTableHandler {
	return &PriceTableHandler{prices: prices}
}

// Publish handles PUT /api/admin/price-table requests.
//
// @Summary      Publish a price table
// @Description  Stores a new price table version and makes it active. Sessions already in progress keep the version they started with.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        request body dto.PublishPriceTableRequest true "Price table"
// @Success      200 {object} dto.SuccessResponse{data=model.PriceTableRecord} "Published version"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid rates"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - insufficient permissions"
// @Failure      503 {object} dto.ErrorResponse "Price table storage unavailable"
// @Security     BearerAuth
// @Router       /api/admin/price-table [put]
func (h *PriceTableHandler) Publish(c *gin.Context) {
	req, ok := bindJSON[dto.PublishPriceTableRequest](c)
	if !ok {
		return
	}
	table, err := req.PriceTable()
	if err != nil {
		respondError(c, err)
		return
	}

	rec, err := h.prices.Publish(c.Request.Context(), table, middleware.GetUserID(c))
	fields := map[string]interface{}{"operation": "publish"}
	if rec != nil {
		fields["version"] = rec.Table.Version
	}
	audit(c, model.ActionPriceTableUpdate, "Price table published", err, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(rec)
}

// Activate handles POST /api/admin/price-table/{id}/activate requests.
//
// @Summary      Reactivate a price table version
// @Tags         Admin
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        id path string true "Price table version ID"
// @Success      200 {object} dto.SuccessResponse{data=model.PriceTableRecord} "Active version"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - insufficient permissions"
// @Failure      404 {object} dto.ErrorResponse "Version not found"
// @Failure      503 {object} dto.ErrorResponse "Price table storage unavailable"
// @Security     BearerAuth
// @Router       /api/admin/price-table/{id}/activate [post]
func (h *PriceTableHandler) Activate(c *gin.Context) {
	id := c.Param("id")
	rec, err := h.prices.Activate(c.Request.Context(), id, middleware.GetUserID(c))
	audit(c, model.ActionPriceTableUpdate, "Price table activated", err, map[string]interface{}{
		"operation": "activate",
		"id":        id,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(rec)
}

// History handles GET /api/admin/price-table/history requests.
//
// @Summary      List price table versions
// @Tags         Admin
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        limit query int false "Maximum versions returned" default(20)
// @Success      200 {object} dto.SuccessResponse{data=[]model.PriceTableRecord} "Versions, newest first"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid limit"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - insufficient permissions"
// @Failure      503 {object} dto.ErrorResponse "Price table storage unavailable"
// @Security     BearerAuth
// @Router       /api/admin/price-table/history [get]
func (h *PriceTableHandler) History(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			NewResponseBuilder(c).Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
			return
		}
		limit = n
	}

	records, err := h.prices.History(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []model.PriceTableRecord{}
	}
	NewResponseBuilder(c).SuccessOK(records)
}
