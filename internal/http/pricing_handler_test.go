package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/print-order-service/internal/domain/dto"
	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/mocks"
	"github.com/guttosm/print-order-service/internal/service"
)

func pricingRouter(t *testing.T, prices service.PriceTableService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := DefaultRouterConfig()
	cfg.RateLimit = 0
	cfg.PriceTables = prices
	return NewRouter(nil, cfg)
}

func defaultPrices(t *testing.T) service.PriceTableService {
	t.Helper()
	prices, err := service.NewPriceTableService(model.DefaultPriceTable())
	require.NoError(t, err)
	return prices
}

func TestPricingHandler_GetPriceTable(t *testing.T) {
	router := pricingRouter(t, defaultPrices(t))

	w := serve(router, http.MethodGet, "/api/pricing/table", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	table := decodeData[model.PriceTable](t, w)
	assert.Equal(t, "GHC", table.Currency)
	assert.True(t, table.MonochromeRate.Equal(decimal.NewFromInt(1)))
	assert.True(t, table.ColoredRate.Equal(decimal.NewFromInt(2)))
	assert.True(t, table.BindingRates[model.BindingComb].Equal(decimal.NewFromInt(5)))
	assert.True(t, table.DeliveryRate.Equal(decimal.NewFromInt(2)))
}

func TestPricingHandler_Quote(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantBase  int64
		wantTotal string
	}{
		{
			name:      "monochrome pages with comb binding and delivery",
			body:      `{"page_count":10,"print_color":"monochrome","binding":"comb","campus_delivery":true}`,
			wantBase:  10,
			wantTotal: "GHC 17.00",
		},
		{
			name:      "colored pages",
			body:      `{"page_count":10,"print_color":"colored","binding":"none"}`,
			wantBase:  20,
			wantTotal: "GHC 20.00",
		},
		{
			name:      "split pages",
			body:      `{"color_pages":3,"monochrome_pages":7,"binding":"tape"}`,
			wantBase:  13,
			wantTotal: "GHC 16.00",
		},
		{
			name:      "defaults to monochrome without binding",
			body:      `{"page_count":4}`,
			wantBase:  4,
			wantTotal: "GHC 4.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := pricingRouter(t, defaultPrices(t))

			w := serve(router, http.MethodPost, "/api/pricing/quote", tt.body)

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			quote := decodeData[dto.QuoteResponse](t, w)
			assert.Equal(t, "GHC", quote.Currency)
			assert.Equal(t, tt.wantTotal, quote.Total)
			assert.True(t, quote.Breakdown.BaseCost.Equal(decimal.NewFromInt(tt.wantBase)), quote.Breakdown.BaseCost.String())
			sum := quote.Breakdown.BaseCost.Add(quote.Breakdown.BindingCost).Add(quote.Breakdown.DeliveryCost)
			assert.True(t, sum.Equal(quote.Breakdown.TotalCost))
		})
	}
}

func TestPricingHandler_Quote_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "unknown binding", body: `{"page_count":3,"binding":"glue"}`, wantField: "binding"},
		{name: "unknown color mode", body: `{"page_count":3,"print_color":"sepia"}`, wantField: "print_color"},
		{name: "negative page count", body: `{"page_count":-1}`, wantField: "page_count"},
		{name: "negative split pages", body: `{"color_pages":-2,"monochrome_pages":4}`, wantField: "color_pages"},
		{name: "page count disagrees with split", body: `{"page_count":9,"color_pages":3,"monochrome_pages":4}`, wantField: "page_count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := pricingRouter(t, defaultPrices(t))

			w := serve(router, http.MethodPost, "/api/pricing/quote", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			resp := decodeError(t, w)
			assert.Equal(t, dto.ErrCodeInvalidRequest, resp.Error)
			assert.Contains(t, resp.Details, tt.wantField)
		})
	}
}

func TestPricingHandler_Quote_MalformedBody(t *testing.T) {
	router := pricingRouter(t, defaultPrices(t))

	w := serve(router, http.MethodPost, "/api/pricing/quote", `{"page_count":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPricingHandler_Quote_BrokenTable(t *testing.T) {
	prices := &mocks.MockPriceTableService{}
	prices.On("Calculator", mock.Anything).Return(nil, errors.New("decode price table: bad rate"))
	router := pricingRouter(t, prices)

	w := serve(router, http.MethodPost, "/api/pricing/quote", `{"page_count":3}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, dto.ErrCodeInternal, decodeError(t, w).Error)
	prices.AssertExpectations(t)
}
