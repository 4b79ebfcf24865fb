package dto

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/ordering"
)

func TestNewError(t *testing.T) {
	resp := NewError(ErrCodeInvalidRequest, "test message").
		WithRequestID("test-id").
		WithDetails(map[string]string{"email": "is invalid"})

	assert.Equal(t, ErrCodeInvalidRequest, resp.Error)
	assert.Equal(t, "test message", resp.Message)
	assert.Equal(t, "test-id", resp.RequestID)
	assert.Equal(t, "is invalid", resp.Details["email"])
	assert.WithinDuration(t, time.Now(), resp.Timestamp, time.Second)
}

func TestErrCodeFromStatus(t *testing.T) {
	tests := []struct {
		status       int
		expectedCode string
	}{
		{http.StatusBadRequest, ErrCodeInvalidRequest},
		{http.StatusUnauthorized, ErrCodeUnauthorized},
		{http.StatusForbidden, ErrCodeForbidden},
		{http.StatusNotFound, ErrCodeNotFound},
		{http.StatusConflict, ErrCodeConflict},
		{http.StatusUnprocessableEntity, ErrCodeUnprocessable},
		{http.StatusTooManyRequests, ErrCodeRateLimit},
		{http.StatusInternalServerError, ErrCodeInternal},
		{http.StatusBadGateway, ErrCodeUpstream},
		{http.StatusServiceUnavailable, ErrCodeUnavailable},
		{http.StatusGatewayTimeout, ErrCodeTimeout},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expectedCode, ErrCodeFromStatus(tt.status))
		})
	}
}

func TestNewSessionResponse(t *testing.T) {
	priced := model.NewPriceBreakdown(decimal.NewFromInt(10), decimal.NewFromInt(5), decimal.Zero)
	frozen := model.NewPriceBreakdown(decimal.RequireFromString("12.5"), decimal.Zero, decimal.Zero)

	tests := []struct {
		name          string
		draft         model.OrderDraft
		expectedTotal string
	}{
		{name: "unpriced draft has no total", draft: model.NewOrderDraft()},
		{
			name:          "priced draft",
			draft:         model.OrderDraft{PriceBreakdown: &priced},
			expectedTotal: "GHC 15.00",
		},
		{
			name:          "submitted price wins",
			draft:         model.OrderDraft{PriceBreakdown: &priced, Submission: &model.Submission{Breakdown: frozen}},
			expectedTotal: "GHC 12.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := ordering.Snapshot{Step: ordering.StepReview, Draft: tt.draft}

			resp := NewSessionResponse("s-1", snap, "GHC")

			assert.Equal(t, "s-1", resp.SessionID)
			assert.Equal(t, "review", resp.Step)
			assert.Equal(t, tt.expectedTotal, resp.Total)
		})
	}
}

func TestNewQuoteResponse(t *testing.T) {
	b := model.NewPriceBreakdown(decimal.NewFromInt(13), decimal.NewFromInt(5), decimal.NewFromInt(2))

	resp := NewQuoteResponse(b, "GHC")

	assert.Equal(t, "GHC 20.00", resp.Total)
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"total_cost":"20"`)
}

func TestNewOrderListResponse(t *testing.T) {
	raw, err := json.Marshal(NewOrderListResponse(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"orders":[],"count":0}`, string(raw))

	resp := NewOrderListResponse([]model.Order{{OrderNumber: "A"}, {OrderNumber: "B"}})
	assert.Equal(t, 2, resp.Count)
}
