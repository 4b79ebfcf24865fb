package dto

import (
	"net/http"
	"time"

	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/format"
	"github.com/guttosm/print-order-service/internal/ordering"
)

const (
	// ErrCodeInvalidRequest indicates an invalid request.
	ErrCodeInvalidRequest = "invalid_request"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"
	// ErrCodeUnauthorized indicates missing or invalid authentication.
	ErrCodeUnauthorized = "unauthorized"
	// ErrCodeForbidden indicates insufficient permissions.
	ErrCodeForbidden = "forbidden"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound = "not_found"
	// ErrCodeRateLimit indicates rate limit exceeded.
	ErrCodeRateLimit = "rate_limit_exceeded"
	// ErrCodeConflict indicates a conflict with current state.
	ErrCodeConflict = "conflict"
	// ErrCodeTimeout indicates a request timeout.
	ErrCodeTimeout = "timeout"
	// ErrCodeUnprocessable indicates a well-formed request the service could not act on.
	ErrCodeUnprocessable = "unprocessable"
	// ErrCodeUpstream indicates the order API failed.
	ErrCodeUpstream = "upstream_error"
	// ErrCodeUnavailable indicates a dependency is temporarily unavailable.
	ErrCodeUnavailable = "service_unavailable"
)

// SuccessResponse wraps successful API responses with metadata.
// @Description Successful API response wrapper
type SuccessResponse struct {
	// Data is the endpoint's payload, e.g. a SessionResponse or QuoteResponse.
	Data      interface{} `json:"data" swaggertype:"object"`
	RequestID string      `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time   `json:"timestamp" example:"2026-10-18T10:00:00Z"`
} // @name SuccessResponse

// ErrorResponse represents a standardized error response for the API.
// @Description Standardized error response
type ErrorResponse struct {
	Error     string            `json:"error" example:"invalid_request"`
	Message   string            `json:"message,omitempty" example:"Request validation failed"`
	// Details maps each invalid field to its problem.
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2026-10-18T10:00:00Z"`
	TraceID   string            `json:"trace_id,omitempty" example:"trace-123"`
} // @name ErrorResponse

// NewError creates a new ErrorResponse with the given code and message.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithRequestID adds a request ID to the error response.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// WithDetails attaches per-field problems to the error response.
func (e ErrorResponse) WithDetails(details map[string]string) ErrorResponse {
	e.Details = details
	return e
}

// ErrCodeFromStatus returns the appropriate error code for an HTTP status.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusUnprocessableEntity:
		return ErrCodeUnprocessable
	case http.StatusBadGateway:
		return ErrCodeUpstream
	case http.StatusServiceUnavailable:
		return ErrCodeUnavailable
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrCodeTimeout
	default:
		return ErrCodeInternal
	}
}

// SessionResponse is the state of one order session.
//
// @Description Order session snapshot
type SessionResponse struct {
	SessionID string           `json:"session_id" example:"3f2b8c1e-7a4d-4e7b-9c1a-2d5e6f708192"`
	Step      string           `json:"step" example:"user_info" enums:"upload,user_info,review,payment,confirmation"`
	Draft     model.OrderDraft `json:"draft"`
	InFlight  bool             `json:"in_flight"`
	// Total is the draft's price formatted for display, empty until priced.
	Total     string           `json:"total,omitempty" example:"GHC 20.00"`
	UpdatedAt time.Time        `json:"updated_at"`
} // @name SessionResponse

// NewSessionResponse renders a machine snapshot.
func NewSessionResponse(id string, snap ordering.Snapshot, currency string) SessionResponse {
	resp := SessionResponse{
		SessionID: id,
		Step:      snap.Step.String(),
		Draft:     snap.Draft,
		InFlight:  snap.InFlight,
		UpdatedAt: snap.UpdatedAt,
	}
	switch {
	case snap.Draft.Submission != nil:
		resp.Total = format.Currency(snap.Draft.Submission.Breakdown.TotalCost, currency)
	case snap.Draft.PriceBreakdown != nil:
		resp.Total = format.Currency(snap.Draft.PriceBreakdown.TotalCost, currency)
	}
	return resp
}

// QuoteResponse is a computed price.
//
// @Description Price quote
type QuoteResponse struct {
	Breakdown model.PriceBreakdown `json:"breakdown"`
	Currency  string               `json:"currency" example:"GHC"`
	Total     string               `json:"total" example:"GHC 20.00"`
} // @name QuoteResponse

// NewQuoteResponse renders a breakdown in the given currency.
func NewQuoteResponse(b model.PriceBreakdown, currency string) QuoteResponse {
	return QuoteResponse{
		Breakdown: b,
		Currency:  currency,
		Total:     format.Currency(b.TotalCost, currency),
	}
}

// PaymentCheckResponse is the outcome of a payment status check together
// with the session state it led to.
//
// @Description Payment check outcome
type PaymentCheckResponse struct {
	Payment model.PaymentResult `json:"payment"`
	Session SessionResponse     `json:"session"`
} // @name PaymentCheckResponse

// OrderListResponse is a page of admin orders.
//
// @Description Admin order list
type OrderListResponse struct {
	Orders []model.Order `json:"orders"`
	Count  int           `json:"count" example:"12"`
} // @name OrderListResponse

// NewOrderListResponse wraps orders, never rendering a null list.
func NewOrderListResponse(orders []model.Order) OrderListResponse {
	if orders == nil {
		orders = []model.Order{}
	}
	return OrderListResponse{Orders: orders, Count: len(orders)}
}
