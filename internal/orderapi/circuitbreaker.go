package orderapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/guttosm/print-order-service/internal/circuitbreaker"
	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/metrics"
	"github.com/guttosm/print-order-service/internal/ordering"
)

// IsUpstreamFailure reports whether err means the order API is unhealthy.
// Requests it rejected and calls abandoned by the caller do not count.
func IsUpstreamFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Rejected() {
		return false
	}
	return true
}

// NewCircuitBreaker builds a breaker for the order API that ignores rejected
// requests and publishes its state as a metric.
func NewCircuitBreaker(cfg circuitbreaker.Config) *circuitbreaker.CircuitBreaker {
	cfg.IsFailure = IsUpstreamFailure
	cfg.OnStateChange = func(name string, _, to circuitbreaker.State) {
		metrics.SetCircuitBreakerState(name, int(to))
	}
	metrics.SetCircuitBreakerState(cfg.Name, int(circuitbreaker.StateClosed))
	return circuitbreaker.New(cfg)
}

// ClientWithCircuitBreaker wraps an API with circuit breaker protection.
type ClientWithCircuitBreaker struct {
	api            API
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewClientWithCircuitBreaker creates a new API wrapper with circuit breaker.
func NewClientWithCircuitBreaker(api API, cb *circuitbreaker.CircuitBreaker) *ClientWithCircuitBreaker {
	return &ClientWithCircuitBreaker{
		api:            api,
		circuitBreaker: cb,
	}
}

// openAs tags a rejection by the open circuit with the operation's error kind.
func openAs(err, kind error) error {
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return fmt.Errorf("%w: %w", kind, err)
	}
	return err
}

// UploadDocument uploads a document with circuit breaker protection.
func (c *ClientWithCircuitBreaker) UploadDocument(ctx context.Context, upload ordering.Upload) (model.DocumentInfo, error) {
	var result model.DocumentInfo
	err := c.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = c.api.UploadDocument(ctx, upload)
		return cbErr
	})
	return result, openAs(err, ordering.ErrUpload)
}

// ConfirmPrice confirms a price with circuit breaker protection.
func (c *ClientWithCircuitBreaker) ConfirmPrice(ctx context.Context, input model.PricingInput) (model.PriceBreakdown, error) {
	var result model.PriceBreakdown
	err := c.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = c.api.ConfirmPrice(ctx, input)
		return cbErr
	})
	return result, openAs(err, ordering.ErrPriceConfirmation)
}

// SubmitOrder submits an order with circuit breaker protection.
func (c *ClientWithCircuitBreaker) SubmitOrder(ctx context.Context, snapshot ordering.DraftSnapshot) (model.Submission, error) {
	var result model.Submission
	err := c.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = c.api.SubmitOrder(ctx, snapshot)
		return cbErr
	})
	return result, openAs(err, ordering.ErrSubmission)
}

// CheckPaymentStatus checks a payment with circuit breaker protection.
func (c *ClientWithCircuitBreaker) CheckPaymentStatus(ctx context.Context, reference string) (model.PaymentResult, error) {
	var result model.PaymentResult
	err := c.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = c.api.CheckPaymentStatus(ctx, reference)
		return cbErr
	})
	return result, openAs(err, ordering.ErrPaymentCheck)
}

// GetOrderByNumber fetches an order with circuit breaker protection.
func (c *ClientWithCircuitBreaker) GetOrderByNumber(ctx context.Context, orderNumber string) (model.Order, error) {
	var result model.Order
	err := c.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = c.api.GetOrderByNumber(ctx, orderNumber)
		return cbErr
	})
	return result, err
}

// ListOrders lists orders with circuit breaker protection.
func (c *ClientWithCircuitBreaker) ListOrders(ctx context.Context, limit int) ([]model.Order, error) {
	var result []model.Order
	err := c.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = c.api.ListOrders(ctx, limit)
		return cbErr
	})
	return result, err
}

// OrderStats fetches dashboard aggregates with circuit breaker protection.
func (c *ClientWithCircuitBreaker) OrderStats(ctx context.Context) (model.OrderStats, error) {
	var result model.OrderStats
	err := c.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = c.api.OrderStats(ctx)
		return cbErr
	})
	return result, err
}

// PendingPrints lists the print queue with circuit breaker protection.
func (c *ClientWithCircuitBreaker) PendingPrints(ctx context.Context) ([]model.Order, error) {
	var result []model.Order
	err := c.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = c.api.PendingPrints(ctx)
		return cbErr
	})
	return result, err
}

// UpdateOrderStatus changes an order status with circuit breaker protection.
func (c *ClientWithCircuitBreaker) UpdateOrderStatus(ctx context.Context, orderNumber string, status model.OrderStatus) error {
	return c.circuitBreaker.Execute(ctx, func() error {
		return c.api.UpdateOrderStatus(ctx, orderNumber, status)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (c *ClientWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return c.circuitBreaker
}
