// Package metrics provides Prometheus metrics collection for the print order service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// PriceComputationsTotal counts breakdown computations by page composition and outcome.
	PriceComputationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_computations_total",
			Help: "Total number of price breakdown computations",
		},
		[]string{"composition", "status"},
	)

	// PriceComputationDuration tracks how long a breakdown takes to compute.
	PriceComputationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "price_computation_duration_seconds",
			Help:    "Price breakdown computation duration in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
	)

	// PriceReconciliationsTotal counts server price confirmations by outcome.
	PriceReconciliationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_reconciliations_total",
			Help: "Total number of server price confirmations",
		},
		[]string{"result"},
	)

	// FlowTransitionsTotal counts order flow transitions.
	FlowTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_flow_transitions_total",
			Help: "Total number of order flow transition attempts",
		},
		[]string{"from", "to", "result"},
	)

	// OrderAPIRequestsTotal counts calls to the order API.
	OrderAPIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_api_requests_total",
			Help: "Total number of order API calls",
		},
		[]string{"operation", "result"},
	)

	// OrderAPIRequestDuration tracks order API latency.
	OrderAPIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "order_api_request_duration_seconds",
			Help:    "Order API call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// OrderStatusChangesTotal counts admin order status changes.
	OrderStatusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_status_changes_total",
			Help: "Total number of admin order status change attempts",
		},
		[]string{"from", "to", "result"},
	)

	// CircuitBreakerState reports each breaker's state (0 closed, 1 open, 2 half-open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)

	// SessionOperationsTotal tracks session store operations.
	SessionOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_store_operations_total",
			Help: "Total number of session store operations",
		},
		[]string{"operation", "result"},
	)

	// ActiveSessions tracks the number of live order sessions.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "order_sessions_active",
			Help: "Current number of order sessions",
		},
	)

	// SessionCapacity tracks the session store capacity.
	SessionCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "order_sessions_capacity",
			Help: "Order session store capacity",
		},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(time.Since(start).Seconds())
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordPriceComputation records a breakdown computation.
func RecordPriceComputation(duration time.Duration, composition, status string) {
	PriceComputationDuration.Observe(duration.Seconds())
	PriceComputationsTotal.WithLabelValues(composition, status).Inc()
}

// RecordPriceReconciliation records whether the server agreed with the local price.
func RecordPriceReconciliation(matched bool) {
	result := "matched"
	if !matched {
		result = "corrected"
	}
	PriceReconciliationsTotal.WithLabelValues(result).Inc()
}

// RecordFlowTransition records an order flow transition attempt.
func RecordFlowTransition(from, to, result string) {
	FlowTransitionsTotal.WithLabelValues(from, to, result).Inc()
}

// RecordOrderAPICall records an order API call.
func RecordOrderAPICall(operation string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	OrderAPIRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	OrderAPIRequestsTotal.WithLabelValues(operation, result).Inc()
}

// RecordOrderStatusChange records an admin status change attempt.
func RecordOrderStatusChange(from, to, result string) {
	OrderStatusChangesTotal.WithLabelValues(from, to, result).Inc()
}

// SetCircuitBreakerState publishes a circuit breaker's state.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordSessionOperation records a session store operation.
func RecordSessionOperation(operation, result string) {
	SessionOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateSessionMetrics updates session store size and capacity.
func UpdateSessionMetrics(size, capacity int) {
	ActiveSessions.Set(float64(size))
	SessionCapacity.Set(float64(capacity))
}
