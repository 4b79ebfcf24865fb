package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment status of a submitted order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusFailed     OrderStatus = "failed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every order status in display order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusFailed,
	OrderStatusCancelled,
}

// ParseOrderStatus converts a raw value into an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range OrderStatuses {
		if status == known {
			return status, nil
		}
	}
	return "", NewValidationError("status", fmt.Sprintf("unknown order status %q", s))
}

// IsTerminal reports whether no further status change is allowed.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusFailed, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// PaymentStatus is the state of a payment transaction.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// ParsePaymentStatus converts a raw value into a PaymentStatus. Gateways
// report success with several spellings; they all map to completed.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "ongoing", "processing":
		return PaymentPending, nil
	case "completed", "success", "successful", "paid":
		return PaymentCompleted, nil
	case "failed", "abandoned", "reversed", "cancelled":
		return PaymentFailed, nil
	default:
		return "", fmt.Errorf("unknown payment status %q", s)
	}
}

// Payment is the payment record attached to an order.
type Payment struct {
	Reference string        `json:"reference"`
	Status    PaymentStatus `json:"status"`
	Method    string        `json:"method,omitempty"`
	Date      *time.Time    `json:"date,omitempty"`
}

// Order is the order API's read model, used for tracking and the admin views.
//
// @Description Submitted print order
type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"order_number" example:"PRN-20261018-0042"`
	FileID          string          `json:"file_id"`
	FileName        string          `json:"file_name"`
	PageCount       int             `json:"page_count"`
	ColorPages      int             `json:"color_pages"`
	MonochromePages int             `json:"monochrome_pages"`
	PrintColor      ColorMode       `json:"print_color"`
	Binding         BindingMethod   `json:"binding"`
	CampusDelivery  bool            `json:"campus_delivery"`
	TotalPrice      decimal.Decimal `json:"total_price" swaggertype:"string" example:"20.00"`
	Status          OrderStatus     `json:"order_status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Customer        CustomerInfo    `json:"userInfo"`
	Payment         Payment         `json:"payment"`
} // @name Order

// IsPaid reports whether the order's payment has completed.
func (o Order) IsPaid() bool {
	return o.Payment.Status == PaymentCompleted
}

// DateRange selects orders by creation date.
type DateRange string

const (
	DateRangeAll       DateRange = "all"
	DateRangeToday     DateRange = "today"
	DateRangeYesterday DateRange = "yesterday"
	DateRangeThisWeek  DateRange = "thisWeek"
	DateRangeThisMonth DateRange = "thisMonth"
)

// ParseDateRange converts a raw value into a DateRange. Empty means all.
func ParseDateRange(s string) (DateRange, error) {
	switch r := DateRange(strings.TrimSpace(s)); r {
	case "":
		return DateRangeAll, nil
	case DateRangeAll, DateRangeToday, DateRangeYesterday, DateRangeThisWeek, DateRangeThisMonth:
		return r, nil
	default:
		return "", NewValidationError("dateRange", fmt.Sprintf("unknown date range %q", s))
	}
}

// OrderFilters narrows the admin order list. An empty Status matches every
// status.
type OrderFilters struct {
	Status    OrderStatus
	DateRange DateRange
	Search    string
}

// SortDirection orders a sorted list.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// OrderSorting selects the sort key of the admin order list.
type OrderSorting struct {
	Field     string
	Direction SortDirection
}

// DefaultOrderSorting lists the newest orders first.
var DefaultOrderSorting = OrderSorting{Field: "created_at", Direction: SortDesc}

// StatusCount is the number of orders in one status.
type StatusCount struct {
	Status OrderStatus `json:"order_status"`
	Count  int         `json:"count"`
} // @name StatusCount

// DailyCount is the number of orders created on one day.
type DailyCount struct {
	Date  string `json:"date" example:"2026-10-18"`
	Count int    `json:"count"`
} // @name DailyCount

// OrderStats summarizes a list of orders for the admin dashboard.
type OrderStats struct {
	StatusCounts []StatusCount   `json:"statusCounts"`
	DailyCounts  []DailyCount    `json:"dailyCounts"`
	TotalRevenue decimal.Decimal `json:"totalRevenue" swaggertype:"string" example:"240.00"`
	TodayOrders  int             `json:"todayOrders"`
} // @name OrderStats
