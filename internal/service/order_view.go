package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/logger"
	"github.com/guttosm/print-order-service/internal/metrics"
	"github.com/guttosm/print-order-service/internal/ordering"
)

// ErrStatusChange is returned when an order cannot move to the requested status.
var ErrStatusChange = errors.New("order status change not allowed")

// StatusChangeError describes a refused status change.
type StatusChangeError struct {
	OrderNumber string
	From        model.OrderStatus
	To          model.OrderStatus
}

func (e *StatusChangeError) Error() string {
	return fmt.Sprintf("%v: order %s is %s, cannot become %s", ErrStatusChange, e.OrderNumber, e.From, e.To)
}

func (e *StatusChangeError) Is(target error) bool { return target == ErrStatusChange }

var statusTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending:    {model.OrderStatusProcessing, model.OrderStatusCancelled, model.OrderStatusFailed},
	model.OrderStatusProcessing: {model.OrderStatusCompleted, model.OrderStatusFailed, model.OrderStatusCancelled},
}

// CanChangeStatus reports whether an admin may move an order from one status
// to another. Terminal statuses never change.
func CanChangeStatus(from, to model.OrderStatus) bool {
	return slices.Contains(statusTransitions[from], to)
}

// OrderListQuery selects and orders the admin order list.
type OrderListQuery struct {
	Filters model.OrderFilters
	Sorting model.OrderSorting
	Limit   int
}

// OrderViewService backs the admin console.
type OrderViewService interface {
	List(ctx context.Context, q OrderListQuery) ([]model.Order, error)
	Stats(ctx context.Context) (model.OrderStats, error)
	PrintQueue(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderNumber string, status model.OrderStatus) (model.Order, error)
}

// OrderViewOption configures an OrderViewServiceImpl.
type OrderViewOption func(*OrderViewServiceImpl)

// WithOrderViewClock overrides time.Now for date ranges and statistics.
func WithOrderViewClock(clock func() time.Time) OrderViewOption {
	return func(s *OrderViewServiceImpl) {
		if clock != nil {
			s.now = clock
		}
	}
}

// OrderViewServiceImpl implements OrderViewService over the order API.
type OrderViewServiceImpl struct {
	admin  ordering.AdminOrders
	lookup ordering.OrderLookup
	now    func() time.Time
}

// NewOrderViewService creates the admin order view.
func NewOrderViewService(admin ordering.AdminOrders, lookup ordering.OrderLookup, opts ...OrderViewOption) *OrderViewServiceImpl {
	s := &OrderViewServiceImpl{
		admin:  admin,
		lookup: lookup,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List fetches orders and applies the query's filters and sorting.
func (s *OrderViewServiceImpl) List(ctx context.Context, q OrderListQuery) ([]model.Order, error) {
	sorting := q.Sorting
	if sorting.Field == "" {
		sorting = model.DefaultOrderSorting
	}
	if _, ok := orderSortKeys[sorting.Field]; !ok {
		return nil, unknownSortField(sorting.Field)
	}

	orders, err := s.admin.ListOrders(ctx, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	filtered := FilterOrders(orders, q.Filters, s.now())
	if err := SortOrders(filtered, sorting); err != nil {
		return nil, err
	}
	return filtered, nil
}

// Stats returns the order API's dashboard aggregates. When the order API
// has no statistics endpoint they are computed from the order list instead,
// which only covers the orders the list returns.
func (s *OrderViewServiceImpl) Stats(ctx context.Context) (model.OrderStats, error) {
	stats, err := s.admin.OrderStats(ctx)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, ordering.ErrStatsUnsupported) {
		return model.OrderStats{}, fmt.Errorf("order stats: %w", err)
	}

	log := logger.Logger()
	log.Warn().Err(err).Msg("Computing order stats from the order list")

	orders, err := s.admin.ListOrders(ctx, 0)
	if err != nil {
		return model.OrderStats{}, fmt.Errorf("order stats: %w", err)
	}
	return ComputeOrderStats(orders, s.now()), nil
}

// PrintQueue returns the orders waiting to be printed, oldest first.
func (s *OrderViewServiceImpl) PrintQueue(ctx context.Context) ([]model.Order, error) {
	orders, err := s.admin.PendingPrints(ctx)
	if err != nil {
		return nil, fmt.Errorf("print queue: %w", err)
	}
	return BuildPrintQueue(orders), nil
}

// UpdateStatus moves an order to status when the transition table allows it
// and returns the order as it is now.
func (s *OrderViewServiceImpl) UpdateStatus(ctx context.Context, orderNumber string, status model.OrderStatus) (model.Order, error) {
	order, err := s.lookup.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return model.Order{}, fmt.Errorf("update status: %w", err)
	}

	from := order.Status
	if !CanChangeStatus(from, status) {
		metrics.RecordOrderStatusChange(string(from), string(status), "refused")
		return model.Order{}, &StatusChangeError{OrderNumber: orderNumber, From: from, To: status}
	}

	if err := s.admin.UpdateOrderStatus(ctx, orderNumber, status); err != nil {
		metrics.RecordOrderStatusChange(string(from), string(status), "error")
		return model.Order{}, fmt.Errorf("update status: %w", err)
	}
	metrics.RecordOrderStatusChange(string(from), string(status), "success")

	log := logger.Logger()
	log.Info().
		Str("order_number", orderNumber).
		Str("from", string(from)).
		Str("to", string(status)).
		Msg("Order status changed")

	order.Status = status
	order.UpdatedAt = s.now()
	return order, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FilterOrders returns the orders matching f. Date ranges are relative to the
// start of now's day: thisWeek covers the last 7 days and thisMonth the last
// calendar month.
func FilterOrders(orders []model.Order, f model.OrderFilters, now time.Time) []model.Order {
	today := startOfDay(now)
	term := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if !inDateRange(o.CreatedAt.In(now.Location()), f.DateRange, today) {
			continue
		}
		if term != "" && !matchesSearch(o, term) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func inDateRange(created time.Time, r model.DateRange, today time.Time) bool {
	switch r {
	case model.DateRangeToday:
		return !created.Before(today)
	case model.DateRangeYesterday:
		return !created.Before(today.AddDate(0, 0, -1)) && created.Before(today)
	case model.DateRangeThisWeek:
		return !created.Before(today.AddDate(0, 0, -7))
	case model.DateRangeThisMonth:
		return !created.Before(today.AddDate(0, -1, 0))
	default:
		return true
	}
}

func matchesSearch(o model.Order, term string) bool {
	for _, field := range []string{o.OrderNumber, o.FileName, o.Customer.Name, o.Customer.Email} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

type orderCompare func(a, b model.Order) int

func compareText(a, b string) int {
	return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
}

func paymentDate(o model.Order) time.Time {
	if o.Payment.Date == nil {
		return time.Time{}
	}
	return *o.Payment.Date
}

var orderSortKeys = map[string]orderCompare{
	"order_number":     func(a, b model.Order) int { return compareText(a.OrderNumber, b.OrderNumber) },
	"file_name":        func(a, b model.Order) int { return compareText(a.FileName, b.FileName) },
	"userInfo.name":    func(a, b model.Order) int { return compareText(a.Customer.Name, b.Customer.Name) },
	"userInfo.email":   func(a, b model.Order) int { return compareText(a.Customer.Email, b.Customer.Email) },
	"order_status":     func(a, b model.Order) int { return cmp.Compare(a.Status, b.Status) },
	"payment.status":   func(a, b model.Order) int { return cmp.Compare(a.Payment.Status, b.Payment.Status) },
	"created_at":       func(a, b model.Order) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"updated_at":       func(a, b model.Order) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
	"payment.date":     func(a, b model.Order) int { return paymentDate(a).Compare(paymentDate(b)) },
	"total_price":      func(a, b model.Order) int { return a.TotalPrice.Cmp(b.TotalPrice) },
	"page_count":       func(a, b model.Order) int { return cmp.Compare(a.PageCount, b.PageCount) },
	"monochrome_pages": func(a, b model.Order) int { return cmp.Compare(a.MonochromePages, b.MonochromePages) },
	"color_pages":      func(a, b model.Order) int { return cmp.Compare(a.ColorPages, b.ColorPages) },
}

func unknownSortField(field string) error {
	return model.NewValidationError("sort", fmt.Sprintf("unknown sort field %q", field))
}

// SortOrders sorts orders in place. Equal keys keep their relative order.
func SortOrders(orders []model.Order, s model.OrderSorting) error {
	compare, ok := orderSortKeys[s.Field]
	if !ok {
		return unknownSortField(s.Field)
	}
	switch s.Direction {
	case model.SortAsc, "":
	case model.SortDesc:
		asc := compare
		compare = func(a, b model.Order) int { return asc(b, a) }
	default:
		return model.NewValidationError("direction", fmt.Sprintf("unknown sort direction %q", s.Direction))
	}
	slices.SortStableFunc(orders, compare)
	return nil
}

// ComputeOrderStats counts orders per status and per day over the last 7 days,
// sums the revenue of paid orders and counts orders created today.
func ComputeOrderStats(orders []model.Order, now time.Time) model.OrderStats {
	today := startOfDay(now)
	firstDay := today.AddDate(0, 0, -6)

	byStatus := make(map[model.OrderStatus]int, len(model.OrderStatuses))
	byDay := make(map[string]int, 7)
	stats := model.OrderStats{TotalRevenue: decimal.Zero}

	for _, o := range orders {
		byStatus[o.Status]++
		created := o.CreatedAt.In(now.Location())
		if !created.Before(firstDay) {
			byDay[created.Format(time.DateOnly)]++
		}
		if !created.Before(today) {
			stats.TodayOrders++
		}
		if o.IsPaid() {
			stats.TotalRevenue = stats.TotalRevenue.Add(o.TotalPrice)
		}
	}

	stats.StatusCounts = make([]model.StatusCount, 0, len(model.OrderStatuses))
	for _, status := range model.OrderStatuses {
		stats.StatusCounts = append(stats.StatusCounts, model.StatusCount{Status: status, Count: byStatus[status]})
	}
	stats.DailyCounts = make([]model.DailyCount, 0, 7)
	for day := firstDay; !day.After(today); day = day.AddDate(0, 0, 1) {
		key := day.Format(time.DateOnly)
		stats.DailyCounts = append(stats.DailyCounts, model.DailyCount{Date: key, Count: byDay[key]})
	}
	return stats
}

// BuildPrintQueue keeps paid orders that are pending or processing, oldest
// first.
func BuildPrintQueue(orders []model.Order) []model.Order {
	queue := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if !o.IsPaid() {
			continue
		}
		if o.Status == model.OrderStatusPending || o.Status == model.OrderStatusProcessing {
			queue = append(queue, o)
		}
	}
	slices.SortStableFunc(queue, func(a, b model.Order) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return queue
}
