package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/mocks"
	"github.com/guttosm/print-order-service/internal/ordering"
	"github.com/guttosm/print-order-service/internal/service"
)

var viewNow = time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC)

func adminOrder(number string, status model.OrderStatus, paid bool, created time.Time, price string) model.Order {
	o := model.Order{
		OrderNumber: number,
		FileName:    number + ".pdf",
		Status:      status,
		CreatedAt:   created,
		UpdatedAt:   created,
		TotalPrice:  decimal.RequireFromString(price),
		Customer:    model.CustomerInfo{Name: "Student " + number, Email: number + "@st.ug.edu.gh"},
		Payment:     model.Payment{Status: model.PaymentPending},
	}
	if paid {
		o.Payment.Status = model.PaymentCompleted
		o.Payment.Date = &created
	}
	return o
}

func orderNumbers(orders []model.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.OrderNumber
	}
	return out
}

func sampleOrders() []model.Order {
	return []model.Order{
		adminOrder("PRN-A", model.OrderStatusPending, true, viewNow.Add(-2*time.Hour), "10"),
		adminOrder("PRN-B", model.OrderStatusCompleted, true, viewNow.AddDate(0, 0, -1), "25.50"),
		adminOrder("PRN-C", model.OrderStatusPending, false, viewNow.AddDate(0, 0, -3), "4"),
		adminOrder("PRN-D", model.OrderStatusProcessing, true, viewNow.AddDate(0, 0, -20), "7.25"),
		adminOrder("PRN-E", model.OrderStatusCancelled, false, viewNow.AddDate(0, -2, 0), "3"),
	}
}

func TestFilterOrders(t *testing.T) {
	tests := []struct {
		name     string
		filters  model.OrderFilters
		expected []string
	}{
		{name: "no filters", filters: model.OrderFilters{}, expected: []string{"PRN-A", "PRN-B", "PRN-C", "PRN-D", "PRN-E"}},
		{name: "status", filters: model.OrderFilters{Status: model.OrderStatusPending}, expected: []string{"PRN-A", "PRN-C"}},
		{name: "today", filters: model.OrderFilters{DateRange: model.DateRangeToday}, expected: []string{"PRN-A"}},
		{name: "yesterday", filters: model.OrderFilters{DateRange: model.DateRangeYesterday}, expected: []string{"PRN-B"}},
		{name: "last 7 days", filters: model.OrderFilters{DateRange: model.DateRangeThisWeek}, expected: []string{"PRN-A", "PRN-B", "PRN-C"}},
		{name: "last month", filters: model.OrderFilters{DateRange: model.DateRangeThisMonth}, expected: []string{"PRN-A", "PRN-B", "PRN-C", "PRN-D"}},
		{name: "search order number is case insensitive", filters: model.OrderFilters{Search: "prn-d"}, expected: []string{"PRN-D"}},
		{name: "search customer email", filters: model.OrderFilters{Search: "PRN-E@ST"}, expected: []string{"PRN-E"}},
		{name: "search no match", filters: model.OrderFilters{Search: "thesis"}, expected: []string{}},
		{
			name:     "combined",
			filters:  model.OrderFilters{Status: model.OrderStatusPending, DateRange: model.DateRangeThisWeek, Search: "student"},
			expected: []string{"PRN-A", "PRN-C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.FilterOrders(sampleOrders(), tt.filters, viewNow)
			assert.Equal(t, tt.expected, orderNumbers(got))
		})
	}
}

func TestFilterOrders_YesterdayExcludesMidnightToday(t *testing.T) {
	midnight := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	orders := []model.Order{
		adminOrder("PRN-1", model.OrderStatusPending, false, midnight, "1"),
		adminOrder("PRN-2", model.OrderStatusPending, false, midnight.Add(-time.Nanosecond), "1"),
		adminOrder("PRN-3", model.OrderStatusPending, false, midnight.AddDate(0, 0, -1), "1"),
	}

	got := service.FilterOrders(orders, model.OrderFilters{DateRange: model.DateRangeYesterday}, viewNow)
	assert.Equal(t, []string{"PRN-2", "PRN-3"}, orderNumbers(got))
}

func TestSortOrders(t *testing.T) {
	tests := []struct {
		name     string
		sorting  model.OrderSorting
		expected []string
	}{
		{name: "newest first", sorting: model.DefaultOrderSorting, expected: []string{"PRN-A", "PRN-B", "PRN-C", "PRN-D", "PRN-E"}},
		{name: "oldest first", sorting: model.OrderSorting{Field: "created_at", Direction: model.SortAsc}, expected: []string{"PRN-E", "PRN-D", "PRN-C", "PRN-B", "PRN-A"}},
		{name: "price descending", sorting: model.OrderSorting{Field: "total_price", Direction: model.SortDesc}, expected: []string{"PRN-B", "PRN-A", "PRN-D", "PRN-C", "PRN-E"}},
		{name: "status keeps input order for ties", sorting: model.OrderSorting{Field: "order_status", Direction: model.SortAsc}, expected: []string{"PRN-E", "PRN-B", "PRN-A", "PRN-C", "PRN-D"}},
		{name: "nested customer name", sorting: model.OrderSorting{Field: "userInfo.name", Direction: model.SortDesc}, expected: []string{"PRN-E", "PRN-D", "PRN-C", "PRN-B", "PRN-A"}},
		{name: "unpaid orders have no payment date", sorting: model.OrderSorting{Field: "payment.date", Direction: model.SortAsc}, expected: []string{"PRN-C", "PRN-E", "PRN-D", "PRN-B", "PRN-A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := sampleOrders()
			require.NoError(t, service.SortOrders(orders, tt.sorting))
			assert.Equal(t, tt.expected, orderNumbers(orders))
		})
	}
}

func TestSortOrders_Rejects(t *testing.T) {
	var verr *model.ValidationError

	err := service.SortOrders(sampleOrders(), model.OrderSorting{Field: "userInfo.shoeSize"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "sort", verr.Field)

	err = service.SortOrders(sampleOrders(), model.OrderSorting{Field: "created_at", Direction: "sideways"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "direction", verr.Field)
}

func TestComputeOrderStats(t *testing.T) {
	stats := service.ComputeOrderStats(sampleOrders(), viewNow)

	assert.Equal(t, []model.StatusCount{
		{Status: model.OrderStatusPending, Count: 2},
		{Status: model.OrderStatusProcessing, Count: 1},
		{Status: model.OrderStatusCompleted, Count: 1},
		{Status: model.OrderStatusFailed, Count: 0},
		{Status: model.OrderStatusCancelled, Count: 1},
	}, stats.StatusCounts)

	require.Len(t, stats.DailyCounts, 7)
	assert.Equal(t, model.DailyCount{Date: "2026-10-12", Count: 0}, stats.DailyCounts[0])
	assert.Equal(t, model.DailyCount{Date: "2026-10-15", Count: 1}, stats.DailyCounts[3])
	assert.Equal(t, model.DailyCount{Date: "2026-10-17", Count: 1}, stats.DailyCounts[5])
	assert.Equal(t, model.DailyCount{Date: "2026-10-18", Count: 1}, stats.DailyCounts[6])

	assert.Equal(t, "42.75", stats.TotalRevenue.StringFixed(2))
	assert.Equal(t, 1, stats.TodayOrders)
}

func TestComputeOrderStats_Empty(t *testing.T) {
	stats := service.ComputeOrderStats(nil, viewNow)

	assert.True(t, stats.TotalRevenue.IsZero())
	assert.Len(t, stats.StatusCounts, len(model.OrderStatuses))
	assert.Len(t, stats.DailyCounts, 7)
	assert.Zero(t, stats.TodayOrders)
}

func TestBuildPrintQueue(t *testing.T) {
	queue := service.BuildPrintQueue(sampleOrders())
	assert.Equal(t, []string{"PRN-D", "PRN-A"}, orderNumbers(queue))
}

func TestCanChangeStatus(t *testing.T) {
	tests := []struct {
		from, to model.OrderStatus
		allowed  bool
	}{
		{model.OrderStatusPending, model.OrderStatusProcessing, true},
		{model.OrderStatusPending, model.OrderStatusCancelled, true},
		{model.OrderStatusPending, model.OrderStatusFailed, true},
		{model.OrderStatusPending, model.OrderStatusCompleted, false},
		{model.OrderStatusPending, model.OrderStatusPending, false},
		{model.OrderStatusProcessing, model.OrderStatusCompleted, true},
		{model.OrderStatusProcessing, model.OrderStatusFailed, true},
		{model.OrderStatusProcessing, model.OrderStatusCancelled, true},
		{model.OrderStatusProcessing, model.OrderStatusPending, false},
		{model.OrderStatusCompleted, model.OrderStatusProcessing, false},
		{model.OrderStatusFailed, model.OrderStatusPending, false},
		{model.OrderStatusCancelled, model.OrderStatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, service.CanChangeStatus(tt.from, tt.to))
		})
	}
}

func newOrderView(admin *mocks.MockAdminOrders, lookup *mocks.MockOrderLookup) *service.OrderViewServiceImpl {
	return service.NewOrderViewService(admin, lookup, service.WithOrderViewClock(func() time.Time { return viewNow }))
}

func TestOrderViewService_List(t *testing.T) {
	t.Run("filters and sorts", func(t *testing.T) {
		admin := new(mocks.MockAdminOrders)
		admin.On("ListOrders", mock.Anything, 50).Return(sampleOrders(), nil).Once()

		got, err := newOrderView(admin, nil).List(context.Background(), service.OrderListQuery{
			Filters: model.OrderFilters{DateRange: model.DateRangeThisWeek},
			Sorting: model.OrderSorting{Field: "total_price", Direction: model.SortAsc},
			Limit:   50,
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"PRN-C", "PRN-A", "PRN-B"}, orderNumbers(got))
		admin.AssertExpectations(t)
	})

	t.Run("unknown sort field is rejected before fetching", func(t *testing.T) {
		admin := new(mocks.MockAdminOrders)

		_, err := newOrderView(admin, nil).List(context.Background(), service.OrderListQuery{
			Sorting: model.OrderSorting{Field: "colour"},
		})

		var verr *model.ValidationError
		assert.True(t, errors.As(err, &verr))
		admin.AssertNotCalled(t, "ListOrders", mock.Anything, mock.Anything)
	})

	t.Run("order API failure", func(t *testing.T) {
		admin := new(mocks.MockAdminOrders)
		upstream := errors.New("circuit breaker is open")
		admin.On("ListOrders", mock.Anything, 0).Return(nil, upstream).Once()

		_, err := newOrderView(admin, nil).List(context.Background(), service.OrderListQuery{})
		assert.ErrorIs(t, err, upstream)
	})
}

func TestOrderViewService_Stats(t *testing.T) {
	serverStats := model.OrderStats{
		StatusCounts: []model.StatusCount{{Status: model.OrderStatusPending, Count: 120}},
		DailyCounts:  []model.DailyCount{{Date: "2026-10-18", Count: 9}},
		TotalRevenue: decimal.RequireFromString("1840.50"),
		TodayOrders:  9,
	}
	upstream := errors.New("order api down")

	tests := []struct {
		name       string
		setup      func(admin *mocks.MockAdminOrders)
		wantToday  int
		wantErr    error
		listCalled bool
	}{
		{
			name: "order api aggregates cover every order",
			setup: func(admin *mocks.MockAdminOrders) {
				admin.On("OrderStats", mock.Anything).Return(serverStats, nil).Once()
			},
			wantToday: 9,
		},
		{
			name: "without a stats endpoint the order list is summarized",
			setup: func(admin *mocks.MockAdminOrders) {
				admin.On("OrderStats", mock.Anything).
					Return(model.OrderStats{}, fmt.Errorf("%w: 404", ordering.ErrStatsUnsupported)).Once()
				admin.On("ListOrders", mock.Anything, 0).Return(sampleOrders(), nil).Once()
			},
			wantToday:  1,
			listCalled: true,
		},
		{
			name: "other failures are reported",
			setup: func(admin *mocks.MockAdminOrders) {
				admin.On("OrderStats", mock.Anything).Return(model.OrderStats{}, upstream).Once()
			},
			wantErr: upstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin := new(mocks.MockAdminOrders)
			tt.setup(admin)

			stats, err := newOrderView(admin, nil).Stats(context.Background())

			admin.AssertExpectations(t)
			if !tt.listCalled {
				admin.AssertNotCalled(t, "ListOrders", mock.Anything, mock.Anything)
			}
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToday, stats.TodayOrders)
		})
	}
}

func TestOrderViewService_PrintQueue(t *testing.T) {
	admin := new(mocks.MockAdminOrders)
	admin.On("PendingPrints", mock.Anything).Return(sampleOrders(), nil).Once()

	queue, err := newOrderView(admin, nil).PrintQueue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"PRN-D", "PRN-A"}, orderNumbers(queue))
	admin.AssertExpectations(t)
}

func TestOrderViewService_UpdateStatus(t *testing.T) {
	pending := adminOrder("PRN-A", model.OrderStatusPending, true, viewNow.Add(-time.Hour), "10")
	completed := adminOrder("PRN-B", model.OrderStatusCompleted, true, viewNow.Add(-time.Hour), "10")

	t.Run("allowed change", func(t *testing.T) {
		admin := new(mocks.MockAdminOrders)
		lookup := new(mocks.MockOrderLookup)
		lookup.On("GetOrderByNumber", mock.Anything, "PRN-A").Return(pending, nil).Once()
		admin.On("UpdateOrderStatus", mock.Anything, "PRN-A", model.OrderStatusProcessing).Return(nil).Once()

		got, err := newOrderView(admin, lookup).UpdateStatus(context.Background(), "PRN-A", model.OrderStatusProcessing)

		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusProcessing, got.Status)
		assert.Equal(t, viewNow, got.UpdatedAt)
		admin.AssertExpectations(t)
	})

	t.Run("terminal status cannot change", func(t *testing.T) {
		admin := new(mocks.MockAdminOrders)
		lookup := new(mocks.MockOrderLookup)
		lookup.On("GetOrderByNumber", mock.Anything, "PRN-B").Return(completed, nil).Once()

		_, err := newOrderView(admin, lookup).UpdateStatus(context.Background(), "PRN-B", model.OrderStatusProcessing)

		assert.ErrorIs(t, err, service.ErrStatusChange)
		var serr *service.StatusChangeError
		require.True(t, errors.As(err, &serr))
		assert.Equal(t, model.OrderStatusCompleted, serr.From)
		admin.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("lookup failure", func(t *testing.T) {
		lookup := new(mocks.MockOrderLookup)
		missing := errors.New("not found")
		lookup.On("GetOrderByNumber", mock.Anything, "PRN-Z").Return(model.Order{}, missing).Once()

		_, err := newOrderView(new(mocks.MockAdminOrders), lookup).UpdateStatus(context.Background(), "PRN-Z", model.OrderStatusProcessing)
		assert.ErrorIs(t, err, missing)
	})

	t.Run("order API refuses", func(t *testing.T) {
		admin := new(mocks.MockAdminOrders)
		lookup := new(mocks.MockOrderLookup)
		upstream := errors.New("bad gateway")
		lookup.On("GetOrderByNumber", mock.Anything, "PRN-A").Return(pending, nil).Once()
		admin.On("UpdateOrderStatus", mock.Anything, "PRN-A", model.OrderStatusCancelled).Return(upstream).Once()

		_, err := newOrderView(admin, lookup).UpdateStatus(context.Background(), "PRN-A", model.OrderStatusCancelled)
		assert.ErrorIs(t, err, upstream)
	})
}
