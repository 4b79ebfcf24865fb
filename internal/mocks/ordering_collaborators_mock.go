// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/ordering"
)

type MockDocumentUploader struct {
	mock.Mock
}

func (m *MockDocumentUploader) UploadDocument(ctx context.Context, upload ordering.Upload) (model.DocumentInfo, error) {
	args := m.Called(ctx, upload)
	return args.Get(0).(model.DocumentInfo), args.Error(1)
}

type MockPriceConfirmer struct {
	mock.Mock
}

func (m *MockPriceConfirmer) ConfirmPrice(ctx context.Context, input model.PricingInput) (model.PriceBreakdown, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(model.PriceBreakdown), args.Error(1)
}

type MockOrderSubmitter struct {
	mock.Mock
}

func (m *MockOrderSubmitter) SubmitOrder(ctx context.Context, snapshot ordering.DraftSnapshot) (model.Submission, error) {
	args := m.Called(ctx, snapshot)
	return args.Get(0).(model.Submission), args.Error(1)
}

type MockPaymentChecker struct {
	mock.Mock
}

func (m *MockPaymentChecker) CheckPaymentStatus(ctx context.Context, reference string) (model.PaymentResult, error) {
	args := m.Called(ctx, reference)
	return args.Get(0).(model.PaymentResult), args.Error(1)
}

type MockOrderLookup struct {
	mock.Mock
}

func (m *MockOrderLookup) GetOrderByNumber(ctx context.Context, orderNumber string) (model.Order, error) {
	args := m.Called(ctx, orderNumber)
	return args.Get(0).(model.Order), args.Error(1)
}

type MockAdminOrders struct {
	mock.Mock
}

func (m *MockAdminOrders) ListOrders(ctx context.Context, limit int) ([]model.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockAdminOrders) OrderStats(ctx context.Context) (model.OrderStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.OrderStats), args.Error(1)
}

func (m *MockAdminOrders) PendingPrints(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockAdminOrders) UpdateOrderStatus(ctx context.Context, orderNumber string, status model.OrderStatus) error {
	args := m.Called(ctx, orderNumber, status)
	return args.Error(0)
}
