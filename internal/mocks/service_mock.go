// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/print-order-service/internal/domain/dto"
	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/service"
)

type MockLoggingService struct {
	mock.Mock
}

func NewMockLoggingService(t *testing.T) *MockLoggingService {
	m := &MockLoggingService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLoggingService) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLoggingService) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLoggingService) QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LogEntry), args.Error(1)
}

func (m *MockLoggingService) CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(int64), args.Error(1)
}

type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) ValidateToken(ctx context.Context, tokenString string) (*dto.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Claims), args.Error(1)
}

type MockPriceTableService struct {
	mock.Mock
}

func (m *MockPriceTableService) Calculator(ctx context.Context) (service.PriceCalculator, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(service.PriceCalculator), args.Error(1)
}

func (m *MockPriceTableService) Active(ctx context.Context) (model.PriceTable, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.PriceTable), args.Error(1)
}

func (m *MockPriceTableService) Publish(ctx context.Context, table model.PriceTable, publishedBy string) (*model.PriceTableRecord, error) {
	args := m.Called(ctx, table, publishedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PriceTableRecord), args.Error(1)
}

func (m *MockPriceTableService) Activate(ctx context.Context, id string, activatedBy string) (*model.PriceTableRecord, error) {
	args := m.Called(ctx, id, activatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PriceTableRecord), args.Error(1)
}

func (m *MockPriceTableService) History(ctx context.Context, limit int) ([]model.PriceTableRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PriceTableRecord), args.Error(1)
}
