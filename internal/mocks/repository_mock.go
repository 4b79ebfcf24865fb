// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/repository"
)

type MockPriceTablesRepositoryInterface struct {
	mock.Mock
}

func (m *MockPriceTablesRepositoryInterface) GetActive(ctx context.Context) (*model.PriceTableRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PriceTableRecord), args.Error(1)
}

func (m *MockPriceTablesRepositoryInterface) Create(ctx context.Context, table model.PriceTable, createdBy string) (*model.PriceTableRecord, error) {
	args := m.Called(ctx, table, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PriceTableRecord), args.Error(1)
}

func (m *MockPriceTablesRepositoryInterface) Activate(ctx context.Context, id string, activatedBy string) (*model.PriceTableRecord, error) {
	args := m.Called(ctx, id, activatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PriceTableRecord), args.Error(1)
}

func (m *MockPriceTablesRepositoryInterface) List(ctx context.Context, limit int) ([]model.PriceTableRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PriceTableRecord), args.Error(1)
}

type MockLogsRepositoryInterface struct {
	mock.Mock
}

func (m *MockLogsRepositoryInterface) Create(ctx context.Context, entry *repository.LogEntryDocument) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLogsRepositoryInterface) CreateMany(ctx context.Context, entries []*repository.LogEntryDocument) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLogsRepositoryInterface) Query(ctx context.Context, opts repository.LogQueryOptions) ([]*repository.LogEntryDocument, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.LogEntryDocument), args.Error(1)
}

func (m *MockLogsRepositoryInterface) Count(ctx context.Context, opts repository.LogQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(int64), args.Error(1)
}
