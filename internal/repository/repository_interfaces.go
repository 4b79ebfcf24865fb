// Package repository provides MongoDB persistence for price table versions
// and request/audit logs.
package repository

import (
	"context"

	"github.com/guttosm/print-order-service/internal/domain/model"
)

// PriceTablesRepositoryInterface defines the interface for price table storage.
type PriceTablesRepositoryInterface interface {
	GetActive(ctx context.Context) (*model.PriceTableRecord, error)
	Create(ctx context.Context, table model.PriceTable, createdBy string) (*model.PriceTableRecord, error)
	Activate(ctx context.Context, id string, activatedBy string) (*model.PriceTableRecord, error)
	List(ctx context.Context, limit int) ([]model.PriceTableRecord, error)
}

// LogsRepositoryInterface defines the interface for logs repository operations.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *LogEntryDocument) error
	CreateMany(ctx context.Context, entries []*LogEntryDocument) error
	Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error)
	Count(ctx context.Context, opts LogQueryOptions) (int64, error)
}
