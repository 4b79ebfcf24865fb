package repository

import (
	"context"
	"errors"

	"github.com/guttosm/print-order-service/internal/circuitbreaker"
	"github.com/guttosm/print-order-service/internal/domain/model"
)

// PriceTablesRepositoryWithCircuitBreaker wraps a price tables repository with
// circuit breaker protection. An open circuit is reported to the caller,
// which keeps pricing with the table it already has.
type PriceTablesRepositoryWithCircuitBreaker struct {
	repo           PriceTablesRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewPriceTablesRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewPriceTablesRepositoryWithCircuitBreaker(repo PriceTablesRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *PriceTablesRepositoryWithCircuitBreaker {
	return &PriceTablesRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// GetActive returns the active price table with circuit breaker protection.
func (r *PriceTablesRepositoryWithCircuitBreaker) GetActive(ctx context.Context) (*model.PriceTableRecord, error) {
	var result *model.PriceTableRecord
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.GetActive(ctx)
		return cbErr
	})
	return result, err
}

// Create stores a new price table version with circuit breaker protection.
func (r *PriceTablesRepositoryWithCircuitBreaker) Create(ctx context.Context, table model.PriceTable, createdBy string) (*model.PriceTableRecord, error) {
	var result *model.PriceTableRecord
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Create(ctx, table, createdBy)
		return cbErr
	})
	return result, err
}

// Activate reactivates a stored version with circuit breaker protection.
func (r *PriceTablesRepositoryWithCircuitBreaker) Activate(ctx context.Context, id string, activatedBy string) (*model.PriceTableRecord, error) {
	var result *model.PriceTableRecord
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Activate(ctx, id, activatedBy)
		return cbErr
	})
	return result, err
}

// List returns stored versions with circuit breaker protection.
func (r *PriceTablesRepositoryWithCircuitBreaker) List(ctx context.Context, limit int) ([]model.PriceTableRecord, error) {
	var result []model.PriceTableRecord
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.List(ctx, limit)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *PriceTablesRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// LogsRepositoryWithCircuitBreaker wraps LogsRepository with circuit breaker protection.
type LogsRepositoryWithCircuitBreaker struct {
	repo           LogsRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewLogsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewLogsRepositoryWithCircuitBreaker(repo LogsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create stores a single log entry with circuit breaker protection.
// Entries are dropped while the circuit is open.
func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *LogEntryDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, entry)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// CreateMany stores multiple log entries with circuit breaker protection.
// Entries are dropped while the circuit is open.
func (r *LogsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, entries []*LogEntryDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.CreateMany(ctx, entries)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// Query retrieves log entries with circuit breaker protection.
func (r *LogsRepositoryWithCircuitBreaker) Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error) {
	var result []*LogEntryDocument
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Query(ctx, opts)
		return cbErr
	})
	return result, err
}

// Count returns the count of log entries with circuit breaker protection.
func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts LogQueryOptions) (int64, error) {
	var result int64
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Count(ctx, opts)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *LogsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
