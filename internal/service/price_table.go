package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/logger"
	"github.com/guttosm/print-order-service/internal/repository"
)

// ErrRepositoryNotConfigured is returned when the repository is not configured.
var ErrRepositoryNotConfigured = errors.New("repository not configured")

// DefaultPriceTableRefresh is how long the active table is trusted before the
// repository is asked again.
const DefaultPriceTableRefresh = 30 * time.Second

// PriceTableService provides the active price table and manages its versions.
type PriceTableService interface {
	// Calculator returns a calculator for the active table. Sessions keep the
	// calculator they were started with.
	Calculator(ctx context.Context) (PriceCalculator, error)
	Active(ctx context.Context) (model.PriceTable, error)
	Publish(ctx context.Context, table model.PriceTable, publishedBy string) (*model.PriceTableRecord, error)
	Activate(ctx context.Context, id string, activatedBy string) (*model.PriceTableRecord, error)
	History(ctx context.Context, limit int) ([]model.PriceTableRecord, error)
}

// PriceTableOption configures a PriceTableServiceImpl.
type PriceTableOption func(*PriceTableServiceImpl)

// WithPriceTableRepository stores tables in repo. Without one, the fallback
// table is the only table.
func WithPriceTableRepository(repo repository.PriceTablesRepositoryInterface) PriceTableOption {
	return func(s *PriceTableServiceImpl) {
		s.repo = repo
	}
}

// WithPriceTableRefresh sets how long a loaded table is reused.
func WithPriceTableRefresh(d time.Duration) PriceTableOption {
	return func(s *PriceTableServiceImpl) {
		if d > 0 {
			s.refresh = d
		}
	}
}

// PriceTableServiceImpl implements PriceTableService.
type PriceTableServiceImpl struct {
	repo     repository.PriceTablesRepositoryInterface
	fallback *PriceCalculatorService
	refresh  time.Duration

	mu       sync.RWMutex
	current  *PriceCalculatorService
	loadedAt time.Time
}

// NewPriceTableService creates the service. fallback prices orders until a
// table has been stored, and while the repository cannot be reached before
// any table was loaded.
func NewPriceTableService(fallback model.PriceTable, opts ...PriceTableOption) (*PriceTableServiceImpl, error) {
	calc, err := NewPriceCalculator(fallback)
	if err != nil {
		return nil, fmt.Errorf("fallback price table: %w", err)
	}

	s := &PriceTableServiceImpl{
		fallback: calc,
		refresh:  DefaultPriceTableRefresh,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Calculator returns a calculator for the active table.
func (s *PriceTableServiceImpl) Calculator(ctx context.Context) (PriceCalculator, error) {
	calc, err := s.calculator(ctx)
	if err != nil {
		return nil, err
	}
	return calc, nil
}

// Active returns the active table.
func (s *PriceTableServiceImpl) Active(ctx context.Context) (model.PriceTable, error) {
	calc, err := s.calculator(ctx)
	if err != nil {
		return model.PriceTable{}, err
	}
	return calc.Table(), nil
}

func (s *PriceTableServiceImpl) calculator(ctx context.Context) (*PriceCalculatorService, error) {
	if s.repo == nil {
		return s.fallback, nil
	}

	s.mu.RLock()
	current, loadedAt := s.current, s.loadedAt
	s.mu.RUnlock()
	if current != nil && time.Since(loadedAt) < s.refresh {
		return current, nil
	}

	rec, err := s.repo.GetActive(ctx)
	if err != nil {
		if current != nil {
			log := logger.Logger()
			log.Warn().Err(err).Int("version", current.table.Version).
				Msg("Price table refresh failed, keeping loaded table")
			return current, nil
		}
		log := logger.Logger()
		log.Warn().Err(err).Msg("Price table unavailable, using fallback table")
		return s.fallback, nil
	}
	if rec == nil {
		return s.store(s.fallback), nil
	}

	if current != nil && current.table.Version == rec.Table.Version {
		return s.store(current), nil
	}

	calc, err := NewPriceCalculator(rec.Table)
	if err != nil {
		log := logger.Logger()
		log.Error().Err(err).Str("price_table_id", rec.ID).Msg("Active price table is invalid")
		return nil, err
	}
	return s.store(calc), nil
}

func (s *PriceTableServiceImpl) store(calc *PriceCalculatorService) *PriceCalculatorService {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = calc
	s.loadedAt = time.Now()
	return calc
}

func (s *PriceTableServiceImpl) invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadedAt = time.Time{}
}

// Publish validates table and stores it as the new active version.
func (s *PriceTableServiceImpl) Publish(ctx context.Context, table model.PriceTable, publishedBy string) (*model.PriceTableRecord, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	if table.Currency == "" {
		table.Currency = s.fallback.table.Currency
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}

	rec, err := s.repo.Create(ctx, table, publishedBy)
	if err != nil {
		return nil, err
	}
	s.invalidate()

	log := logger.Logger()
	log.Info().Int("version", rec.Table.Version).Str("published_by", publishedBy).
		Msg("Price table published")
	return rec, nil
}

// Activate makes a stored version active again.
func (s *PriceTableServiceImpl) Activate(ctx context.Context, id string, activatedBy string) (*model.PriceTableRecord, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}

	rec, err := s.repo.Activate(ctx, id, activatedBy)
	if err != nil {
		return nil, err
	}
	s.invalidate()

	log := logger.Logger()
	log.Info().Int("version", rec.Table.Version).Str("activated_by", activatedBy).
		Msg("Price table activated")
	return rec, nil
}

// History lists stored versions, newest first.
func (s *PriceTableServiceImpl) History(ctx context.Context, limit int) ([]model.PriceTableRecord, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.repo.List(ctx, limit)
}
