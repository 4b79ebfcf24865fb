// Package app provides database initialization and setup.
package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/print-order-service/config"
	"github.com/guttosm/print-order-service/internal/circuitbreaker"
	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/metrics"
	"github.com/guttosm/print-order-service/internal/repository"
	"github.com/guttosm/print-order-service/internal/service"
)

const seedTimeout = 5 * time.Second

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB                        *repository.MongoDB
	PriceTablesRepo           repository.PriceTablesRepositoryInterface
	LoggingService            service.LoggingService
	PriceTablesCircuitBreaker *circuitbreaker.CircuitBreaker
	LogsCircuitBreaker        *circuitbreaker.CircuitBreaker
}

// InitializeDatabase connects to MongoDB and builds the price table and log
// repositories. It returns nil when the database is disabled or unreachable;
// the service then prices with the configured table and keeps no audit trail.
func InitializeDatabase(cfg config.DatabaseConfig, seed model.PriceTable) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without database")
		return nil
	}

	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	ttlDays := int(cfg.LogsTTL.Hours() / 24)
	if err := db.SetLogsTTL(context.Background(), ttlDays); err != nil {
		log.Warn().Err(err).Msg("Failed to set logs TTL index (may already exist)")
	}

	priceTablesCB := databaseBreaker(cfg, "mongodb-price-tables")
	logsCB := databaseBreaker(cfg, "mongodb-logs")

	logsRepo := repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), logsCB)
	priceTablesRepo := repository.NewPriceTablesRepositoryWithCircuitBreaker(repository.NewPriceTablesRepository(db), priceTablesCB)

	if err := initializeDefaultPriceTable(priceTablesRepo, seed); err != nil {
		log.Warn().Err(err).Msg("Failed to store the default price table")
	}

	return &DatabaseComponents{
		DB:                        db,
		PriceTablesRepo:           priceTablesRepo,
		LoggingService:            service.NewLoggingService(logsRepo),
		PriceTablesCircuitBreaker: priceTablesCB,
		LogsCircuitBreaker:        logsCB,
	}
}

func databaseBreaker(cfg config.DatabaseConfig, name string) *circuitbreaker.CircuitBreaker {
	metrics.SetCircuitBreakerState(name, int(circuitbreaker.StateClosed))
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
		OnStateChange: func(name string, _, to circuitbreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
		},
	})
}

// initializeDefaultPriceTable stores table as the first version when no
// version is active yet.
func initializeDefaultPriceTable(repo repository.PriceTablesRepositoryInterface, table model.PriceTable) error {
	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	active, err := repo.GetActive(ctx)
	if err != nil {
		return err
	}
	if active != nil {
		return nil
	}

	rec, err := repo.Create(ctx, table, "system")
	if err != nil {
		return err
	}
	log.Info().Int("version", rec.Table.Version).Str("currency", rec.Table.Currency).
		Msg("Stored default price table")
	return nil
}

// Close releases the MongoDB connection.
func (d *DatabaseComponents) Close(ctx context.Context) error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close(ctx)
}
