// Package app provides service initialization.
package app

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/print-order-service/config"
	"github.com/guttosm/print-order-service/internal/circuitbreaker"
	"github.com/guttosm/print-order-service/internal/orderapi"
	"github.com/guttosm/print-order-service/internal/ordering"
	"github.com/guttosm/print-order-service/internal/service"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	PriceTables     service.PriceTableService
	SessionStore    *service.SessionStore
	Sessions        service.SessionService
	Orders          service.OrderViewService
	OrderAPI        orderapi.API
	OrderAPIBreaker *circuitbreaker.CircuitBreaker
	TokenValidator  service.TokenValidator
}

// InitializeServices builds the business services. db may be nil.
func InitializeServices(cfg config.Config, db *DatabaseComponents) (*ServiceComponents, error) {
	var priceOpts []service.PriceTableOption
	if db != nil && db.PriceTablesRepo != nil {
		priceOpts = append(priceOpts, service.WithPriceTableRepository(db.PriceTablesRepo))
	}
	priceOpts = append(priceOpts, service.WithPriceTableRefresh(cfg.Pricing.RefreshInterval))

	prices, err := service.NewPriceTableService(cfg.Pricing.PriceTable(), priceOpts...)
	if err != nil {
		return nil, err
	}

	api, breaker, err := newOrderAPI(cfg.OrderAPI)
	if err != nil {
		return nil, err
	}

	collaborators := ordering.Collaborators{
		Uploader:  api,
		Submitter: api,
		Payments:  api,
	}
	if cfg.Pricing.ConfirmPrices {
		collaborators.Confirmer = api
	}

	store := service.NewSessionStore(cfg.Session.Capacity, cfg.Session.TTL, cfg.Session.Shards)
	sessions := service.NewSessionService(store, prices, service.SessionConfig{
		Collaborators: collaborators,
		UploadPolicy:  ordering.UploadPolicy{MaxBytes: cfg.OrderAPI.UploadMaxBytes},
	})

	components := &ServiceComponents{
		PriceTables:     prices,
		SessionStore:    store,
		Sessions:        sessions,
		Orders:          service.NewOrderViewService(api, api),
		OrderAPI:        api,
		OrderAPIBreaker: breaker,
	}

	if cfg.Auth.Enabled && cfg.Auth.JWTSecretKey != "" {
		components.TokenValidator = service.NewTokenValidator(service.TokenConfig{
			SecretKey: cfg.Auth.JWTSecretKey,
			Issuer:    cfg.Auth.JWTIssuer,
		})
	}

	log.Info().
		Str("order_api", cfg.OrderAPI.URL).
		Bool("price_confirmation", cfg.Pricing.ConfirmPrices).
		Bool("stored_price_tables", db != nil).
		Msg("Services initialized")
	return components, nil
}

// newOrderAPI builds the order API client behind its circuit breaker.
func newOrderAPI(cfg config.OrderAPIConfig) (*orderapi.ClientWithCircuitBreaker, *circuitbreaker.CircuitBreaker, error) {
	opts := []orderapi.Option{orderapi.WithTimeout(cfg.Timeout)}
	if cfg.Token != "" {
		opts = append(opts, orderapi.WithBearerToken(cfg.Token))
	}
	client, err := orderapi.NewClient(cfg.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("order API client: %w", err)
	}

	breaker := orderapi.NewCircuitBreaker(circuitbreaker.Config{
		Name:             "order-api",
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
	})
	return orderapi.NewClientWithCircuitBreaker(client, breaker), breaker, nil
}

// Close stops the session store's sweepers.
func (s *ServiceComponents) Close() {
	if s != nil && s.SessionStore != nil {
		s.SessionStore.Stop()
	}
}
