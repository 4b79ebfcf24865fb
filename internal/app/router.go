// Package app provides router configuration.
package app

import (
	"github.com/guttosm/print-order-service/config"
	"github.com/guttosm/print-order-service/internal/http"
	"github.com/guttosm/print-order-service/internal/service"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter builds the health checks and router configuration from
// the wired services. dbComponents may be nil.
func InitializeRouter(services *ServiceComponents, dbComponents *DatabaseComponents, cfg config.Config) *RouterComponents {
	healthHandler := http.NewHealthHandler()
	if services.OrderAPIBreaker != nil {
		healthHandler.RegisterCircuitBreaker("order_api", services.OrderAPIBreaker)
	}

	var loggingService service.LoggingService
	if dbComponents != nil {
		loggingService = dbComponents.LoggingService
		if dbComponents.DB != nil {
			healthHandler.RegisterChecker("mongodb", http.HealthCheckFunc(dbComponents.DB.HealthCheck))
		}
		if dbComponents.PriceTablesCircuitBreaker != nil {
			healthHandler.RegisterCircuitBreaker("mongodb_price_tables", dbComponents.PriceTablesCircuitBreaker)
		}
		if dbComponents.LogsCircuitBreaker != nil {
			healthHandler.RegisterCircuitBreaker("mongodb_logs", dbComponents.LogsCircuitBreaker)
		}
	}

	routerCfg := http.DefaultRouterConfig()
	routerCfg.RateLimit = cfg.Server.RateLimit
	routerCfg.RateWindow = cfg.Server.RateWindow
	routerCfg.RequestTimeout = cfg.Server.RequestTimeout
	routerCfg.MaxUploadBytes = cfg.OrderAPI.UploadMaxBytes
	routerCfg.EnableAuth = cfg.Auth.Enabled
	routerCfg.APIKeys = cfg.Auth.APIKeys
	routerCfg.EnableIdempotency = cfg.Server.EnableIdempotency
	if cfg.Auth.AdminRole != "" {
		routerCfg.AdminRole = cfg.Auth.AdminRole
	}
	routerCfg.CORSOrigins = cfg.Server.CORSOrigins
	routerCfg.SwaggerUser = cfg.Server.SwaggerUser
	routerCfg.SwaggerPass = cfg.Server.SwaggerPass

	routerCfg.LoggingService = loggingService
	routerCfg.PriceTables = services.PriceTables
	routerCfg.Sessions = services.Sessions
	routerCfg.Orders = services.Orders
	routerCfg.OrderLookup = services.OrderAPI
	routerCfg.TokenValidator = services.TokenValidator

	return &RouterComponents{
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}
