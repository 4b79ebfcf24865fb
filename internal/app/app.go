// Package app provides application initialization and dependency injection.
package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/print-order-service/config"
	"github.com/guttosm/print-order-service/internal/http"
	"github.com/guttosm/print-order-service/internal/middleware"
)

// Application is the wired service.
type Application struct {
	Router   *gin.Engine
	services *ServiceComponents
	database *DatabaseComponents
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(cfg config.Config) (*Application, error) {
	InitializeLogger(cfg.Log)

	dbComponents := InitializeDatabase(cfg.Database, cfg.Pricing.PriceTable())

	services, err := InitializeServices(cfg, dbComponents)
	if err != nil {
		_ = dbComponents.Close(context.Background())
		return nil, err
	}

	if dbComponents != nil && dbComponents.LoggingService != nil {
		middleware.InitAsyncLogger(dbComponents.LoggingService, middleware.DefaultAsyncLoggerConfig())
	}

	routerComponents := InitializeRouter(services, dbComponents, cfg)

	return &Application{
		Router:   http.NewRouter(routerComponents.HealthHandler, routerComponents.Config),
		services: services,
		database: dbComponents,
	}, nil
}

// Close flushes pending log entries and releases background workers and
// connections. Call it after the HTTP server has stopped.
func (a *Application) Close(ctx context.Context) error {
	middleware.StopAsyncLogger()
	a.services.Close()
	return a.database.Close(ctx)
}
