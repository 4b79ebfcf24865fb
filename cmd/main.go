// Package main is the entry point for the print-order-service application.
//
// @title           Print Order Service API
// @version         1.0.0
// @description     Document printing orders for campus print shops: pricing, step-by-step order placement and the print desk.
//
//	Students upload a PDF, choose print options, enter their details and pay through the order API.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/print-order-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer token issued by the campus auth service.
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 Static key for the print desk when bearer tokens are not configured.
//
// @tag.name        Pricing
// @tag.description Price table and quotes
//
// @tag.name        Sessions
// @tag.description Order placement steps
//
// @tag.name        Orders
// @tag.description Order lookup
//
// @tag.name        Admin
// @tag.description Print desk operations
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"
	"time"

	_ "github.com/guttosm/print-order-service/docs" // swagger docs

	"github.com/guttosm/print-order-service/config"
	"github.com/guttosm/print-order-service/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	application, err := app.InitializeApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	server := app.NewServer(application.Router, cfg.Server)
	runErr := server.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := application.Close(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to release resources")
	}

	if runErr != nil {
		log.Fatal().Err(runErr).Msg("Server error")
	}
}
