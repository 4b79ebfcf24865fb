package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/print-order-service/internal/metrics"
	"github.com/guttosm/print-order-service/internal/middleware"
	"github.com/guttosm/print-order-service/internal/ordering"
	"github.com/guttosm/print-order-service/internal/service"
)

// RouterConfig holds router configuration options. Route groups whose
// service is nil are not registered.
type RouterConfig struct {
	RateLimit         int
	RateWindow        time.Duration
	RequestTimeout    time.Duration
	MaxUploadBytes    int64
	APIKeys           map[string]bool
	EnableAuth        bool
	EnableIdempotency bool
	AdminRole         string
	CORSOrigins       []string
	SwaggerUser       string
	SwaggerPass       string

	LoggingService service.LoggingService
	PriceTables    service.PriceTableService
	Sessions       service.SessionService
	Orders         service.OrderViewService
	OrderLookup    ordering.OrderLookup
	TokenValidator service.TokenValidator

	idempotencyCfg *middleware.IdempotencyConfig
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:         100,
		RateWindow:        time.Minute,
		RequestTimeout:    30 * time.Second,
		EnableIdempotency: true,
		AdminRole:         DefaultAdminRole,
	}
}

// idempotency returns the idempotency middleware shared by the routes that
// must not act twice on a retried request.
func (cfg *RouterConfig) idempotency() gin.HandlerFunc {
	if !cfg.EnableIdempotency {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.idempotencyCfg == nil {
		idem := middleware.DefaultIdempotencyConfig()
		cfg.idempotencyCfg = &idem
	}
	return middleware.Idempotency(*cfg.idempotencyCfg)
}

// NewRouter creates and configures the Gin router for the print order
// service.
func NewRouter(healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	configureGlobalMiddleware(router, &cfg)
	registerInfrastructureRoutes(router, healthHandler, &cfg)

	api := router.Group("/api")
	if cfg.RequestTimeout > 0 {
		api.Use(middleware.TimeoutWithDuration(cfg.RequestTimeout))
	}
	for _, group := range routeGroups(&cfg) {
		group.RegisterRoutes(api, &cfg)
	}

	return router
}

// configureGlobalMiddleware sets up middleware applied to all routes.
func configureGlobalMiddleware(router *gin.Engine, cfg *RouterConfig) {
	router.Use(middleware.CORS(cfg.CORSOrigins))

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(cfg.LoggingService),
		middleware.ErrorHandler(),
	)

	router.Use(func(c *gin.Context) {
		if cfg.LoggingService != nil {
			c.Set(loggingServiceKey, cfg.LoggingService)
		}
		c.Next()
	})

	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		router.Use(limiter.RateLimit())
	}
}

// registerInfrastructureRoutes registers health, metrics, and documentation routes.
func registerInfrastructureRoutes(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	if healthHandler != nil {
		healthHandler.Register(router)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		authorized := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			cfg.SwaggerUser: cfg.SwaggerPass,
		}))
		authorized.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	} else {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
