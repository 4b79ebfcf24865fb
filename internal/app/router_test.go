//go:build !integration

package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/print-order-service/config"
	"github.com/guttosm/print-order-service/internal/mocks"
)

func TestInitializeRouter(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*config.Config)
		withDB   bool
		validate func(*testing.T, *RouterComponents, *ServiceComponents)
	}{
		{
			name:   "copies server settings",
			mutate: func(*config.Config) {},
			validate: func(t *testing.T, rc *RouterComponents, sc *ServiceComponents) {
				assert.Equal(t, 100, rc.Config.RateLimit)
				assert.Equal(t, time.Minute, rc.Config.RateWindow)
				assert.Equal(t, 10*time.Second, rc.Config.RequestTimeout)
				assert.Equal(t, int64(10<<20), rc.Config.MaxUploadBytes)
				assert.True(t, rc.Config.EnableIdempotency)
				assert.False(t, rc.Config.EnableAuth)
				assert.Nil(t, rc.Config.LoggingService)
				assert.Equal(t, sc.Sessions, rc.Config.Sessions)
				assert.Equal(t, sc.OrderAPI, rc.Config.OrderLookup)
			},
		},
		{
			name: "copies auth settings",
			mutate: func(c *config.Config) {
				c.Auth.Enabled = true
				c.Auth.APIKeys = map[string]bool{"desk-key": true}
				c.Auth.AdminRole = "print-desk"
				c.Server.CORSOrigins = []string{"https://print.campus.test"}
				c.Server.SwaggerUser = "docs"
				c.Server.SwaggerPass = "secret"
			},
			validate: func(t *testing.T, rc *RouterComponents, _ *ServiceComponents) {
				assert.True(t, rc.Config.EnableAuth)
				assert.Equal(t, map[string]bool{"desk-key": true}, rc.Config.APIKeys)
				assert.Equal(t, "print-desk", rc.Config.AdminRole)
				assert.Equal(t, []string{"https://print.campus.test"}, rc.Config.CORSOrigins)
				assert.Equal(t, "docs", rc.Config.SwaggerUser)
				assert.Equal(t, "secret", rc.Config.SwaggerPass)
			},
		},
		{
			name:   "empty admin role keeps the default",
			mutate: func(c *config.Config) { c.Auth.AdminRole = "" },
			validate: func(t *testing.T, rc *RouterComponents, _ *ServiceComponents) {
				assert.Equal(t, "admin", rc.Config.AdminRole)
			},
		},
		{
			name:   "database components feed the audit log",
			mutate: func(*config.Config) {},
			withDB: true,
			validate: func(t *testing.T, rc *RouterComponents, _ *ServiceComponents) {
				assert.NotNil(t, rc.Config.LoggingService)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			services, err := InitializeServices(cfg, nil)
			require.NoError(t, err)
			t.Cleanup(services.Close)

			var db *DatabaseComponents
			if tt.withDB {
				db = &DatabaseComponents{LoggingService: mocks.NewMockLoggingService(t)}
			}

			components := InitializeRouter(services, db, cfg)
			require.NotNil(t, components)
			require.NotNil(t, components.HealthHandler)
			tt.validate(t, components, services)
		})
	}
}

func TestInitializeRouter_ReadinessChecks(t *testing.T) {
	cfg := testConfig()
	services, err := InitializeServices(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(services.Close)

	tests := []struct {
		name   string
		db     *DatabaseComponents
		checks []string
	}{
		{name: "order API only", checks: []string{"order_api_circuit"}},
		{
			name: "database breakers",
			db: &DatabaseComponents{
				PriceTablesCircuitBreaker: databaseBreaker(config.DatabaseConfig{CircuitBreakerFailureThreshold: 3}, "mongodb-price-tables"),
				LogsCircuitBreaker:        databaseBreaker(config.DatabaseConfig{CircuitBreakerFailureThreshold: 3}, "mongodb-logs"),
			},
			checks: []string{"order_api_circuit", "mongodb_price_tables_circuit", "mongodb_logs_circuit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			components := InitializeRouter(services, tt.db, cfg)

			router := gin.New()
			components.HealthHandler.Register(router)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			require.Equal(t, http.StatusOK, w.Code)

			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "ok", body.Status)
			assert.Len(t, body.Checks, len(tt.checks))
			for _, name := range tt.checks {
				assert.Equal(t, "closed", body.Checks[name])
			}
		})
	}
}
