//go:build !integration

package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/print-order-service/config"
	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/domain/dto"
	"github.com/guttosm/print-order-service/internal/service"
)

func TestInitializeServices(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		wantValidator bool
	}{
		{name: "auth disabled", mutate: func(*config.Config) {}},
		{
			name:   "auth enabled with api keys only",
			mutate: func(c *config.Config) { c.Auth.Enabled = true },
		},
		{
			name: "auth enabled with jwt secret",
			mutate: func(c *config.Config) {
				c.Auth.Enabled = true
				c.Auth.JWTSecretKey = "campus-secret"
				c.Auth.JWTIssuer = "print-auth"
			},
			wantValidator: true,
		},
		{
			name:   "jwt secret ignored while auth is off",
			mutate: func(c *config.Config) { c.Auth.JWTSecretKey = "campus-secret" },
		},
		{
			name: "price confirmation with bearer token",
			mutate: func(c *config.Config) {
				c.Pricing.ConfirmPrices = true
				c.OrderAPI.Token = "svc-token"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			components, err := InitializeServices(cfg, nil)
			require.NoError(t, err)
			t.Cleanup(components.Close)

			assert.NotNil(t, components.PriceTables)
			assert.NotNil(t, components.SessionStore)
			assert.NotNil(t, components.Sessions)
			assert.NotNil(t, components.Orders)
			assert.NotNil(t, components.OrderAPI)
			require.NotNil(t, components.OrderAPIBreaker)
			assert.Equal(t, "order-api", components.OrderAPIBreaker.GetStats().Name)
			assert.Equal(t, tt.wantValidator, components.TokenValidator != nil)
		})
	}
}

func TestInitializeServices_ValidatorAcceptsSignedTokens(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.JWTSecretKey = "campus-secret"
	cfg.Auth.JWTIssuer = "print-auth"

	components, err := InitializeServices(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(components.Close)

	token, err := service.SignToken("campus-secret", dto.Claims{UserID: "u-1", Roles: []string{"admin"}}, "print-auth", time.Minute)
	require.NoError(t, err)

	claims, err := components.TokenValidator.ValidateToken(t.Context(), token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
}

func TestInitializeServices_FallbackTable(t *testing.T) {
	components, err := InitializeServices(testConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(components.Close)

	active, err := components.PriceTables.Active(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, active.Version)
	assert.True(t, active.BindingRates[model.BindingSlide].Equal(testConfig().Pricing.BindingSlide))
}

func TestInitializeServices_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "unparseable order API URL", mutate: func(c *config.Config) { c.OrderAPI.URL = "http://[::1" }},
		{name: "ftp order API URL", mutate: func(c *config.Config) { c.OrderAPI.URL = "ftp://orders.campus.test" }},
		{name: "negative delivery rate", mutate: func(c *config.Config) { c.Pricing.Delivery = c.Pricing.Delivery.Neg() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			components, err := InitializeServices(cfg, nil)
			assert.Error(t, err)
			assert.Nil(t, components)
		})
	}
}
