package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/print-order-service/internal/domain/model"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values", func(t *testing.T) {
		os.Clearenv()
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
		assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
		assert.True(t, cfg.Server.EnableIdempotency)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
		assert.Equal(t, 10000, cfg.Session.Capacity)
		assert.Equal(t, int64(50<<20), cfg.OrderAPI.UploadMaxBytes)
		assert.False(t, cfg.Pricing.ConfirmPrices)
		assert.False(t, cfg.Auth.Enabled)
		assert.Equal(t, "admin", cfg.Auth.AdminRole)
		assert.Empty(t, cfg.Auth.JWTSecretKey)
		assert.Equal(t, "print_orders", cfg.Database.DatabaseName)
	})

	t.Run("default pricing is the standard price table", func(t *testing.T) {
		os.Clearenv()
		defer os.Clearenv()

		table := Load().Pricing.PriceTable()

		require.NoError(t, table.Validate())
		expected := model.DefaultPriceTable()
		assert.Equal(t, expected.Currency, table.Currency)
		assert.True(t, expected.MonochromeRate.Equal(table.MonochromeRate))
		assert.True(t, expected.ColoredRate.Equal(table.ColoredRate))
		assert.True(t, expected.DeliveryRate.Equal(table.DeliveryRate))
		for method, rate := range expected.BindingRates {
			assert.True(t, rate.Equal(table.BindingRates[method]), string(method))
		}
	})

	t.Run("loads values from environment", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("PORT", "9090")
		_ = os.Setenv("RATE_LIMIT", "50")
		_ = os.Setenv("RATE_WINDOW", "30s")
		_ = os.Setenv("SESSION_TTL", "45m")
		_ = os.Setenv("SESSION_CAPACITY", "500")
		_ = os.Setenv("PRICE_MONOCHROME", "0.75")
		_ = os.Setenv("PRICE_BINDING_TAPE", "3.5")
		_ = os.Setenv("PRICE_CONFIRM", "true")
		_ = os.Setenv("ORDER_API_URL", "https://orders.campus.test/api/")
		_ = os.Setenv("UPLOAD_MAX_BYTES", "1048576")
		_ = os.Setenv("AUTH_ENABLED", "true")
		_ = os.Setenv("API_KEYS", "key1,key2")
		_ = os.Setenv("JWT_ISSUER", "campus-auth")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, 50, cfg.Server.RateLimit)
		assert.Equal(t, 30*time.Second, cfg.Server.RateWindow)
		assert.Equal(t, 45*time.Minute, cfg.Session.TTL)
		assert.Equal(t, 500, cfg.Session.Capacity)
		assert.True(t, cfg.Pricing.Monochrome.Equal(decimal.RequireFromString("0.75")))
		assert.True(t, cfg.Pricing.BindingTape.Equal(decimal.RequireFromString("3.5")))
		assert.True(t, cfg.Pricing.ConfirmPrices)
		assert.Equal(t, "https://orders.campus.test/api/", cfg.OrderAPI.URL)
		assert.Equal(t, int64(1048576), cfg.OrderAPI.UploadMaxBytes)
		assert.True(t, cfg.Auth.Enabled)
		assert.True(t, cfg.Auth.APIKeys["key1"])
		assert.True(t, cfg.Auth.APIKeys["key2"])
		assert.Equal(t, "campus-auth", cfg.Auth.JWTIssuer)
	})

	t.Run("handles invalid values gracefully", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("RATE_LIMIT", "invalid")
		_ = os.Setenv("AUTH_ENABLED", "invalid")
		_ = os.Setenv("RATE_WINDOW", "invalid")
		_ = os.Setenv("PRICE_COLORED", "two")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.False(t, cfg.Auth.Enabled)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
		assert.True(t, cfg.Pricing.Colored.Equal(decimal.NewFromInt(2)))
	})

	t.Run("parses API keys with whitespace", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("API_KEYS", " key1 , key2 , key3 ")
		defer os.Clearenv()

		cfg := Load()

		assert.True(t, cfg.Auth.APIKeys["key1"])
		assert.True(t, cfg.Auth.APIKeys["key2"])
		assert.True(t, cfg.Auth.APIKeys["key3"])
	})

	t.Run("returns nil for empty API keys", func(t *testing.T) {
		os.Clearenv()
		defer os.Clearenv()

		cfg := Load()

		assert.Nil(t, cfg.Auth.APIKeys)
	})

	t.Run("appends configured CORS origins to the local defaults", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("CORS_ORIGINS", "https://print.campus.test, ")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000", "https://print.campus.test"}, cfg.Server.CORSOrigins)
	})
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=7070\nSESSION_CAPACITY=42\nPRICE_DELIVERY=2.50\n"), 0o600))

	t.Run("reads variables from the file", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("ENV_FILE", path)
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, "7070", cfg.Server.Port)
		assert.Equal(t, 42, cfg.Session.Capacity)
		assert.True(t, cfg.Pricing.Delivery.Equal(decimal.RequireFromString("2.5")))
	})

	t.Run("environment wins over the file", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("ENV_FILE", path)
		_ = os.Setenv("PORT", "6060")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, "6060", cfg.Server.Port)
	})

	t.Run("missing file is ignored", func(t *testing.T) {
		assert.NoError(t, loadEnvFile(filepath.Join(dir, "absent.env")))
		assert.NoError(t, loadEnvFile(""))
	})
}
