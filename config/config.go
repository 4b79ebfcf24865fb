// Package config provides configuration management for the print order service.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/guttosm/print-order-service/internal/domain/model"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Pricing  PricingConfig
	Session  SessionConfig
	OrderAPI OrderAPIConfig
	Auth     AuthConfig
	Database DatabaseConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port              string
	RateLimit         int
	RateWindow        time.Duration
	CORSOrigins       []string
	SwaggerUser       string
	SwaggerPass       string
	RequestTimeout    time.Duration
	EnableIdempotency bool
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Pretty bool
}

// PricingConfig holds the fallback price table and price confirmation settings.
type PricingConfig struct {
	Currency        string
	Monochrome      decimal.Decimal
	Colored         decimal.Decimal
	BindingComb     decimal.Decimal
	BindingSlide    decimal.Decimal
	BindingTape     decimal.Decimal
	Delivery        decimal.Decimal
	ConfirmPrices   bool
	RefreshInterval time.Duration
}

// SessionConfig holds order session store configuration.
type SessionConfig struct {
	TTL      time.Duration
	Capacity int
	Shards   int
}

// OrderAPIConfig holds the order API client configuration.
type OrderAPIConfig struct {
	URL            string
	Timeout        time.Duration
	Token          string
	UploadMaxBytes int64
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// AuthConfig holds authentication configuration. Tokens are issued by the
// order API's auth service; this service only validates them.
type AuthConfig struct {
	Enabled      bool
	APIKeys      map[string]bool
	// JWTSecretKey switches admin routes to bearer tokens when set.
	// Without it API keys guard them.
	JWTSecretKey string
	JWTIssuer    string
	AdminRole    string
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	LogsTTL      time.Duration
	Enabled      bool
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// Load creates a Config from environment variables. Variables in the file
// named by ENV_FILE (default .env) are loaded first without overriding the
// ones already set.
func Load() Config {
	_ = loadEnvFile(getEnv("ENV_FILE", ".env"))

	defaults := model.DefaultPriceTable()

	return Config{
		Server: ServerConfig{
			Port:              getEnv("PORT", "8080"),
			RateLimit:         getEnvInt("RATE_LIMIT", 100),
			RateWindow:        getEnvDuration("RATE_WINDOW", time.Minute),
			CORSOrigins:       parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser:       getEnv("SWAGGER_USER", ""),
			SwaggerPass:       getEnv("SWAGGER_PASS", ""),
			RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
			EnableIdempotency: getEnvBool("IDEMPOTENCY_ENABLED", true),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
		Pricing: PricingConfig{
			Currency:        getEnv("PRICE_CURRENCY", defaults.Currency),
			Monochrome:      getEnvDecimal("PRICE_MONOCHROME", defaults.MonochromeRate),
			Colored:         getEnvDecimal("PRICE_COLORED", defaults.ColoredRate),
			BindingComb:     getEnvDecimal("PRICE_BINDING_COMB", defaults.BindingRates[model.BindingComb]),
			BindingSlide:    getEnvDecimal("PRICE_BINDING_SLIDE", defaults.BindingRates[model.BindingSlide]),
			BindingTape:     getEnvDecimal("PRICE_BINDING_TAPE", defaults.BindingRates[model.BindingTape]),
			Delivery:        getEnvDecimal("PRICE_DELIVERY", defaults.DeliveryRate),
			ConfirmPrices:   getEnvBool("PRICE_CONFIRM", false),
			RefreshInterval: getEnvDuration("PRICE_TABLE_REFRESH", 30*time.Second),
		},
		Session: SessionConfig{
			TTL:      getEnvDuration("SESSION_TTL", 2*time.Hour),
			Capacity: getEnvInt("SESSION_CAPACITY", 10000),
			Shards:   getEnvInt("SESSION_SHARDS", 16),
		},
		OrderAPI: OrderAPIConfig{
			URL:                            getEnv("ORDER_API_URL", "http://localhost:5000/api/"),
			Timeout:                        getEnvDuration("ORDER_API_TIMEOUT", 15*time.Second),
			Token:                          getEnv("ORDER_API_TOKEN", ""),
			UploadMaxBytes:                 getEnvInt64("UPLOAD_MAX_BYTES", 50<<20),
			CircuitBreakerFailureThreshold: getEnvInt("ORDER_API_CB_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("ORDER_API_CB_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("ORDER_API_CB_TIMEOUT", 30*time.Second),
		},
		Auth: AuthConfig{
			Enabled:      getEnvBool("AUTH_ENABLED", false),
			APIKeys:      parseAPIKeys(os.Getenv("API_KEYS")),
			JWTSecretKey: getEnv("JWT_SECRET_KEY", ""),
			JWTIssuer:    getEnv("JWT_ISSUER", ""),
			AdminRole:    getEnv("ADMIN_ROLE", "admin"),
		},
		Database: DatabaseConfig{
			URI:                            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   getEnv("MONGODB_DATABASE", "print_orders"),
			LogsTTL:                        getEnvDuration("MONGODB_LOGS_TTL", 30*24*time.Hour),
			Enabled:                        getEnvBool("MONGODB_ENABLED", false),
			CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
	}
}

// PriceTable builds the fallback price table from the pricing section.
func (p PricingConfig) PriceTable() model.PriceTable {
	return model.PriceTable{
		Version:        1,
		Currency:       p.Currency,
		MonochromeRate: p.Monochrome,
		ColoredRate:    p.Colored,
		BindingRates: map[model.BindingMethod]decimal.Decimal{
			model.BindingNone:  decimal.Zero,
			model.BindingComb:  p.BindingComb,
			model.BindingSlide: p.BindingSlide,
			model.BindingTape:  p.BindingTape,
		},
		DeliveryRate: p.Delivery,
	}
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseAPIKeys(s string) map[string]bool {
	if s == "" {
		return nil
	}
	keys := strings.Split(s, ",")
	result := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			result[k] = true
		}
	}
	return result
}

func parseCORSOrigins(s string) []string {
	// Default origins for local development
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
