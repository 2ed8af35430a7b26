package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (GATEWAY_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (GATEWAY_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	// CheckoutBaseURL is the shop frontend base the customer is redirected
	// back to after checkout.
	CheckoutBaseURL string `usage:"Shop base URL for payment redirects" flag:"checkout-base-url"`
	Gateway         GatewayConfig
	Payload         PayloadConfig
	RateLimit       RateLimitConfig
	CORS            CORSConfig
	Graceful        GracefulConfig
}

// GatewayConfig holds the payment processor API connection parameters.
type GatewayConfig struct {
	BaseURL string        `default:"https://app-wallet.com" usage:"Gateway API base URL" flag:"gateway-base-url"`
	SpaceID int64         `usage:"Gateway space the transactions are created in" flag:"gateway-space-id"`
	UserID  string        `usage:"Gateway application user ID" flag:"gateway-user-id"`
	Secret  string        `usage:"Gateway application user secret" flag:"gateway-secret"`
	Timeout time.Duration `default:"30s" usage:"Gateway request timeout" flag:"gateway-timeout"`
}

// PayloadConfig holds the merchant-level payload assembly settings.
type PayloadConfig struct {
	// SpaceViewID pins the gateway payment page view; 0 leaves it unset.
	SpaceViewID int64 `default:"0" usage:"Gateway space view ID (0 = unset)" flag:"space-view-id"`
	// EnforceConsistency turns line item total mismatches into hard errors
	// instead of adjustment lines.
	EnforceConsistency bool   `default:"false" usage:"Fail instead of adjusting on line item total mismatch" flag:"enforce-consistency"`
	DefaultLocale      string `default:"en-GB" usage:"Language code used when the customer has none" flag:"default-locale"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "GATEWAY",
		Files:     []string{"config.yaml", "/etc/checkout-gateway/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set GATEWAY_DATABASE_URL or DATABASE_URL")
	}
	if cfg.CheckoutBaseURL == "" {
		return nil, errors.New("checkout base URL is required: set GATEWAY_CHECKOUT_BASE_URL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL and
// PORT to the application's GATEWAY_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
