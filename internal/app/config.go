package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (MOTO_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (MOTO_DATABASE_URL or DATABASE_URL); empty runs the seeded in-memory store" flag:"database-url"`
	AdminToken  string `usage:"Static token for the admin API (MOTO_ADMIN_TOKEN); empty disables admin routes" flag:"admin-token"`
	Shipping    ShippingConfig
	Order       OrderConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// ShippingConfig controls the flat shipping fee and its waiver threshold.
// Amounts are in Vietnamese đồng.
type ShippingConfig struct {
	FreeThreshold int64 `default:"5000000" usage:"Order amount from which shipping is free" flag:"free-shipping-threshold"`
	Fee           int64 `default:"150000"  usage:"Flat shipping fee below the threshold" flag:"shipping-fee"`
}

// OrderConfig controls order code generation.
type OrderConfig struct {
	CodePrefix string `default:"MB" usage:"Order code prefix (MB yields MB-20260830-0001)" flag:"order-code-prefix"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins []string `default:"*" usage:"Allowed CORS origins"`
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
		EnvPrefix: "MOTO",
		Files:     []string{"config.yaml", "/etc/moto/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.Shipping.FreeThreshold <= 0 || cfg.Shipping.Fee < 0 {
		return nil, errors.New("invalid shipping configuration")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's MOTO_-prefixed configuration.
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
