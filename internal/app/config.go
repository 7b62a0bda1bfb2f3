package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/shopfront/cartcore/internal/domain/pricing"
)

// Config holds the complete application configuration, loadable from
// environment variables (CART_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (CART_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	RedisURL    string `default:"redis://localhost:6379/0" usage:"Redis connection URL for the cart slot (CART_REDIS_URL or REDIS_URL)" flag:"redis-url"`

	// CartID keys the single persisted cart slot: one record per
	// browser/session in the original system, one slot per deployment here.
	CartID  string        `default:"default" usage:"Cart slot identifier"`
	CartTTL time.Duration `default:"720h" usage:"Cart slot expiry; zero keeps carts forever" flag:"cart-ttl"`

	// TaxRate is the flat externally configured rate; no jurisdictional
	// lookup happens in this core.
	TaxRate string `default:"0.07" usage:"Flat tax rate applied to the subtotal" flag:"tax-rate"`

	LoginPath   string `default:"/login" usage:"Redirect target for unauthenticated checkout attempts" flag:"login-path"`
	TokenPepper string `usage:"HMAC pepper for shopper token hashing (CART_TOKEN_PEPPER)" flag:"token-pepper"`

	Shipping  []ShippingOptionConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// ShippingOptionConfig is one entry of the externally supplied shipping
// catalog. When the list is empty the built-in three-tier catalog is
// used.
type ShippingOptionConfig struct {
	ID            string `usage:"Shipping option identifier"`
	Label         string `usage:"Display label"`
	Price         string `usage:"Price as a decimal string"`
	ETA           string `usage:"Estimated delivery label"`
	MinOrderValue string `usage:"Minimum subtotal for eligibility; empty means always eligible" flag:"min-order-value"`
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
		EnvPrefix: "CART",
		Files:     []string{"config.yaml", "/etc/cartcore/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set CART_DATABASE_URL or DATABASE_URL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL and
// PORT to the application's CART_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if v := os.Getenv("REDIS_URL"); v != "" && c.RedisURL == "redis://localhost:6379/0" {
		c.RedisURL = v
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}

// ParseTaxRate parses the configured flat tax rate.
func (c *Config) ParseTaxRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.TaxRate)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "tax rate %q", c.TaxRate)
	}
	if rate.IsNegative() {
		return decimal.Zero, errors.Errorf("tax rate %q is negative", c.TaxRate)
	}
	return rate, nil
}

// BuildShippingPolicy converts the configured shipping catalog into a
// pricing.Policy, falling back to the built-in catalog when none is
// configured.
func (c *Config) BuildShippingPolicy() (pricing.Policy, error) {
	if len(c.Shipping) == 0 {
		return pricing.DefaultPolicy(), nil
	}

	options := make([]pricing.Option, len(c.Shipping))
	for i, sc := range c.Shipping {
		price, err := decimal.NewFromString(sc.Price)
		if err != nil {
			return pricing.Policy{}, errors.Wrapf(err, "shipping option %q price", sc.ID)
		}
		opt := pricing.Option{
			ID:       sc.ID,
			Label:    sc.Label,
			Price:    price,
			ETALabel: sc.ETA,
		}
		if sc.MinOrderValue != "" {
			minValue, err := decimal.NewFromString(sc.MinOrderValue)
			if err != nil {
				return pricing.Policy{}, errors.Wrapf(err, "shipping option %q min order value", sc.ID)
			}
			opt.MinOrderValue = &minValue
		}
		options[i] = opt
	}
	return pricing.NewPolicy(options), nil
}
