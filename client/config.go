package client

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment names the deployment the client talks to.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the client settings. LoadConfig fills it from ORIGINALS_
// prefixed environment variables.
type Config struct {
	APIBaseURL  string      `envconfig:"API_BASE_URL" default:"http://localhost:3000/api"`
	CoinAPIURL  string      `envconfig:"COIN_API_URL" default:"https://api-sdk.zora.engineering"`
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// DemoWallets enables the placeholder wallet pool. Off in production
	// unless set explicitly.
	DemoWallets      bool          `envconfig:"DEMO_WALLETS" default:"true"`
	DemoConnectDelay time.Duration `envconfig:"DEMO_CONNECT_DELAY" default:"1s"`

	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	// StateDir holds the durable wallet store. Empty means the default data dir.
	StateDir string `envconfig:"STATE_DIR" default:""`

	CacheStaleTime  time.Duration `envconfig:"CACHE_STALE_TIME" default:"5m"`
	CacheGCTime     time.Duration `envconfig:"CACHE_GC_TIME" default:"10m"`
	CacheRetry      int           `envconfig:"CACHE_RETRY" default:"2"`
	CacheRetryDelay time.Duration `envconfig:"CACHE_RETRY_DELAY" default:"1s"`

	OnboardingAttempts  int           `envconfig:"ONBOARDING_ATTEMPTS" default:"3"`
	OnboardingBaseDelay time.Duration `envconfig:"ONBOARDING_BASE_DELAY" default:"1s"`
	OnboardingWatchdog  time.Duration `envconfig:"ONBOARDING_WATCHDOG" default:"10s"`

	CoinCacheTTL time.Duration `envconfig:"COIN_CACHE_TTL" default:"5m"`
}

// Validate checks URLs and the environment name.
func (c *Config) Validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvTesting, EnvProduction:
	default:
		return fmt.Errorf("unsupported ENVIRONMENT: %s", c.Environment)
	}
	for name, raw := range map[string]string{"API_BASE_URL": c.APIBaseURL, "COIN_API_URL": c.CoinAPIURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s: %q", name, raw)
		}
	}
	if c.CacheRetry < 0 {
		return fmt.Errorf("CACHE_RETRY must be >= 0")
	}
	return nil
}

// DefaultConfig returns the defaults without reading the environment.
func DefaultConfig() Config {
	return Config{
		APIBaseURL:          "http://localhost:3000/api",
		CoinAPIURL:          "https://api-sdk.zora.engineering",
		Environment:         EnvDevelopment,
		DemoWallets:         true,
		DemoConnectDelay:    time.Second,
		HTTPTimeout:         30 * time.Second,
		CacheStaleTime:      5 * time.Minute,
		CacheGCTime:         10 * time.Minute,
		CacheRetry:          2,
		CacheRetryDelay:     time.Second,
		OnboardingAttempts:  3,
		OnboardingBaseDelay: time.Second,
		OnboardingWatchdog:  10 * time.Second,
		CoinCacheTTL:        5 * time.Minute,
	}
}

// LoadConfig parses ORIGINALS_* environment variables.
// Example: ORIGINALS_API_BASE_URL, ORIGINALS_CACHE_STALE_TIME.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("ORIGINALS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if _, set := os.LookupEnv("ORIGINALS_DEMO_WALLETS"); !set && cfg.Environment == EnvProduction {
		cfg.DemoWallets = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("api_base_url", cfg.APIBaseURL).
		Str("coin_api_url", cfg.CoinAPIURL).
		Str("environment", string(cfg.Environment)).
		Bool("demo_wallets", cfg.DemoWallets).
		Dur("http_timeout", cfg.HTTPTimeout).
		Dur("cache_stale_time", cfg.CacheStaleTime).
		Dur("cache_gc_time", cfg.CacheGCTime).
		Int("cache_retry", cfg.CacheRetry).
		Dur("onboarding_watchdog", cfg.OnboardingWatchdog).
		Msg("Configuration loaded")

	return &cfg, nil
}
