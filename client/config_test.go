package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ORIGINALS_ENVIRONMENT", "development")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("ORIGINALS_API_BASE_URL", "https://originals.example/api")
	t.Setenv("ORIGINALS_CACHE_STALE_TIME", "30s")
	t.Setenv("ORIGINALS_CACHE_RETRY", "0")
	t.Setenv("ORIGINALS_ONBOARDING_WATCHDOG", "3s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://originals.example/api", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.CacheStaleTime)
	assert.Equal(t, 0, cfg.CacheRetry)
	assert.Equal(t, 3*time.Second, cfg.OnboardingWatchdog)
}

func TestLoadConfig_ProductionDisablesDemoWallets(t *testing.T) {
	t.Setenv("ORIGINALS_ENVIRONMENT", "production")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.DemoWallets)

	t.Setenv("ORIGINALS_DEMO_WALLETS", "true")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.DemoWallets)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Environment = "staging"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.APIBaseURL = "localhost"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.CacheRetry = -1
	assert.Error(t, bad.Validate())
}
