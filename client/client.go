package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/originals/collab-client/client/internal/clock"
	"github.com/originals/collab-client/client/internal/coins"
	"github.com/originals/collab-client/client/internal/gateway"
	"github.com/originals/collab-client/client/internal/identity"
	"github.com/originals/collab-client/client/internal/localstore"
	"github.com/originals/collab-client/client/internal/onboarding"
	"github.com/originals/collab-client/client/internal/query"
	"github.com/originals/collab-client/client/internal/querycache"
)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client is the data-sync layer of one session: one identity, one cache.
type Client struct {
	cfg    Config
	http   *http.Client
	log    zerolog.Logger
	clock  clock.Clock
	exec   executor
	tokens gateway.TokenSource

	store        identity.Store
	closeStore   func() error
	coinProvider coins.Provider
	notifier     query.Notifier

	gw         *gateway.Gateway
	resolver   *identity.Resolver
	tracker    *onboarding.Tracker
	cache      *querycache.Cache
	coins      *coins.Cache
	queries    *query.Layer
	stopWatch  func()
	watchMu    sync.Mutex
	closedOnce uint32
}

// New wires the gateway, identity resolver, onboarding tracker, query cache
// and query layer around provider.
func New(cfg Config, provider identity.Provider, opts ...Option) (*Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("identity provider cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().HTTPTimeout
	}
	c := &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: timeout},
		log:   log.Logger,
		clock: clock.Real{},
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.tokens == nil {
		c.tokens = gateway.TokenSourceFunc(provider.AccessToken)
	}
	if c.store == nil {
		s, err := openDefaultStore(cfg.StateDir)
		if err != nil {
			return nil, err
		}
		c.store, c.closeStore = s, s.Close
	}
	exec, err := newDefaultExecutor()
	if err != nil {
		c.closeOwnedStore()
		return nil, fmt.Errorf("refetch queue config: %w", err)
	}
	c.exec = exec
	if c.coinProvider == nil {
		c.coinProvider = coins.NewHTTPProvider(cfg.CoinAPIURL, c.http)
	}
	if c.notifier == nil {
		c.notifier = query.LogNotifier{Log: c.log.With().Str("component", "notify").Logger()}
	}

	c.gw = gateway.New(cfg.APIBaseURL, c.http, c.tokens, &c.log)
	c.resolver = identity.NewResolver(provider, c.store, identity.Config{
		DemoWallets:  cfg.DemoWallets,
		ConnectDelay: cfg.DemoConnectDelay,
	}, &c.log)
	c.cache = querycache.New(querycache.Policy{
		StaleTime:          cfg.CacheStaleTime,
		GCTime:             cfg.CacheGCTime,
		Retry:              cfg.CacheRetry,
		RetryDelay:         cfg.CacheRetryDelay,
		RefetchOnReconnect: true,
		RefetchOnFocus:     false,
	}, c.clock, c.exec, &c.log)
	c.coins = coins.NewCache(c.coinProvider, cfg.CoinCacheTTL, c.clock, &c.log)
	c.tracker = onboarding.New(c.gw, c.resolver, localstore.NewMemory(), onboarding.Config{
		Attempts:  cfg.OnboardingAttempts,
		BaseDelay: cfg.OnboardingBaseDelay,
		Watchdog:  cfg.OnboardingWatchdog,
	}, c.clock, &c.log)
	c.queries = query.New(c.gw, c.cache, c.resolver, c.notifier, c.coins, &c.log)

	c.resolver.OnChange(c.identityChanged)
	if err := c.cache.StartJanitor(""); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func openDefaultStore(dir string) (*localstore.SQLite, error) {
	path, err := localstore.DBPath(dir)
	if err != nil {
		return nil, err
	}
	return localstore.OpenSQLite(context.Background(), path)
}

// identityChanged drops everything cached for the previous wallet. In-flight
// fetches started under it are discarded when they complete.
func (c *Client) identityChanged(prev, next string) {
	kind := "switch"
	switch {
	case prev == "":
		kind = "connect"
	case next == "":
		kind = "disconnect"
	}
	identityChangesTotal.WithLabelValues(kind).Inc()
	c.log.Debug().Str("old", prev).Str("new", next).Msg("wallet changed, clearing query cache")
	c.cache.Clear()
	if prev != "" {
		c.tracker.Forget(prev)
	}
}

// Close stops background work and releases the owned store. Safe to call
// multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	c.disarmWatchdog()
	if c.cache != nil {
		c.cache.StopJanitor()
	}
	if c.exec != nil {
		c.exec.Stop()
	}
	return c.closeOwnedStore()
}

func (c *Client) closeOwnedStore() error {
	if c.closeStore == nil {
		return nil
	}
	fn := c.closeStore
	c.closeStore = nil
	return fn()
}

// --------------------------------------------------------------------
// Components
// --------------------------------------------------------------------

// Identity returns the wallet resolver.
func (c *Client) Identity() *identity.Resolver { return c.resolver }

// Onboarding returns the onboarding status tracker.
func (c *Client) Onboarding() *onboarding.Tracker { return c.tracker }

// Queries returns the domain query layer.
func (c *Client) Queries() *query.Layer { return c.queries }

// Coins returns the creator-coin cache.
func (c *Client) Coins() *coins.Cache { return c.coins }

// --------------------------------------------------------------------
// Session lifecycle
// --------------------------------------------------------------------

// Start resolves the wallet and checks its onboarding status, with the
// watchdog armed. It returns the resolved address, "" when none.
func (c *Client) Start(ctx context.Context) (string, error) {
	wallet, err := c.resolver.Resolve(ctx)
	if err != nil || wallet == "" {
		return wallet, err
	}
	return wallet, c.checkOnboarding(ctx)
}

// Connect runs the provider login (or the demo connect) and then Start's
// onboarding check.
func (c *Client) Connect(ctx context.Context) (string, error) {
	wallet, err := c.resolver.Connect(ctx)
	if err != nil || wallet == "" {
		return wallet, err
	}
	return wallet, c.checkOnboarding(ctx)
}

func (c *Client) checkOnboarding(ctx context.Context) error {
	c.watchMu.Lock()
	if c.stopWatch != nil {
		c.stopWatch()
	}
	c.stopWatch = c.tracker.StartWatchdog()
	c.watchMu.Unlock()
	return c.tracker.Check(ctx)
}

func (c *Client) disarmWatchdog() {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()
	if c.stopWatch != nil {
		c.stopWatch()
		c.stopWatch = nil
	}
}

// Reconnected refetches observed stale queries after connectivity returns
// and retries a failed onboarding check.
func (c *Client) Reconnected(ctx context.Context) int {
	n := c.cache.Reconnected()
	reconnectRefetchesTotal.Add(float64(n))
	if err := c.tracker.Retry(ctx); err != nil {
		c.log.Warn().Err(err).Msg("onboarding retry after reconnect failed")
	}
	return n
}

// Disconnect forgets the wallet. Cached data of the old wallet is dropped so
// none of it can be shown to the next one.
func (c *Client) Disconnect(ctx context.Context) error {
	c.disarmWatchdog()
	err := c.resolver.Disconnect(ctx)
	c.cache.Clear()
	c.coins.Clear()
	return err
}
