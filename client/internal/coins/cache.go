package coins

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/originals/collab-client/client/internal/clock"
	"github.com/originals/collab-client/client/internal/types"
)

const (
	DefaultTTL   = 5 * time.Minute
	batchSize    = 5
	batchSpacing = 100 * time.Millisecond
)

type item[T any] struct {
	v  T
	at time.Time
}

// Cache wraps a Provider with a per-address TTL cache. Lookups that find
// nothing are not cached.
type Cache struct {
	p     Provider
	ttl   time.Duration
	clock clock.Clock
	pace  *rate.Limiter
	log   zerolog.Logger

	mu       sync.Mutex
	coins    map[string]item[*types.CoinData]
	profiles map[string]item[*Profile]
}

// NewCache wraps p. ttl <= 0 means DefaultTTL; clk and logger may be nil.
func NewCache(p Provider, ttl time.Duration, clk clock.Clock, logger *zerolog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clk == nil {
		clk = clock.Real{}
	}
	lg := log.Logger
	if logger != nil {
		lg = *logger
	}
	return &Cache{
		p:        p,
		ttl:      ttl,
		clock:    clk,
		pace:     rate.NewLimiter(rate.Every(batchSpacing), 1),
		log:      lg.With().Str("component", "coins").Logger(),
		coins:    make(map[string]item[*types.CoinData]),
		profiles: make(map[string]item[*Profile]),
	}
}

// Coin returns coin data for address, from cache while fresh.
func (c *Cache) Coin(ctx context.Context, address string) (*types.CoinData, error) {
	if v, ok := c.Cached(address); ok {
		lookupsTotal.WithLabelValues("coin", "hit").Inc()
		return v, nil
	}
	lookupsTotal.WithLabelValues("coin", "miss").Inc()
	v, err := c.p.Coin(ctx, address)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.coins[address] = item[*types.CoinData]{v: v, at: c.clock.Now()}
	c.mu.Unlock()
	return v, nil
}

// Profile returns the profile for identifier, from cache while fresh.
func (c *Cache) Profile(ctx context.Context, identifier string) (*Profile, error) {
	c.mu.Lock()
	it, ok := c.profiles[identifier]
	c.mu.Unlock()
	if ok && c.clock.Now().Sub(it.at) < c.ttl {
		lookupsTotal.WithLabelValues("profile", "hit").Inc()
		return it.v, nil
	}
	lookupsTotal.WithLabelValues("profile", "miss").Inc()
	v, err := c.p.Profile(ctx, identifier)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.profiles[identifier] = item[*Profile]{v: v, at: c.clock.Now()}
	c.mu.Unlock()
	return v, nil
}

// Cached returns fresh cached coin data without fetching.
func (c *Cache) Cached(address string) (*types.CoinData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.coins[address]
	if !ok || c.clock.Now().Sub(it.at) >= c.ttl {
		return nil, false
	}
	return it.v, true
}

// Invalidate drops both coin and profile data for address.
func (c *Cache) Invalidate(address string) {
	c.mu.Lock()
	delete(c.coins, address)
	delete(c.profiles, address)
	c.mu.Unlock()
}

// Clear drops everything.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.coins = make(map[string]item[*types.CoinData])
	c.profiles = make(map[string]item[*Profile])
	c.mu.Unlock()
}

// Batch fetches coin data for many addresses, five at a time with a short
// pause between batches. Addresses that fail or have no coin are left out.
func (c *Cache) Batch(ctx context.Context, addresses []string) (map[string]*types.CoinData, error) {
	out := make(map[string]*types.CoinData, len(addresses))
	var mu sync.Mutex
	for start := 0; start < len(addresses); start += batchSize {
		end := min(start+batchSize, len(addresses))
		if err := c.pace.Wait(ctx); err != nil {
			return out, err
		}
		var wg sync.WaitGroup
		for _, addr := range addresses[start:end] {
			if addr == "" {
				continue
			}
			wg.Add(1)
			go func(addr string) {
				defer wg.Done()
				v, err := c.Coin(ctx, addr)
				if err != nil {
					if !errors.Is(err, ErrNoCoin) {
						c.log.Warn().Err(err).Str("address", addr).Msg("coin lookup failed")
					}
					return
				}
				mu.Lock()
				out[addr] = v
				mu.Unlock()
			}(addr)
		}
		wg.Wait()
	}
	return out, ctx.Err()
}

// DisplayName is the profile name, or a shortened wallet when there is none.
func DisplayName(p *Profile, wallet string) string {
	if p != nil && p.Name != "" {
		return p.Name
	}
	if len(wallet) <= 8 {
		return "@" + wallet
	}
	return "@" + wallet[:8] + "..."
}
