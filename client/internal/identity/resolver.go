// Package identity derives the one canonical wallet address of the session.
package identity

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/originals/collab-client/devmode"
)

// StorageKey is the durable key holding the last resolved address.
const StorageKey = "zora-wallet"

// Store is durable key/value storage.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Config controls the resolver.
type Config struct {
	// DemoWallets enables the placeholder pool fallback.
	DemoWallets bool
	// ConnectDelay simulates wallet connection latency in demo mode.
	ConnectDelay time.Duration
}

// Resolver owns the current wallet address. Listeners fire on every change,
// including to and from the empty address.
type Resolver struct {
	provider Provider
	store    Store
	cfg      Config
	log      zerolog.Logger
	pick     func(n int) int

	mu        sync.RWMutex
	addr      string
	epoch     uint64
	listeners []func(prev, next string)
}

// NewResolver builds a Resolver. logger may be nil.
func NewResolver(p Provider, s Store, cfg Config, logger *zerolog.Logger) *Resolver {
	lg := log.Logger
	if logger != nil {
		lg = *logger
	}
	return &Resolver{
		provider: p,
		store:    s,
		cfg:      cfg,
		log:      lg.With().Str("component", "identity").Logger(),
		pick:     rand.IntN,
	}
}

// Resolve runs the precedence chain and returns the resulting address. It is
// a no-op returning "" while the provider is not ready.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if !r.provider.Ready() {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	addr, source := r.candidate(ctx)
	if addr == "" {
		r.set("")
		return "", nil
	}
	if source != "storage" {
		r.persist(ctx, addr)
	}
	r.log.Debug().Str("wallet", addr).Str("source", source).Msg("identity resolved")
	r.set(addr)
	return addr, nil
}

func (r *Resolver) candidate(ctx context.Context) (string, string) {
	if r.provider.Authenticated() {
		if u := r.provider.User(); u != nil {
			for _, acct := range u.LinkedAccounts {
				if acct.Type == AccountCrossApp && len(acct.SmartWallets) > 0 && acct.SmartWallets[0].Address != "" {
					return acct.SmartWallets[0].Address, "smart_wallet"
				}
			}
			if u.Wallet != nil && u.Wallet.Address != "" {
				return u.Wallet.Address, "wallet"
			}
		}
	}
	if r.store != nil {
		stored, ok, err := r.store.Get(ctx, StorageKey)
		if err != nil {
			r.log.Warn().Err(err).Msg("reading stored wallet failed")
		} else if ok && stored != "" {
			return stored, "storage"
		}
	}
	if r.cfg.DemoWallets {
		return devmode.Default(), "placeholder"
	}
	return "", ""
}

func (r *Resolver) persist(ctx context.Context, addr string) {
	if r.store == nil {
		return
	}
	if err := r.store.Set(ctx, StorageKey, addr); err != nil {
		r.log.Warn().Err(err).Str("wallet", addr).Msg("persisting wallet failed")
	}
}

// Connect selects an identity on demand. Unauthenticated sessions in demo
// mode get a random placeholder after ConnectDelay; otherwise the provider's
// login is triggered and the chain re-evaluated.
func (r *Resolver) Connect(ctx context.Context) (string, error) {
	if !r.provider.Authenticated() {
		if r.cfg.DemoWallets {
			if r.cfg.ConnectDelay > 0 {
				t := time.NewTimer(r.cfg.ConnectDelay)
				select {
				case <-ctx.Done():
					t.Stop()
					return "", ctx.Err()
				case <-t.C:
				}
			}
			addr := devmode.Wallets[r.pick(len(devmode.Wallets))]
			r.persist(ctx, addr)
			r.set(addr)
			return addr, nil
		}
		if err := r.provider.Login(ctx); err != nil {
			return "", err
		}
	}
	return r.Resolve(ctx)
}

// Disconnect clears the in-memory and persisted address.
func (r *Resolver) Disconnect(ctx context.Context) error {
	r.set("")
	if r.store == nil {
		return nil
	}
	return r.store.Delete(ctx, StorageKey)
}

// Address returns the current address.
func (r *Resolver) Address() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.addr, r.addr != ""
}

func (r *Resolver) HasAddress() bool {
	_, ok := r.Address()
	return ok
}

// Ready mirrors the provider's readiness.
func (r *Resolver) Ready() bool { return r.provider.Ready() }

// Epoch increments on every address change.
func (r *Resolver) Epoch() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.epoch
}

// OnChange registers fn to run after each address change.
func (r *Resolver) OnChange(fn func(prev, next string)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

func (r *Resolver) set(addr string) {
	r.mu.Lock()
	old := r.addr
	if old == addr {
		r.mu.Unlock()
		return
	}
	r.addr = addr
	r.epoch++
	ls := append(([]func(prev, next string))(nil), r.listeners...)
	r.mu.Unlock()

	for _, fn := range ls {
		fn(old, addr)
	}
}
