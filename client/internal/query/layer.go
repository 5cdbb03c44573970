// Package query is the domain query layer: typed reads through the shared
// cache, writes that invalidate what they affect, and the optimistic ping
// response.
package query

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/originals/collab-client/client/internal/api"
	cerr "github.com/originals/collab-client/client/internal/errors"
	qc "github.com/originals/collab-client/client/internal/querycache"
	"github.com/originals/collab-client/client/internal/types"
)

// ErrPingInFlight is returned when a response to the same ping is already
// being sent.
var ErrPingInFlight = errors.New("a response to this ping is already in flight")

// Identity is the part of the resolver the layer needs.
type Identity interface {
	Address() (string, bool)
	Ready() bool
}

// CoinSource enriches postings with coin data.
type CoinSource interface {
	Batch(ctx context.Context, addresses []string) (map[string]*types.CoinData, error)
}

// Result is a gated read. Ready is false while no identity is resolved or
// the provider is not ready; Data is then the zero value.
type Result[T any] struct {
	Data  T
	Ready bool
}

// Layer composes the gateway, the cache and the resolver.
type Layer struct {
	req    api.Requester
	cache  *qc.Cache
	ident  Identity
	notify Notifier
	coins  CoinSource
	log    zerolog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
	wallets  map[string]*walletLock
}

// New builds a Layer. notifier, coins and logger may be nil.
func New(req api.Requester, cache *qc.Cache, ident Identity, notifier Notifier, coins CoinSource, logger *zerolog.Logger) *Layer {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	lg := log.Logger
	if logger != nil {
		lg = *logger
	}
	return &Layer{
		req:      req,
		cache:    cache,
		ident:    ident,
		notify:   notifier,
		coins:    coins,
		log:      lg.With().Str("component", "query").Logger(),
		inflight: make(map[string]struct{}),
		wallets:  make(map[string]*walletLock),
	}
}

// Cache exposes the underlying cache.
func (l *Layer) Cache() *qc.Cache { return l.cache }

func (l *Layer) gate() (string, bool) {
	wallet, ok := l.ident.Address()
	return wallet, ok && l.ident.Ready()
}

func (l *Layer) wallet() (string, error) {
	wallet, ok := l.ident.Address()
	if !ok {
		return "", types.ErrNoIdentity
	}
	return wallet, nil
}

// read resolves the wallet once for both the key and the fetch, and pins the
// fetch to the cache epoch seen before the wallet was read.
func read[T any](ctx context.Context, l *Layer, keyFor func(wallet string) qc.Key, fn func(ctx context.Context, wallet string) (*T, error)) (Result[T], error) {
	epoch := l.cache.Epoch()
	wallet, ok := l.gate()
	if !ok {
		return Result[T]{}, nil
	}
	v, err := qc.FetchAsIn(ctx, l.cache, epoch, keyFor(wallet), func(ctx context.Context) (T, error) {
		p, err := fn(ctx, wallet)
		if err != nil {
			var zero T
			return zero, err
		}
		return *p, nil
	})
	if err != nil {
		return Result[T]{}, err
	}
	return Result[T]{Data: v, Ready: true}, nil
}

func shared(k qc.Key) func(string) qc.Key {
	return func(string) qc.Key { return k }
}

// Feed lists postings. The feed is shared across identities, so the key
// holds only the filters.
func (l *Layer) Feed(ctx context.Context, f types.FeedFilters) (Result[types.FeedPage], error) {
	return read(ctx, l, shared(FeedKey(f)), func(ctx context.Context, wallet string) (*types.FeedPage, error) {
		return api.Feed(ctx, l.req, wallet, f)
	})
}

// Posting returns one posting, found in a cached feed page or in the first
// page of the unfiltered feed.
func (l *Layer) Posting(ctx context.Context, id string) (Result[types.Posting], error) {
	if err := types.ValidateID("posting", id); err != nil {
		return Result[types.Posting]{}, err
	}
	return read(ctx, l, shared(CollabKey(id)), func(ctx context.Context, wallet string) (*types.Posting, error) {
		for _, k := range l.cache.Keys(FeedPrefix()) {
			if page, ok := qc.GetAs[types.FeedPage](l.cache, k); ok {
				if p := findPosting(page, id); p != nil {
					return p, nil
				}
			}
		}
		page, err := api.Feed(ctx, l.req, wallet, types.FeedFilters{})
		if err != nil {
			return nil, err
		}
		if p := findPosting(*page, id); p != nil {
			return p, nil
		}
		return nil, errNotFound(id)
	})
}

// errNotFound is irrecoverable so the cache does not retry it.
func errNotFound(id string) error {
	return &cerr.APIError{Code: "NOT_FOUND", Message: "posting " + id + " not found", Status: http.StatusNotFound, Err: types.ErrNotFound}
}

func findPosting(page types.FeedPage, id string) *types.Posting {
	for i := range page.Collabs {
		if page.Collabs[i].ID == id {
			p := page.Collabs[i]
			return &p
		}
	}
	return nil
}

// ReceivedPings lists pings on the current wallet's postings.
func (l *Layer) ReceivedPings(ctx context.Context, f types.PingFilters) (Result[types.PingsPage], error) {
	keyFor := func(wallet string) qc.Key { return ReceivedPingsKey(wallet, f) }
	return read(ctx, l, keyFor, func(ctx context.Context, wallet string) (*types.PingsPage, error) {
		return api.ReceivedPings(ctx, l.req, wallet, f)
	})
}

// Matches lists the current wallet's matches.
func (l *Layer) Matches(ctx context.Context, f types.MatchFilters) (Result[types.MatchesPage], error) {
	keyFor := func(wallet string) qc.Key { return MatchesKey(wallet, f) }
	return read(ctx, l, keyFor, func(ctx context.Context, wallet string) (*types.MatchesPage, error) {
		return api.Matches(ctx, l.req, wallet, f)
	})
}

// Messages pages through a match thread.
func (l *Layer) Messages(ctx context.Context, matchID string, f types.MessageFilters) (Result[types.MessagesPage], error) {
	if err := types.ValidateID("match", matchID); err != nil {
		return Result[types.MessagesPage]{}, err
	}
	return read(ctx, l, shared(MessagesKey(matchID, f)), func(ctx context.Context, wallet string) (*types.MessagesPage, error) {
		return api.Messages(ctx, l.req, wallet, matchID, f)
	})
}

// FeedWithCoins is Feed with coin data attached to every posting that has a
// coin. The cached page is left untouched.
func (l *Layer) FeedWithCoins(ctx context.Context, f types.FeedFilters) (Result[types.FeedPage], error) {
	res, err := l.Feed(ctx, f)
	if err != nil || !res.Ready || l.coins == nil {
		return res, err
	}
	var addrs []string
	seen := make(map[string]bool)
	for _, p := range res.Data.Collabs {
		if p.CoinAddress != "" && p.CoinData == nil && !seen[p.CoinAddress] {
			seen[p.CoinAddress] = true
			addrs = append(addrs, p.CoinAddress)
		}
	}
	if len(addrs) == 0 {
		return res, nil
	}
	coins, err := l.coins.Batch(ctx, addrs)
	if err != nil {
		l.log.Warn().Err(err).Int("coins", len(addrs)).Msg("coin enrichment incomplete")
	}
	out := res.Data
	out.Collabs = make([]types.Posting, len(res.Data.Collabs))
	copy(out.Collabs, res.Data.Collabs)
	for i := range out.Collabs {
		if cd, ok := coins[out.Collabs[i].CoinAddress]; ok && out.Collabs[i].CoinData == nil {
			out.Collabs[i].CoinData = cd
		}
	}
	return Result[types.FeedPage]{Data: out, Ready: true}, nil
}
