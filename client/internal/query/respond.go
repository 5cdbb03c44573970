package query

import (
	"context"

	"github.com/originals/collab-client/client/internal/api"
	qc "github.com/originals/collab-client/client/internal/querycache"
	"github.com/originals/collab-client/client/internal/types"
)

// RespondToPing accepts or declines a ping optimistically. The ping is
// removed from every cached received-pings list of the wallet before the
// network call. A failure restores the lists exactly; a success invalidates
// the received pings and the matches so server truth replaces the patch.
//
// A second response to a ping whose response is still in flight returns
// ErrPingInFlight without touching the cache. Responses for one wallet run
// one at a time; waiting for the turn honours ctx.
func (l *Layer) RespondToPing(ctx context.Context, pingID string, action types.PingAction) (*types.RespondResult, error) {
	wallet, err := l.wallet()
	if err != nil {
		return nil, err
	}
	if !l.claim(pingID) {
		return nil, ErrPingInFlight
	}
	defer l.unclaim(pingID)

	unlock, err := l.lockWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}
	defer unlock()

	prefix := ReceivedPingsPrefix(wallet)
	release := l.cache.Hold(prefix)
	defer release()

	l.cache.CancelPrefix(prefix)
	saved := l.cache.Snapshot(prefix)
	l.cache.Update(prefix, func(_ qc.Key, old any) (any, bool) {
		page, ok := old.(types.PingsPage)
		if !ok {
			return nil, false
		}
		return page.Without(pingID), true
	})

	res, err := api.RespondToPing(ctx, l.req, wallet, pingID, action)
	if err != nil {
		if n := l.cache.Restore(saved); n < len(saved) {
			l.log.Debug().Str("ping", pingID).Int("dropped", len(saved)-n).Msg("cache cleared during ping response, rollback skipped")
		}
		l.log.Debug().Err(err).Str("ping", pingID).Msg("ping response failed, optimistic patch rolled back")
		l.notify.Failure(failureMessage(err, "Failed to respond to ping"), err)
		return nil, err
	}

	release()
	l.cache.Invalidate(prefix)
	l.cache.Invalidate(MatchesPrefix(wallet))
	verb := "declined"
	if action == types.ActionAccept {
		verb = "accepted"
	}
	l.notify.Success("Ping " + verb + " successfully!")
	return res, nil
}

// InFlight reports whether a response to pingID is being sent.
func (l *Layer) InFlight(pingID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.inflight[pingID]
	return ok
}

func (l *Layer) claim(pingID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.inflight[pingID]; busy {
		return false
	}
	l.inflight[pingID] = struct{}{}
	return true
}

func (l *Layer) unclaim(pingID string) {
	l.mu.Lock()
	delete(l.inflight, pingID)
	l.mu.Unlock()
}

// walletLock serialises ping responses of one wallet. It is dropped from
// Layer.wallets once nobody holds or waits for it.
type walletLock struct {
	ch   chan struct{}
	refs int
}

func (l *Layer) lockWallet(ctx context.Context, wallet string) (unlock func(), err error) {
	l.mu.Lock()
	wl, ok := l.wallets[wallet]
	if !ok {
		wl = &walletLock{ch: make(chan struct{}, 1)}
		l.wallets[wallet] = wl
	}
	wl.refs++
	l.mu.Unlock()

	select {
	case wl.ch <- struct{}{}:
	case <-ctx.Done():
		l.releaseWallet(wallet, wl)
		return nil, ctx.Err()
	}
	return func() {
		<-wl.ch
		l.releaseWallet(wallet, wl)
	}, nil
}

func (l *Layer) releaseWallet(wallet string, wl *walletLock) {
	l.mu.Lock()
	wl.refs--
	if wl.refs == 0 && l.wallets[wallet] == wl {
		delete(l.wallets, wallet)
	}
	l.mu.Unlock()
}
