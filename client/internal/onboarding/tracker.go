// Package onboarding tracks whether the resolved wallet has completed
// onboarding. Connectivity failures during the check degrade to
// NotOnboarded so the UI keeps moving while the backend is down.
package onboarding

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/originals/collab-client/client/internal/api"
	"github.com/originals/collab-client/client/internal/clock"
	cerr "github.com/originals/collab-client/client/internal/errors"
	"github.com/originals/collab-client/client/internal/retry"
	"github.com/originals/collab-client/client/internal/types"
)

// SessionFlagKey is set in the session store after a successful submission.
const SessionFlagKey = "from-onboarding"

// Identity is the part of the resolver the tracker needs.
type Identity interface {
	Address() (string, bool)
	Ready() bool
}

// SessionStore receives the first-run flag.
type SessionStore interface {
	Set(ctx context.Context, key, value string) error
}

// Config controls the check.
type Config struct {
	Attempts  int
	BaseDelay time.Duration
	Watchdog  time.Duration
}

// DefaultConfig is three attempts from a one second base, with a ten second
// watchdog.
func DefaultConfig() Config {
	return Config{Attempts: 3, BaseDelay: time.Second, Watchdog: 10 * time.Second}
}

type record struct {
	state   State
	profile *types.UserProfile
	err     string
	gen     uint64
}

// Tracker holds one record per wallet.
type Tracker struct {
	req     api.Requester
	ident   Identity
	session SessionStore
	policy  retry.Policy
	cfg     Config
	clock   clock.Clock
	log     zerolog.Logger

	mu      sync.Mutex
	records map[string]*record
	subs    map[int]func(Snapshot)
	nextSub int
}

// New builds a Tracker. session and clk may be nil.
func New(req api.Requester, ident Identity, session SessionStore, cfg Config, clk clock.Clock, logger *zerolog.Logger) *Tracker {
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultConfig().Attempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultConfig().BaseDelay
	}
	if cfg.Watchdog <= 0 {
		cfg.Watchdog = DefaultConfig().Watchdog
	}
	if clk == nil {
		clk = clock.Real{}
	}
	lg := log.Logger
	if logger != nil {
		lg = *logger
	}
	return &Tracker{
		req:     req,
		ident:   ident,
		session: session,
		policy:  retry.Exponential(cfg.Attempts, cfg.BaseDelay),
		cfg:     cfg,
		clock:   clk,
		log:     lg.With().Str("component", "onboarding").Logger(),
		records: make(map[string]*record),
		subs:    make(map[int]func(Snapshot)),
	}
}

// Check asks the backend for the current wallet's status. Without an
// identity it does nothing. Connectivity failures settle as NotOnboarded and
// return nil; other failures settle as Errored and are returned.
func (t *Tracker) Check(ctx context.Context) error {
	wallet, ok := t.ident.Address()
	if !ok {
		return nil
	}

	t.mu.Lock()
	rec := t.recordLocked(wallet)
	rec.gen++
	gen := rec.gen
	snap := t.transitionLocked(wallet, rec, Checking)
	t.mu.Unlock()
	t.publish(snap)

	var st *types.OnboardingStatus
	err := t.policy.Do(ctx, func(ctx context.Context) error {
		var callErr error
		st, callErr = api.OnboardingStatus(ctx, t.req, wallet)
		return callErr
	})

	t.mu.Lock()
	if rec.gen != gen {
		t.mu.Unlock()
		return nil
	}
	var result error
	switch {
	case err == nil:
		rec.profile, rec.err = st.Data, ""
		next := NotOnboarded
		if st.IsOnboarded {
			next = Onboarded
		}
		snap = t.transitionLocked(wallet, rec, next)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		next := rec.state
		if next == Checking {
			next = Unknown
		}
		snap = t.transitionLocked(wallet, rec, next)
		result = err
	case cerr.IsNetworkError(err):
		t.log.Warn().Err(err).Str("wallet", wallet).Msg("onboarding check unreachable, assuming not onboarded")
		rec.err = ""
		snap = t.transitionLocked(wallet, rec, NotOnboarded)
	default:
		t.log.Error().Err(err).Str("wallet", wallet).Msg("onboarding check failed")
		rec.err = err.Error()
		snap = t.transitionLocked(wallet, rec, Errored)
		result = err
	}
	t.mu.Unlock()
	t.publish(snap)
	return result
}

// Retry re-runs the check, but only after a failure.
func (t *Tracker) Retry(ctx context.Context) error {
	if t.Snapshot().State != Errored {
		return nil
	}
	return t.Check(ctx)
}

// SetOnboarded settles the current wallet's state directly. Any check still
// in flight is ignored when it completes.
func (t *Tracker) SetOnboarded(onboarded bool) {
	wallet, ok := t.ident.Address()
	if !ok {
		return
	}
	next := NotOnboarded
	if onboarded {
		next = Onboarded
	}
	t.mu.Lock()
	rec := t.recordLocked(wallet)
	rec.gen++
	rec.err = ""
	snap := t.transitionLocked(wallet, rec, next)
	t.mu.Unlock()
	t.publish(snap)
}

// Complete submits the onboarding profile for the current wallet and marks
// it onboarded on success.
func (t *Tracker) Complete(ctx context.Context, req types.OnboardingRequest) (*types.CompleteOnboardingResult, error) {
	wallet, ok := t.ident.Address()
	if !ok {
		return nil, types.ErrNoIdentity
	}
	res, err := api.CompleteOnboarding(ctx, t.req, wallet, req)
	if err != nil {
		return nil, err
	}
	t.SetOnboarded(true)
	if t.session != nil {
		if err := t.session.Set(ctx, SessionFlagKey, "true"); err != nil {
			t.log.Warn().Err(err).Msg("setting session flag failed")
		}
	}
	return res, nil
}

// StartWatchdog forces NotOnboarded if the current wallet is still unsettled
// after the watchdog interval. It is a no-op until an identity is present
// and the provider is ready. The returned function disarms it.
func (t *Tracker) StartWatchdog() (stop func()) {
	wallet, ok := t.ident.Address()
	if !ok || !t.ident.Ready() {
		return func() {}
	}
	timer := t.clock.AfterFunc(t.cfg.Watchdog, func() {
		t.mu.Lock()
		rec := t.recordLocked(wallet)
		if rec.state != Unknown && rec.state != Checking {
			t.mu.Unlock()
			return
		}
		watchdogFiredTotal.Inc()
		t.log.Warn().Str("wallet", wallet).Dur("after", t.cfg.Watchdog).Msg("onboarding status still unknown, assuming not onboarded")
		snap := t.transitionLocked(wallet, rec, NotOnboarded)
		t.mu.Unlock()
		t.publish(snap)
	})
	return func() { timer.Stop() }
}

// Snapshot returns the current wallet's record. Without an identity it
// reports Unknown.
func (t *Tracker) Snapshot() Snapshot {
	wallet, ok := t.ident.Address()
	if !ok {
		return Snapshot{State: Unknown}
	}
	return t.SnapshotFor(wallet)
}

// SnapshotFor returns the record of a specific wallet.
func (t *Tracker) SnapshotFor(wallet string) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.records[wallet]
	if !ok {
		return Snapshot{Wallet: wallet, State: Unknown}
	}
	return Snapshot{Wallet: wallet, State: rec.state, Profile: rec.profile, Err: rec.err}
}

// Subscribe registers fn for every state change. The returned function
// unregisters it.
func (t *Tracker) Subscribe(fn func(Snapshot)) (cancel func()) {
	t.mu.Lock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = fn
	t.mu.Unlock()
	return func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}
}

// Forget drops the record of wallet, so the next check starts from Unknown.
func (t *Tracker) Forget(wallet string) {
	t.mu.Lock()
	delete(t.records, wallet)
	t.mu.Unlock()
}

func (t *Tracker) recordLocked(wallet string) *record {
	rec, ok := t.records[wallet]
	if !ok {
		rec = &record{state: Unknown}
		t.records[wallet] = rec
	}
	return rec
}

func (t *Tracker) transitionLocked(wallet string, rec *record, next State) Snapshot {
	if rec.state != next {
		transitionsTotal.WithLabelValues(next.String()).Inc()
		t.log.Debug().Str("wallet", wallet).Stringer("from", rec.state).Stringer("to", next).Msg("onboarding transition")
	}
	rec.state = next
	return Snapshot{Wallet: wallet, State: rec.state, Profile: rec.profile, Err: rec.err}
}

func (t *Tracker) publish(s Snapshot) {
	t.mu.Lock()
	fns := make([]func(Snapshot), 0, len(t.subs))
	for _, fn := range t.subs {
		fns = append(fns, fn)
	}
	t.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}
