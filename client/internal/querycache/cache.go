// Package querycache is the process-wide query cache. Entries are keyed by
// tuples, fetched at most once at a time per key, and dropped on completion
// when the entry or the identity epoch changed while the fetch was running.
package querycache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/originals/collab-client/client/internal/clock"
	"github.com/originals/collab-client/client/internal/retry"
	"github.com/originals/collab-client/client/internal/shardqueue"
)

// ErrCanceled is returned to waiters of a fetch whose result was discarded
// while no cached value could stand in for it.
var ErrCanceled = errors.New("query canceled")

// Fetcher loads the value of one key.
type Fetcher func(ctx context.Context) (any, error)

// Queue runs background refetches, FIFO per key.
type Queue interface {
	Submit(ctx context.Context, key string, job shardqueue.Job) error
}

type call struct {
	done   chan struct{}
	cancel context.CancelFunc
	gen    uint64
	epoch  uint64
	value  any
	err    error
}

type entry struct {
	key       Key
	value     any
	hasValue  bool
	err       error
	fetchedAt time.Time
	lastUsed  time.Time
	stale     bool
	gen       uint64
	call      *call
	fetcher   Fetcher
	subs      map[int]func(Key)
}

// Saved is a point-in-time copy of one entry, restored verbatim by Restore.
type Saved struct {
	Key       Key
	Value     any
	HasValue  bool
	FetchedAt time.Time
	Stale     bool
	Epoch     uint64
}

// Cache is safe for concurrent use.
type Cache struct {
	policy Policy
	retry  retry.Policy
	clock  clock.Clock
	queue  Queue
	log    zerolog.Logger

	mu       sync.Mutex
	entries  map[string]*entry
	epoch    uint64
	holds    map[int]Key
	nextSub  int
	nextHold int

	cronMu sync.Mutex
	cron   *cron.Cron
}

// New builds a Cache. clk, queue and logger may be nil; without a queue
// background refetches run on their own goroutine.
func New(p Policy, clk clock.Clock, queue Queue, logger *zerolog.Logger) *Cache {
	if clk == nil {
		clk = clock.Real{}
	}
	lg := log.Logger
	if logger != nil {
		lg = *logger
	}
	return &Cache{
		policy:  p,
		retry:   retry.Exponential(p.Retry+1, p.RetryDelay),
		clock:   clk,
		queue:   queue,
		log:     lg.With().Str("component", "querycache").Logger(),
		entries: make(map[string]*entry),
		holds:   make(map[int]Key),
	}
}

// Fetch returns the cached value of key while it is fresh. Otherwise it joins
// the fetch already running for key or starts one. ctx bounds only this
// caller's wait; the fetch itself keeps running for other waiters.
func (c *Cache) Fetch(ctx context.Context, key Key, fetcher Fetcher) (any, error) {
	c.mu.Lock()
	return c.fetchLocked(ctx, key, fetcher)
}

// FetchIn is Fetch pinned to epoch. Once the epoch has moved it returns
// ErrCanceled and leaves the cache untouched.
func (c *Cache) FetchIn(ctx context.Context, epoch uint64, key Key, fetcher Fetcher) (any, error) {
	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		discardedTotal.Inc()
		return nil, ErrCanceled
	}
	return c.fetchLocked(ctx, key, fetcher)
}

// fetchLocked is called with c.mu held and releases it.
func (c *Cache) fetchLocked(ctx context.Context, key Key, fetcher Fetcher) (any, error) {
	e := c.entryLocked(key)
	e.fetcher = fetcher
	now := c.clock.Now()
	e.lastUsed = now

	switch {
	case e.hasValue && !c.isStaleLocked(e, now):
		v := e.value
		c.mu.Unlock()
		lookupsTotal.WithLabelValues("hit").Inc()
		return v, nil
	case e.hasValue && c.heldLocked(key):
		v := e.value
		c.mu.Unlock()
		lookupsTotal.WithLabelValues("held").Inc()
		return v, nil
	}

	cl := e.call
	if cl != nil {
		lookupsTotal.WithLabelValues("joined").Inc()
	} else {
		lookupsTotal.WithLabelValues("miss").Inc()
		cl = c.startLocked(ctx, e)
	}
	c.mu.Unlock()
	return wait(ctx, cl)
}

// Refetch forces a fetch of key with its last fetcher, ignoring freshness.
// An in-flight fetch is joined instead.
func (c *Cache) Refetch(ctx context.Context, key Key) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[key.String()]
	if !ok || e.fetcher == nil {
		c.mu.Unlock()
		return nil, ErrCanceled
	}
	cl := e.call
	if cl == nil {
		cl = c.startLocked(ctx, e)
	}
	c.mu.Unlock()
	return wait(ctx, cl)
}

func wait(ctx context.Context, cl *call) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-cl.done:
		return cl.value, cl.err
	}
}

func (c *Cache) startLocked(parent context.Context, e *entry) *call {
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	cl := &call{done: make(chan struct{}), cancel: cancel, gen: e.gen, epoch: c.epoch}
	e.call = cl
	fetcher := e.fetcher
	go c.run(ctx, e, cl, fetcher)
	return cl
}

func (c *Cache) run(ctx context.Context, e *entry, cl *call, fetcher Fetcher) {
	defer cl.cancel()
	var v any
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		var ferr error
		v, ferr = fetcher(ctx)
		return ferr
	})

	c.mu.Lock()
	if e.call == cl {
		e.call = nil
	}
	current := cl.gen == e.gen && cl.epoch == c.epoch && c.entries[e.key.String()] == e
	var notify []func(Key)
	switch {
	case current && err == nil:
		e.value, e.hasValue, e.err = v, true, nil
		e.fetchedAt = c.clock.Now()
		e.stale = false
		cl.value = v
		notify = e.observers()
	case current:
		e.err = err
		cl.err = err
		notify = e.observers()
		c.log.Debug().Err(err).Str("key", e.key.String()).Msg("fetch failed")
	default:
		discardedTotal.Inc()
		c.log.Debug().Str("key", e.key.String()).Msg("discarding superseded fetch result")
		if cl.epoch == c.epoch && c.entries[e.key.String()] == e && e.hasValue {
			cl.value = e.value
		} else {
			cl.err = ErrCanceled
		}
	}
	c.mu.Unlock()
	close(cl.done)
	emit(e.key, notify)
}

// Get returns the cached value of key regardless of freshness.
func (c *Cache) Get(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok || !e.hasValue {
		return nil, false
	}
	return e.value, true
}

// Err returns the error of the last failed fetch of key, if the entry has not
// been refreshed since.
func (c *Cache) Err(key Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key.String()]; ok {
		return e.err
	}
	return nil
}

// Set replaces the value of key. A fetch already running for key is
// superseded and its result dropped.
func (c *Cache) Set(key Key, v any) {
	c.mu.Lock()
	e := c.entryLocked(key)
	c.setLocked(e, v)
	notify := e.observers()
	c.mu.Unlock()
	emit(key, notify)
}

func (c *Cache) setLocked(e *entry, v any) {
	e.value, e.hasValue, e.err = v, true, nil
	e.fetchedAt = c.clock.Now()
	e.stale = false
	e.gen++
}

// Update applies fn to every cached value under prefix. fn returns the new
// value and whether to store it.
func (c *Cache) Update(prefix Key, fn func(key Key, old any) (any, bool)) int {
	c.mu.Lock()
	type change struct {
		key    Key
		notify []func(Key)
	}
	var changes []change
	for _, e := range c.entries {
		if !e.hasValue || !e.key.HasPrefix(prefix) {
			continue
		}
		nv, ok := fn(e.key, e.value)
		if !ok {
			continue
		}
		c.setLocked(e, nv)
		changes = append(changes, change{key: e.key, notify: e.observers()})
	}
	c.mu.Unlock()
	for _, ch := range changes {
		emit(ch.key, ch.notify)
	}
	return len(changes)
}

// Cancel aborts the fetch running for key, if any, and supersedes it.
func (c *Cache) Cancel(key Key) {
	c.mu.Lock()
	if e, ok := c.entries[key.String()]; ok {
		c.cancelLocked(e)
	}
	c.mu.Unlock()
}

// CancelPrefix cancels every entry under prefix.
func (c *Cache) CancelPrefix(prefix Key) {
	c.mu.Lock()
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			c.cancelLocked(e)
		}
	}
	c.mu.Unlock()
}

func (c *Cache) cancelLocked(e *entry) {
	if e.call != nil {
		e.call.cancel()
	}
	e.gen++
}

// Snapshot copies every cached entry under prefix.
func (c *Cache) Snapshot(prefix Key) []Saved {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Saved
	for _, e := range c.entries {
		if e.hasValue && e.key.HasPrefix(prefix) {
			out = append(out, Saved{Key: e.key, Value: e.value, HasValue: true, FetchedAt: e.fetchedAt, Stale: e.stale, Epoch: c.epoch})
		}
	}
	return out
}

// Restore puts saved entries back exactly as they were snapshotted. Entries
// saved before the last Clear are dropped. It returns the number restored.
func (c *Cache) Restore(saved []Saved) int {
	type change struct {
		key    Key
		notify []func(Key)
	}
	var changes []change
	c.mu.Lock()
	for _, s := range saved {
		if s.Epoch != c.epoch {
			discardedTotal.Inc()
			continue
		}
		e := c.entryLocked(s.Key)
		e.value, e.hasValue, e.err = s.Value, s.HasValue, nil
		e.fetchedAt, e.stale = s.FetchedAt, s.Stale
		e.gen++
		changes = append(changes, change{key: e.key, notify: e.observers()})
	}
	c.mu.Unlock()
	for _, ch := range changes {
		emit(ch.key, ch.notify)
	}
	return len(changes)
}

// Hold makes Fetch serve cached values under prefix without refetching, and
// defers background refetches there, until release is called.
func (c *Cache) Hold(prefix Key) (release func()) {
	c.mu.Lock()
	id := c.nextHold
	c.nextHold++
	c.holds[id] = append(Key(nil), prefix...)
	c.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.holds, id)
			c.mu.Unlock()
		})
	}
}

func (c *Cache) heldLocked(key Key) bool {
	for _, prefix := range c.holds {
		if key.HasPrefix(prefix) {
			return true
		}
	}
	return false
}

// Invalidate marks every entry under prefix stale. Observed entries are
// refetched in the background. It returns the number of entries marked.
func (c *Cache) Invalidate(prefix Key) int {
	c.mu.Lock()
	var refetch []Key
	n := 0
	for _, e := range c.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		e.stale = true
		n++
		if len(e.subs) > 0 && e.fetcher != nil && !c.heldLocked(e.key) {
			refetch = append(refetch, e.key)
		}
	}
	c.mu.Unlock()
	invalidationsTotal.Add(float64(n))
	for _, k := range refetch {
		c.schedule(k)
	}
	return n
}

func (c *Cache) schedule(key Key) {
	job := shardqueue.JobFunc(func(ctx context.Context) error {
		_, err := c.Refetch(ctx, key)
		if errors.Is(err, ErrCanceled) {
			return nil
		}
		return err
	})
	if c.queue == nil {
		go func() { _ = job.Run(context.Background()) }()
		return
	}
	if err := c.queue.Submit(context.Background(), key.String(), job); err != nil {
		c.log.Warn().Err(err).Str("key", key.String()).Msg("background refetch not scheduled")
	}
}

// IsStale reports whether key would be refetched by the next Fetch. Missing
// entries are stale.
func (c *Cache) IsStale(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return true
	}
	return c.isStaleLocked(e, c.clock.Now())
}

func (c *Cache) isStaleLocked(e *entry, now time.Time) bool {
	return !e.hasValue || e.stale || now.Sub(e.fetchedAt) >= c.policy.StaleTime
}

// Fetching reports whether a fetch is running for key.
func (c *Cache) Fetching(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	return ok && e.call != nil
}

// Keys lists the cached keys under prefix.
func (c *Cache) Keys(prefix Key) []Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Key
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			out = append(out, e.key)
		}
	}
	return out
}

// Subscribe registers fn to run whenever key's value or error changes. An
// observed entry is never collected and is refetched when invalidated.
func (c *Cache) Subscribe(key Key, fn func(Key)) (cancel func()) {
	c.mu.Lock()
	e := c.entryLocked(key)
	id := c.nextSub
	c.nextSub++
	if e.subs == nil {
		e.subs = make(map[int]func(Key))
	}
	e.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(e.subs, id)
		e.lastUsed = c.clock.Now()
		c.mu.Unlock()
	}
}

// Reconnected refetches observed stale entries when the policy asks for it.
func (c *Cache) Reconnected() int {
	if !c.policy.RefetchOnReconnect {
		return 0
	}
	return c.refetchObservedStale()
}

// Focused refetches observed stale entries when the policy asks for it.
func (c *Cache) Focused() int {
	if !c.policy.RefetchOnFocus {
		return 0
	}
	return c.refetchObservedStale()
}

func (c *Cache) refetchObservedStale() int {
	c.mu.Lock()
	now := c.clock.Now()
	var keys []Key
	for _, e := range c.entries {
		if len(e.subs) > 0 && e.fetcher != nil && c.isStaleLocked(e, now) && !c.heldLocked(e.key) {
			keys = append(keys, e.key)
		}
	}
	c.mu.Unlock()
	for _, k := range keys {
		c.schedule(k)
	}
	return len(keys)
}

// Sweep removes unobserved, idle entries whose last use is at least GCTime
// before now. It returns the number removed.
func (c *Cache) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if len(e.subs) == 0 && e.call == nil && now.Sub(e.lastUsed) >= c.policy.GCTime {
			delete(c.entries, k)
			n++
		}
	}
	entriesGauge.Set(float64(len(c.entries)))
	return n
}

// Clear drops every entry and bumps the epoch so running fetches cannot
// repopulate the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.epoch++
	for _, e := range c.entries {
		if e.call != nil {
			e.call.cancel()
		}
	}
	c.entries = make(map[string]*entry)
	entriesGauge.Set(0)
	c.mu.Unlock()
}

// Epoch returns the number of Clear calls so far.
func (c *Cache) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// StartJanitor sweeps the cache on the given cron spec, "@every 1m" when
// empty. Calling it twice is a no-op.
func (c *Cache) StartJanitor(spec string) error {
	if spec == "" {
		spec = "@every 1m"
	}
	c.cronMu.Lock()
	defer c.cronMu.Unlock()
	if c.cron != nil {
		return nil
	}
	cr := cron.New()
	if _, err := cr.AddFunc(spec, func() {
		if n := c.Sweep(c.clock.Now()); n > 0 {
			c.log.Debug().Int("removed", n).Msg("cache sweep")
		}
	}); err != nil {
		return err
	}
	cr.Start()
	c.cron = cr
	return nil
}

// StopJanitor stops the sweep schedule and waits for a running sweep.
func (c *Cache) StopJanitor() {
	c.cronMu.Lock()
	cr := c.cron
	c.cron = nil
	c.cronMu.Unlock()
	if cr != nil {
		<-cr.Stop().Done()
	}
}

func (c *Cache) entryLocked(key Key) *entry {
	k := key.String()
	e, ok := c.entries[k]
	if !ok {
		e = &entry{key: append(Key(nil), key...), lastUsed: c.clock.Now()}
		c.entries[k] = e
		entriesGauge.Set(float64(len(c.entries)))
	}
	return e
}

func (e *entry) observers() []func(Key) {
	if len(e.subs) == 0 {
		return nil
	}
	out := make([]func(Key), 0, len(e.subs))
	for _, fn := range e.subs {
		out = append(out, fn)
	}
	return out
}

func emit(key Key, fns []func(Key)) {
	for _, fn := range fns {
		fn(key)
	}
}
