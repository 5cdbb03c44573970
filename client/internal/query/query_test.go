package query

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/originals/collab-client/client/internal/clock"
	cerr "github.com/originals/collab-client/client/internal/errors"
	"github.com/originals/collab-client/client/internal/gateway"
	qc "github.com/originals/collab-client/client/internal/querycache"
	"github.com/originals/collab-client/client/internal/types"
)

const (
	walletA = "0xAAA"
	walletB = "0xBBB"
)

// backend is a Requester routing on "METHOD path".
type backend struct {
	mu     sync.Mutex
	routes map[string]func(c gateway.Call) (any, error)
	calls  map[string]int
}

func newBackend() *backend {
	return &backend{routes: make(map[string]func(gateway.Call) (any, error)), calls: make(map[string]int)}
}

func (b *backend) on(route string, fn func(c gateway.Call) (any, error)) {
	b.mu.Lock()
	b.routes[route] = fn
	b.mu.Unlock()
}

func (b *backend) count(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

func (b *backend) Request(_ context.Context, c gateway.Call) (*gateway.Envelope, error) {
	route := c.Method + " " + c.Path
	b.mu.Lock()
	b.calls[route]++
	fn, ok := b.routes[route]
	b.mu.Unlock()
	if !ok {
		return nil, cerr.NewHTTPError(404, "NOT_FOUND", "no route "+route)
	}
	data, err := fn(c)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &gateway.Envelope{Success: true, Data: raw, Status: 200}, nil
}

type fakeIdentity struct {
	mu     sync.Mutex
	wallet string
	ready  bool
}

func (f *fakeIdentity) Address() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wallet, f.wallet != ""
}

func (f *fakeIdentity) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}

type note struct {
	ok  bool
	msg string
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (r *recordingNotifier) Success(msg string) {
	r.mu.Lock()
	r.notes = append(r.notes, note{ok: true, msg: msg})
	r.mu.Unlock()
}

func (r *recordingNotifier) Failure(msg string, _ error) {
	r.mu.Lock()
	r.notes = append(r.notes, note{ok: false, msg: msg})
	r.mu.Unlock()
}

func (r *recordingNotifier) last() note {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return note{}
	}
	return r.notes[len(r.notes)-1]
}

type fixture struct {
	layer *Layer
	be    *backend
	ident *fakeIdentity
	notes *recordingNotifier
	cache *qc.Cache
	clock *clock.Fake
}

func newFixture(t *testing.T, wallet string) *fixture {
	t.Helper()
	clk := clock.NewFake(time.Unix(1_700_000_000, 0))
	p := qc.DefaultPolicy()
	p.RetryDelay = time.Millisecond
	cache := qc.New(p, clk, nil, nil)
	be := newBackend()
	ident := &fakeIdentity{wallet: wallet, ready: true}
	notes := &recordingNotifier{}
	return &fixture{
		layer: New(be, cache, ident, notes, nil, nil),
		be:    be,
		ident: ident,
		notes: notes,
		cache: cache,
		clock: clk,
	}
}

func pings(ids ...string) types.PingsPage {
	page := types.PingsPage{Pagination: types.Pagination{Page: 1, Limit: 20, Total: len(ids)}}
	for _, id := range ids {
		page.Pings = append(page.Pings, types.Ping{ID: id, Status: types.PingPending})
	}
	return page
}

func pingIDs(page types.PingsPage) []string {
	out := make([]string, 0, len(page.Pings))
	for _, p := range page.Pings {
		out = append(out, p.ID)
	}
	return out
}

func TestReads_GatedOnIdentityAndReadiness(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	f.be.on("GET /wallets/0xBBB/pings/received", func(gateway.Call) (any, error) { return pings("A"), nil })

	res, err := f.layer.ReceivedPings(context.Background(), types.PingFilters{})
	require.NoError(t, err)
	assert.False(t, res.Ready)

	f.ident.mu.Lock()
	f.ident.wallet, f.ident.ready = walletB, false
	f.ident.mu.Unlock()
	res, err = f.layer.ReceivedPings(context.Background(), types.PingFilters{})
	require.NoError(t, err)
	assert.False(t, res.Ready)
	assert.Zero(t, f.be.count("GET /wallets/0xBBB/pings/received"))

	f.ident.mu.Lock()
	f.ident.ready = true
	f.ident.mu.Unlock()
	res, err = f.layer.ReceivedPings(context.Background(), types.PingFilters{})
	require.NoError(t, err)
	assert.True(t, res.Ready)
	assert.Equal(t, []string{"A"}, pingIDs(res.Data))
}

func TestReads_KeysIsolateWalletsAndFilters(t *testing.T) {
	t.Parallel()
	f := newFixture(t, walletA)
	f.be.on("GET /wallets/0xAAA/matches", func(gateway.Call) (any, error) {
		return types.MatchesPage{Matches: []types.Match{{ID: "M-A"}}}, nil
	})
	f.be.on("GET /wallets/0xBBB/matches", func(gateway.Call) (any, error) {
		return types.MatchesPage{Matches: []types.Match{{ID: "M-B"}}}, nil
	})
	ctx := context.Background()

	a, err := f.layer.Matches(ctx, types.MatchFilters{})
	require.NoError(t, err)
	f.ident.mu.Lock()
	f.ident.wallet = walletB
	f.ident.mu.Unlock()
	b, err := f.layer.Matches(ctx, types.MatchFilters{})
	require.NoError(t, err)

	assert.Equal(t, "M-A", a.Data.Matches[0].ID)
	assert.Equal(t, "M-B", b.Data.Matches[0].ID)
	assert.NotEqual(t, MatchesKey(walletA, types.MatchFilters{}).String(), MatchesKey(walletB, types.MatchFilters{}).String())
	assert.NotEqual(t, FeedKey(types.FeedFilters{Page: 1}).String(), FeedKey(types.FeedFilters{Page: 2}).String())
	assert.True(t, ReceivedPingsKey(walletB, types.PingFilters{Status: types.PingPending}).HasPrefix(ReceivedPingsPrefix(walletB)))
	assert.False(t, ReceivedPingsKey(walletB, types.PingFilters{}).HasPrefix(ReceivedPingsPrefix(walletA)))
}

func TestFeed_ServedFromCacheWhileFresh(t *testing.T) {
	t.Parallel()
	f := newFixture(t, walletA)
	f.be.on("GET /collabs/feed", func(gateway.Call) (any, error) {
		return types.FeedPage{Collabs: []types.Posting{{ID: "P1", Role: "Beat maker"}}}, nil
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := f.layer.Feed(ctx, types.FeedFilters{})
		require.NoError(t, err)
		require.Len(t, res.Data.Collabs, 1)
	}
	assert.Equal(t, 1, f.be.count("GET /collabs/feed"))

	f.clock.Advance(6 * time.Minute)
	_, err := f.layer.Feed(ctx, types.FeedFilters{})
	require.NoError(t, err)
	assert.Equal(t, 2, f.be.count("GET /collabs/feed"))
}

func TestPosting_FromCachedFeedOrNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t, walletA)
	f.be.on("GET /collabs/feed", func(gateway.Call) (any, error) {
		return types.FeedPage{Collabs: []types.Posting{{ID: "P1", Role: "Beat maker"}}}, nil
	})
	ctx := context.Background()

	_, err := f.layer.Feed(ctx, types.FeedFilters{Filter: types.FilterPaid})
	require.NoError(t, err)
	res, err := f.layer.Posting(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "Beat maker", res.Data.Role)
	assert.Equal(t, 1, f.be.count("GET /collabs/feed"))

	_, err = f.layer.Posting(ctx, "P404")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, 2, f.be.count("GET /collabs/feed"), "not found is not retried")
}

func TestRespondToPing_FailureRestoresExactly(t *testing.T) {
	t.Parallel()
	f := newFixture(t, walletB)
	f.be.on("GET /wallets/0xBBB/pings/received", func(gateway.Call) (any, error) { return pings("A", "B", "C"), nil })
	ctx := context.Background()
	all := types.PingFilters{}
	pending := types.PingFilters{Status: types.PingPending}

	_, err := f.layer.ReceivedPings(ctx, all)
	require.NoError(t, err)
	_, err = f.layer.ReceivedPings(ctx, pending)
	require.NoError(t, err)

	var during [][]string
	f.be.on("POST /pings/B/respond", func(gateway.Call) (any, error) {
		for _, k := range []qc.Key{ReceivedPingsKey(walletB, all), ReceivedPingsKey(walletB, pending)} {
			page, ok := qc.GetAs[types.PingsPage](f.cache, k)
			if ok {
				during = append(during, pingIDs(page))
			}
		}
		return nil, cerr.NewHTTPError(500, "INTERNAL_ERROR", "database unavailable")
	})

	_, err = f.layer.RespondToPing(ctx, "B", types.ActionAccept)
	require.Error(t, err)

	assert.Equal(t, [][]string{{"A", "C"}, {"A", "C"}}, during)
	for _, k := range []qc.Key{ReceivedPingsKey(walletB, all), ReceivedPingsKey(walletB, pending)} {
		page, ok := qc.GetAs[types.PingsPage](f.cache, k)
		require.True(t, ok)
		assert.Equal(t, []string{"A", "B", "C"}, pingIDs(page))
		assert.False(t, f.cache.IsStale(k))
	}
	assert.Equal(t, note{ok: false, msg: "database unavailable"}, f.notes.last())
	assert.False(t, f.layer.InFlight("B"))
}

func TestRespondToPing_SuccessInvalidatesPingsAndMatches(t *testing.T) {
	t.Parallel()
	f := newFixture(t, walletB)
	f.be.on("GET /wallets/0xBBB/pings/received", func(gateway.Call) (any, error) { return pings("A", "B", "C"), nil })
	f.be.on("GET /wallets/0xBBB/matches", func(gateway.Call) (any, error) { return types.MatchesPage{}, nil })
	f.be.on("POST /pings/B/respond", func(c gateway.Call) (any, error) {
		assert.Equal(t, types.RespondRequest{Action: types.ActionAccept}, c.Body)
		assert.Equal(t, walletB, c.Identity)
		return types.RespondResult{MatchID: "M1", Action: "accept"}, nil
	})
	ctx := context.Background()

	_, err := f.layer.ReceivedPings(ctx, types.PingFilters{})
	require.NoError(t, err)
	_, err = f.layer.Matches(ctx, types.MatchFilters{})
	require.NoError(t, err)

	res, err := f.layer.RespondToPing(ctx, "B", types.ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, "M1", res.MatchID)

	pingsKey := ReceivedPingsKey(walletB, types.PingFilters{})
	page, ok := qc.GetAs[types.PingsPage](f.cache, pingsKey)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "C"}, pingIDs(page))
	assert.True(t, f.cache.IsStale(pingsKey))
	assert.True(t, f.cache.IsStale(MatchesKey(walletB, types.MatchFilters{})))
	assert.Equal(t, note{ok: true, msg: "Ping accepted successfully!"}, f.notes.last())
}

func TestRespondToPing_DeclineMessage(t *testing.T) {
	t.Parallel()
	f := newFixture(t, walletB)
	f.be.on("POST /pings/B/respond", func(gateway.Call) (any, error) {
		return types.RespondResult{Action: "decline"}, nil
	})
	_, err := f.layer.RespondToPing(context.Background(), "B", types.ActionDecline)
	require.NoError(t, err)
	assert.Equal(t, note{ok: true, msg: "Ping declined successfully!"}, f.notes.last())
}

func TestRespondToPing_SecondResponseWhileInFlight(t *testing.T) {
	t.Parallel()
	f := newFixture(t, walletB)
	entered := make(chan struct{})
	unblock := make(chan struct{})
	f.be.on("POST /pings/B/respond", func(gateway.Call) (any, error) {
		close(entered)
		<-unblock
		return types.RespondResult{Action: "accept"}, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := f.layer.RespondToPing(context.Background(), "B", types.ActionAccept)
		done <- err
	}()
	<-entered

	assert.True(t, f.layer.InFlight("B"))
	_, err := f.layer.RespondToPing(context.Background(), "B", types.ActionDecline)
	assert.ErrorIs(t, err, ErrPingInFlight)

	close(unblock)
	require.NoError(t, <-done)
	assert.False(t, f.layer.InFlight("B"))
	assert.Equal(t, 1, f.be.count("POST /pings/B/respond"))
}

func TestRespondToPing_DiscardsInFlightRefetch(t *testing.T) {
	t.Parallel()
	f := newFixture(t, walletB)
	ctx := context.Background()
	f.be.on("GET /wallets/0xBBB/pings/received", func(gateway.Call) (any, error) { return pings("A", "B", "C"), nil })
	_, err := f.layer.ReceivedPings(ctx, types.PingFilters{})
	require.NoError(t, err)

	// A refetch that began before the response returns the old list late.
	entered := make(chan struct{})
	unblock := make(chan struct{})
	f.be.on("GET /wallets/0xBBB/pings/received", func(gateway.Call) (any, error) {
		close(entered)
		<-unblock
		return pings("A", "B", "C"), nil
	})
	key := ReceivedPingsKey(walletB, types.PingFilters{})
	refetched := make(chan struct{})
	go func() {
		defer close(refetched)
		_, _ = f.cache.Refetch(ctx, key)
	}()
	<-entered

	var patched []string
	f.be.on("POST /pings/B/respond", func(gateway.Call) (any, error) {
		page, _ := qc.GetAs[types.PingsPage](f.cache, key)
		patched = pingIDs(page)
		close(unblock)
		<-refetched
		page, _ = qc.GetAs[types.PingsPage](f.cache, key)
		assert.Equal(t, []string{"A", "C"}, pingIDs(page), "late refetch must not overwrite the patch")
		return types.RespondResult{Action: "accept"}, nil
	})

	_, err = f.layer.RespondToPing(ctx, "B", types.ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, patched)
}

// switchingIdentity answers the first Address call with first and every
// later one with then.
type switchingIdentity struct {
	mu          sync.Mutex
	calls       int
	first, then string
}

func (s *switchingIdentity) Address() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls == 1 {
		return s.first, true
	}
	return s.then, true
}

func (s *switchingIdentity) Ready() bool { return true }

func TestReads_KeyAndFetchUseOneWallet(t *testing.T) {
	t.Parallel()
	f := newFixture(t, walletA)
	ident := &switchingIdentity{first: walletA, then: walletB}
	layer := New(f.be, f.cache, ident, f.notes, nil, nil)
	f.be.on("GET /wallets/0xAAA/pings/received", func(gateway.Call) (any, error) { return pings("A-own"), nil })
	f.be.on("GET /wallets/0xBBB/pings/received", func(gateway.Call) (any, error) { return pings("B-secret"), nil })

	res, err := layer.ReceivedPings(context.Background(), types.PingFilters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A-own"}, pingIDs(res.Data))

	page, ok := qc.GetAs[types.PingsPage](f.cache, ReceivedPingsKey(walletA, types.PingFilters{}))
	require.True(t, ok)
	assert.Equal(t, []string{"A-own"}, pingIDs(page))
	assert.Zero(t, f.be.count("GET /wallets/0xBBB/pings/received"))
}

func TestReads_DroppedWhenCacheClearedMeanwhile(t *testing.T) {
	t.Parallel()
	f := newFixture(t, walletA)
	f.be.on("GET /wallets/0xAAA/matches", func(gateway.Call) (any, error) {
		return types.MatchesPage{Matches: []types.Match{{ID: "M-A"}}}, nil
	})
	ident := &clearingIdentity{fakeIdentity: f.ident, clear: f.cache.Clear}
	layer := New(f.be, f.cache, ident, f.notes, nil, nil)

	_, err := layer.Matches(context.Background(), types.MatchFilters{})
	assert.ErrorIs(t, err, qc.ErrCanceled)
	assert.Empty(t, f.cache.Keys(MatchesPrefix(walletA)))
	assert.Zero(t, f.be.count("GET /wallets/0xAAA/matches"))
}

// clearingIdentity clears the cache as the address is read, the way an
// identity change does.
type clearingIdentity struct {
	*fakeIdentity
	clear func()
}

func (c *clearingIdentity) Address() (string, bool) {
	addr, ok := c.fakeIdentity.Address()
	c.clear()
	return addr, ok
}

func TestRespondToPing_FailureAfterDisconnectLeavesCacheEmpty(t *testing.T) {
	t.Parallel()
	f := newFixture(t, walletA)
	ctx := context.Background()
	f.be.on("GET /wallets/0xAAA/pings/received", func(gateway.Call) (any, error) { return pings("A", "B"), nil })
	_, err := f.layer.ReceivedPings(ctx, types.PingFilters{})
	require.NoError(t, err)

	entered := make(chan struct{})
	unblock := make(chan struct{})
	f.be.on("POST /pings/B/respond", func(gateway.Call) (any, error) {
		close(entered)
		<-unblock
		return nil, cerr.NewHTTPError(500, "INTERNAL_ERROR", "database unavailable")
	})

	done := make(chan error, 1)
	go func() {
		_, err := f.layer.RespondToPing(ctx, "B", types.ActionAccept)
		done <- err
	}()
	<-entered

	f.ident.mu.Lock()
	f.ident.wallet = ""
	f.ident.mu.Unlock()
	f.cache.Clear()
	close(unblock)

	require.Error(t, <-done)
	assert.Empty(t, f.cache.Keys(ReceivedPingsPrefix(walletA)))
	assert.Empty(t, f.cache.Keys(qc.K()))
}

func TestRespondToPing_WaitForWalletHonoursContext(t *testing.T) {
	t.Parallel()
	f := newFixture(t, walletB)
	entered := make(chan struct{})
	unblock := make(chan struct{})
	f.be.on("POST /pings/B/respond", func(gateway.Call) (any, error) {
		close(entered)
		<-unblock
		return types.RespondResult{Action: "accept"}, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := f.layer.RespondToPing(context.Background(), "B", types.ActionAccept)
		done <- err
	}()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := f.layer.RespondToPing(ctx, "C", types.ActionDecline)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, f.layer.InFlight("C"))
	assert.Zero(t, f.be.count("POST /pings/C/respond"))

	close(unblock)
	require.NoError(t, <-done)

	f.layer.mu.Lock()
	defer f.layer.mu.Unlock()
	assert.Empty(t, f.layer.wallets)
}

func TestWrites_RequireIdentity(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	ctx := context.Background()

	_, err := f.layer.CreatePosting(ctx, types.CreatePostingRequest{})
	assert.ErrorIs(t, err, types.ErrNoIdentity)
	_, err = f.layer.UpdatePostingStatus(ctx, "P1", types.PostingClosed)
	assert.ErrorIs(t, err, types.ErrNoIdentity)
	_, err = f.layer.PingPosting(ctx, "P1", "Producer", "hi")
	assert.ErrorIs(t, err, types.ErrNoIdentity)
	_, err = f.layer.RespondToPing(ctx, "B", types.ActionAccept)
	assert.ErrorIs(t, err, types.ErrNoIdentity)
	_, err = f.layer.SendMessage(ctx, "M1", types.SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, types.ErrNoIdentity)
	_, err = f.layer.MarkMessagesRead(ctx, "M1")
	assert.ErrorIs(t, err, types.ErrNoIdentity)
	assert.Empty(t, f.notes.notes)
}

func TestSendMessage_InvalidatesThreadAndMatches(t *testing.T) {
	t.Parallel()
	f := newFixture(t, walletA)
	ctx := context.Background()
	f.be.on("GET /matches/M1/messages", func(gateway.Call) (any, error) { return types.MessagesPage{}, nil })
	f.be.on("GET /matches/M2/messages", func(gateway.Call) (any, error) { return types.MessagesPage{}, nil })
	f.be.on("GET /wallets/0xAAA/matches", func(gateway.Call) (any, error) { return types.MatchesPage{}, nil })
	f.be.on("GET /collabs/feed", func(gateway.Call) (any, error) { return types.FeedPage{}, nil })
	f.be.on("POST /matches/M1/messages", func(gateway.Call) (any, error) {
		return types.SendMessageResult{MessageID: "m-1"}, nil
	})
	f.be.on("POST /matches/M1/messages/read", func(gateway.Call) (any, error) { return types.Ack{Message: "ok"}, nil })

	for _, id := range []string{"M1", "M2"} {
		_, err := f.layer.Messages(ctx, id, types.MessageFilters{})
		require.NoError(t, err)
	}
	_, err := f.layer.Matches(ctx, types.MatchFilters{})
	require.NoError(t, err)
	_, err = f.layer.Feed(ctx, types.FeedFilters{})
	require.NoError(t, err)

	res, err := f.layer.SendMessage(ctx, "M1", types.SendMessageRequest{Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "m-1", res.MessageID)

	assert.True(t, f.cache.IsStale(MessagesKey("M1", types.MessageFilters{})))
	assert.True(t, f.cache.IsStale(MatchesKey(walletA, types.MatchFilters{})))
	assert.False(t, f.cache.IsStale(MessagesKey("M2", types.MessageFilters{})))
	assert.False(t, f.cache.IsStale(FeedKey(types.FeedFilters{})))
	assert.True(t, f.notes.last().ok)
}

func TestCreatePosting_InvalidatesEveryFeedVariant(t *testing.T) {
	t.Parallel()
	f := newFixture(t, walletA)
	ctx := context.Background()
	f.be.on("GET /collabs/feed", func(gateway.Call) (any, error) { return types.FeedPage{}, nil })
	f.be.on("POST /collabs", func(gateway.Call) (any, error) {
		return types.CreatePostingResult{ID: "P9"}, nil
	})
	_, err := f.layer.Feed(ctx, types.FeedFilters{})
	require.NoError(t, err)
	_, err = f.layer.Feed(ctx, types.FeedFilters{Filter: types.FilterRemote})
	require.NoError(t, err)

	res, err := f.layer.CreatePosting(ctx, validPosting())
	require.NoError(t, err)
	assert.Equal(t, "P9", res.ID)
	assert.True(t, f.cache.IsStale(FeedKey(types.FeedFilters{})))
	assert.True(t, f.cache.IsStale(FeedKey(types.FeedFilters{Filter: types.FilterRemote})))
	assert.Equal(t, note{ok: true, msg: "Collaboration created successfully!"}, f.notes.last())
}

func TestWriteFailure_NotifiesWithFallback(t *testing.T) {
	t.Parallel()
	f := newFixture(t, walletA)
	f.be.on("POST /collabs/P1/ping", func(gateway.Call) (any, error) {
		return nil, &cerr.APIError{Code: cerr.CodeUnknown}
	})
	f.be.on("PATCH /collabs/P1", func(gateway.Call) (any, error) {
		return nil, cerr.NewHTTPError(403, "FORBIDDEN", "Only the creator can update this collaboration")
	})

	_, err := f.layer.PingPosting(context.Background(), "P1", "Producer", "")
	require.Error(t, err)
	assert.Equal(t, note{ok: false, msg: cerr.CodeUnknown}, f.notes.last())

	_, err = f.layer.UpdatePostingStatus(context.Background(), "P1", types.PostingClosed)
	require.Error(t, err)
	assert.Equal(t, note{ok: false, msg: "Only the creator can update this collaboration"}, f.notes.last())
	assert.Equal(t, "Failed to send ping", failureMessage(errors.New(""), "Failed to send ping"))
}

func validPosting() types.CreatePostingRequest {
	return types.CreatePostingRequest{
		Role:        "Video Editor",
		PaymentType: types.PaymentPaid,
		WorkStyle:   types.WorkContract,
		Collaborators: []types.CollaboratorRole{
			{Role: "Editor", Credits: 60}, {Role: "Colorist", Credits: 40},
		},
	}
}

type fakeCoins struct {
	got []string
}

func (c *fakeCoins) Batch(_ context.Context, addrs []string) (map[string]*types.CoinData, error) {
	c.got = addrs
	out := make(map[string]*types.CoinData)
	for _, a := range addrs {
		out[a] = &types.CoinData{Symbol: "C-" + a}
	}
	return out, nil
}

func TestFeedWithCoins_LeavesCachedPageUntouched(t *testing.T) {
	t.Parallel()
	f := newFixture(t, walletA)
	coins := &fakeCoins{}
	f.layer.coins = coins
	f.be.on("GET /collabs/feed", func(gateway.Call) (any, error) {
		return types.FeedPage{Collabs: []types.Posting{
			{ID: "P1", CoinAddress: "0xc1"},
			{ID: "P2"},
			{ID: "P3", CoinAddress: "0xc1"},
		}}, nil
	})

	res, err := f.layer.FeedWithCoins(context.Background(), types.FeedFilters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"0xc1"}, coins.got)
	require.NotNil(t, res.Data.Collabs[0].CoinData)
	assert.Equal(t, "C-0xc1", res.Data.Collabs[0].CoinData.Symbol)
	assert.Nil(t, res.Data.Collabs[1].CoinData)
	assert.NotNil(t, res.Data.Collabs[2].CoinData)

	cached, ok := qc.GetAs[types.FeedPage](f.cache, FeedKey(types.FeedFilters{}))
	require.True(t, ok)
	assert.Nil(t, cached.Collabs[0].CoinData)
}
