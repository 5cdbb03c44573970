package shardqueue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShardExecutor_FIFOPerKey(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(Config{Shards: 2, QueueSize: 16})
	defer ex.Stop()

	var mu sync.Mutex
	var order []int
	for i := 0; i < 10; i++ {
		i := i
		require.NoError(t, ex.Submit(context.Background(), "receivedPings/0xabc", JobFunc(func(context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})))
	}
	require.NoError(t, ex.Barrier(context.Background(), "receivedPings/0xabc"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestShardExecutor_QueueFull(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 1, EnqueueTimeout: 10 * time.Millisecond})
	defer ex.Stop()

	block := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		close(started)
		<-block
		return nil
	})))
	<-started

	require.NoError(t, ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error { return nil })))
	err := ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error { return nil }))
	assert.ErrorIs(t, err, ErrQueueFull)
	close(block)
}

func TestShardExecutor_RetriesRecoverable(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 4, MaxAttempts: 3, BaseBackoff: time.Millisecond})
	defer ex.Stop()

	var attempts int32
	require.NoError(t, ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("flaky")
		}
		return nil
	})))
	require.NoError(t, ex.Barrier(context.Background(), "k"))
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestShardExecutor_ErrorHandlerOncePerJob(t *testing.T) {
	t.Parallel()
	var calls int32
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 4, ErrorHandler: func(error) { atomic.AddInt32(&calls, 1) }})
	defer ex.Stop()

	require.NoError(t, ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error { return errors.New("boom") })))
	require.NoError(t, ex.Barrier(context.Background(), "k"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestShardExecutor_SkipsCanceledJob(t *testing.T) {
	t.Parallel()
	var handled int32
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 4, ErrorHandler: func(err error) {
		if errors.Is(err, context.Canceled) {
			atomic.AddInt32(&handled, 1)
		}
	}})
	defer ex.Stop()

	block := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		close(started)
		<-block
		return nil
	})))
	<-started

	var ran int32
	jobCtx, cancel := context.WithCancel(context.Background())
	require.NoError(t, ex.Submit(jobCtx, "k", JobFunc(func(context.Context) error {
		atomic.StoreInt32(&ran, 1)
		return nil
	})))
	cancel()
	close(block)

	require.NoError(t, ex.Barrier(context.Background(), "k"))
	assert.Equal(t, int32(0), atomic.LoadInt32(&ran))
	assert.Equal(t, int32(1), atomic.LoadInt32(&handled))
}

func TestShardExecutor_PanicKeepsWorkerAlive(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 4})
	defer ex.Stop()

	require.NoError(t, ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error { panic("job panic") })))
	ran := make(chan struct{})
	require.NoError(t, ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		close(ran)
		return nil
	})))

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive a panicking job")
	}
}

func TestShardExecutor_SubmitAfterStop(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(Config{})
	ex.Stop()
	ex.Stop()
	assert.ErrorIs(t, ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error { return nil })), ErrExecutorClosed)
}

func TestQueueFullError_Is(t *testing.T) {
	t.Parallel()
	e := &QueueFullError{Shard: 3, Length: 10, Capacity: 16}
	assert.NotEmpty(t, e.Error())
	assert.ErrorIs(t, e, ErrQueueFull)
	assert.NotErrorIs(t, e, ErrExecutorClosed)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("REFETCH_QUEUE_SHARDS", "8")
	t.Setenv("REFETCH_QUEUE_QUEUE_SIZE", "256")
	t.Setenv("REFETCH_QUEUE_ENQUEUE_TIMEOUT", "250ms")
	t.Setenv("REFETCH_QUEUE_MAX_ATTEMPTS", "5")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Shards)
	assert.Equal(t, 256, cfg.QueueSize)
	assert.Equal(t, 250*time.Millisecond, cfg.EnqueueTimeout)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 20*time.Second, cfg.MaxInterval)
}
