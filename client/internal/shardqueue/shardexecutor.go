// Package shardqueue runs background jobs on a small set of workers partitioned
// by a stable hash of a key. Jobs with the same key run in FIFO order; jobs
// with different keys may run in parallel. The query cache uses it to serialise
// refetches of the same cache key.
package shardqueue

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/originals/collab-client/client/internal/retry"
)

type queuedJob struct {
	ctx context.Context
	job Job
}

// ShardExecutor executes Jobs on worker goroutines, one per shard.
type ShardExecutor struct {
	cfg    Config
	policy retry.Policy
	log    zerolog.Logger
	queues []chan queuedJob

	done   chan struct{}
	closed uint32

	wg sync.WaitGroup
}

// NewShardExecutor constructs the executor and starts its shard workers.
func NewShardExecutor(cfg Config) *ShardExecutor {
	if cfg.Shards <= 0 {
		cfg.Shards = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 128
	}
	if cfg.EnqueueTimeout <= 0 {
		cfg.EnqueueTimeout = 100 * time.Millisecond
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 100 * time.Millisecond
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = 20 * time.Second
	}

	p := &ShardExecutor{
		cfg: cfg,
		policy: retry.Policy{
			MaxAttempts: cfg.MaxAttempts,
			BaseDelay:   cfg.BaseBackoff,
			Multiplier:  2,
			MaxDelay:    cfg.MaxInterval,
		},
		log:    log.With().Str("component", "shardqueue").Logger(),
		queues: make([]chan queuedJob, cfg.Shards),
		done:   make(chan struct{}),
	}
	for i := 0; i < cfg.Shards; i++ {
		ch := make(chan queuedJob, cfg.QueueSize)
		p.queues[i] = ch
		p.wg.Add(1)
		go p.runWorker(i, ch)
	}
	return p
}

// Submit enqueues job for the shard derived from key.
//
//   - Returns ErrExecutorClosed if the executor is stopped.
//   - Returns a *QueueFullError if the shard is still full after EnqueueTimeout.
//   - Returns ctx.Err() if ctx is cancelled first.
func (p *ShardExecutor) Submit(ctx context.Context, key string, job Job) error {
	if atomic.LoadUint32(&p.closed) == 1 {
		return ErrExecutorClosed
	}
	select {
	case <-p.done:
		return ErrExecutorClosed
	default:
	}

	shard := p.shardFor(key)
	ch := p.queues[shard]

	timer := time.NewTimer(p.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case ch <- queuedJob{ctx: ctx, job: job}:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil
	case <-p.done:
		return ErrExecutorClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return &QueueFullError{Shard: shard, Length: len(ch), Capacity: cap(ch)}
	}
}

// Barrier waits until every job submitted for key before the call has run.
func (p *ShardExecutor) Barrier(ctx context.Context, key string) error {
	done := make(chan struct{})
	if err := p.Submit(ctx, key, JobFunc(func(context.Context) error {
		close(done)
		return nil
	})); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Stop lets every worker drain its queue and waits for them. Idempotent.
func (p *ShardExecutor) Stop() {
	if !atomic.CompareAndSwapUint32(&p.closed, 0, 1) {
		return
	}
	p.log.Debug().Int("shards", p.cfg.Shards).Msg("stopping executor")
	close(p.done)
	p.wg.Wait()
	p.log.Debug().Msg("executor stopped")
}

// Close lets ShardExecutor satisfy io.Closer.
func (p *ShardExecutor) Close() error {
	p.Stop()
	return nil
}

func (p *ShardExecutor) runWorker(idx int, ch <-chan queuedJob) {
	defer p.wg.Done()
	label := labelFor(idx)

	for {
		select {
		case qj := <-ch:
			p.process(idx, label, qj)
			queueDepth.WithLabelValues(label).Set(float64(len(ch)))

		case <-p.done:
			drained := 0
			for {
				select {
				case qj := <-ch:
					p.process(idx, label, qj)
					drained++
				default:
					if drained > 0 {
						p.log.Debug().Int("shard", idx).Int("drained", drained).Msg("drained remaining jobs")
					}
					queueDepth.WithLabelValues(label).Set(0)
					return
				}
			}
		}
	}
}

func (p *ShardExecutor) process(idx int, label string, qj queuedJob) {
	if qj.job == nil {
		return
	}
	// Honour caller context so a cancelled job doesn't stall the shard.
	if err := qj.ctx.Err(); err != nil {
		p.handleError(err)
		return
	}
	err := p.policy.Do(qj.ctx, func(ctx context.Context) error {
		start := time.Now()
		defer func() { runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds()) }()
		return p.runSafely(idx, ctx, qj.job)
	})
	if err != nil {
		failuresTotal.WithLabelValues(label).Inc()
		p.handleError(err)
	}
}

// runSafely keeps a panicking job from killing its worker.
func (p *ShardExecutor) runSafely(idx int, ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Int("shard", idx).Interface("panic", r).Msg("job panicked")
			err = fmt.Errorf("shardqueue: job panic: %v", r)
		}
	}()
	return job.Run(ctx)
}

func (p *ShardExecutor) handleError(err error) {
	if err == nil || p.cfg.ErrorHandler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("error handler panicked")
		}
	}()
	p.cfg.ErrorHandler(err)
}

func (p *ShardExecutor) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(p.cfg.Shards))
}
