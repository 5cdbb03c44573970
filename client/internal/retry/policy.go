// Package retry holds the reusable retry-with-backoff policy shared by the
// onboarding check, the query cache and the refetch queue.
package retry

import (
	"context"
	stderrors "errors"
	"math"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/originals/collab-client/client/internal/errors"
)

// Policy describes how many times an operation is attempted and how long to
// wait between attempts. The zero value runs the operation exactly once.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	MaxDelay    time.Duration
	// Retryable decides whether a failed attempt may be repeated. Nil means
	// DefaultRetryable.
	Retryable func(error) bool
}

// Exponential returns a policy that doubles base between attempts.
func Exponential(attempts int, base time.Duration) Policy {
	return Policy{MaxAttempts: attempts, BaseDelay: base, Multiplier: 2, MaxDelay: 30 * time.Second}
}

// DefaultRetryable retries everything except irrecoverable HTTP failures and
// context cancellation.
func DefaultRetryable(err error) bool {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !errors.IsIrrecoverable(err)
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	if p.Multiplier < 1 {
		p.Multiplier = 2
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Millisecond
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = time.Duration(math.MaxInt64)
	}
	if p.Retryable == nil {
		p.Retryable = DefaultRetryable
	}
	return p
}

func (p Policy) backOff() backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.BaseDelay
	exp.Multiplier = p.Multiplier
	exp.MaxInterval = p.MaxDelay
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0
	exp.Reset()
	return backoff.WithMaxRetries(exp, uint64(p.MaxAttempts-1))
}

// Do runs fn until it succeeds, returns a non-retryable error, the attempts
// are exhausted, or ctx is done. The last error is returned.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	p = p.normalized()
	op := func() error {
		err := fn(ctx)
		if err != nil && !p.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.Retry(op, backoff.WithContext(p.backOff(), ctx))
}

// Delays lists the waits Do would perform between attempts.
func (p Policy) Delays() []time.Duration {
	p = p.normalized()
	b := p.backOff()
	out := make([]time.Duration, 0, p.MaxAttempts-1)
	for {
		d := b.NextBackOff()
		if d == backoff.Stop {
			return out
		}
		out = append(out, d)
	}
}
