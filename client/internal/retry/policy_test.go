package retry

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/originals/collab-client/client/internal/errors"
)

func TestPolicy_Delays(t *testing.T) {
	t.Parallel()
	p := Exponential(4, time.Second)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, p.Delays())

	capped := Policy{MaxAttempts: 4, BaseDelay: time.Second, Multiplier: 2, MaxDelay: 3 * time.Second}
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, capped.Delays())

	assert.Empty(t, Policy{}.Delays())
}

func TestPolicy_DoRetriesUntilSuccess(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := Exponential(3, time.Millisecond).Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return stderrors.New("flaky")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestPolicy_DoStopsOnIrrecoverable(t *testing.T) {
	t.Parallel()
	attempts := 0
	denied := errors.NewHTTPError(403, "FORBIDDEN", "no")
	err := Exponential(5, time.Millisecond).Do(context.Background(), func(context.Context) error {
		attempts++
		return denied
	})
	assert.ErrorIs(t, err, denied)
	assert.Equal(t, 1, attempts)
}

func TestPolicy_DoReturnsLastError(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := Exponential(2, time.Millisecond).Do(context.Background(), func(context.Context) error {
		attempts++
		return errors.NewHTTPError(500, "INTERNAL", "down")
	})
	require.Error(t, err)
	assert.Equal(t, "down", err.Error())
	assert.Equal(t, 2, attempts)
}

func TestPolicy_DoHonoursContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Exponential(3, time.Hour).Do(ctx, func(context.Context) error {
		return stderrors.New("flaky")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPolicy_CustomRetryable(t *testing.T) {
	t.Parallel()
	attempts := 0
	p := Exponential(4, time.Millisecond)
	p.Retryable = func(error) bool { return false }
	_ = p.Do(context.Background(), func(context.Context) error {
		attempts++
		return stderrors.New("x")
	})
	assert.Equal(t, 1, attempts)
}
