package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoll_SucceedsFirstAttempt(t *testing.T) {
	t.Parallel()

	attempts, err := Poll(context.Background(), time.Millisecond, time.Second, func(context.Context) error {
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestPoll_SucceedsAfterRetries(t *testing.T) {
	t.Parallel()

	calls := 0
	attempts, err := Poll(context.Background(), 5*time.Millisecond, 5*time.Second, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not synced")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
}

func TestPoll_TimesOut(t *testing.T) {
	t.Parallel()

	start := time.Now()
	attempts, err := Poll(context.Background(), 10*time.Millisecond, 50*time.Millisecond, func(context.Context) error {
		return errors.New("still catching up")
	})

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.GreaterOrEqual(t, attempts, 2)
	assert.Equal(t, attempts, timeoutErr.Attempts)
	assert.Equal(t, 50*time.Millisecond, timeoutErr.Timeout)
	assert.EqualError(t, timeoutErr.LastErr, "still catching up")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestPoll_ProbeSeesDeadline(t *testing.T) {
	t.Parallel()

	_, err := Poll(context.Background(), time.Millisecond, 20*time.Millisecond, func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		require.True(t, ok)
		<-ctx.Done()
		return ctx.Err()
	})

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 1, timeoutErr.Attempts)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPoll_FatalStopsImmediately(t *testing.T) {
	t.Parallel()

	calls := 0
	attempts, err := Poll(context.Background(), time.Millisecond, time.Second, func(context.Context) error {
		calls++
		return Fatal(errors.New("executable vanished"))
	})

	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestPoll_CancelledBetweenAttempts(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	attempts, err := Poll(ctx, time.Hour, 2*time.Hour, func(context.Context) error {
		cancel()
		return errors.New("not ready")
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestPoll_CancelDoesNotInterruptProbe(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	_, err := Poll(ctx, time.Millisecond, time.Second, func(probeCtx context.Context) error {
		cancel()
		assert.NoError(t, probeCtx.Err())
		return nil
	})

	require.NoError(t, err)
}

func TestPoll_RejectsUnbounded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		interval time.Duration
		timeout  time.Duration
	}{
		{"zero interval", 0, time.Second},
		{"zero timeout", time.Second, 0},
		{"negative timeout", time.Second, -time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			attempts, err := Poll(context.Background(), tt.interval, tt.timeout, func(context.Context) error {
				t.Fatal("probe must not run")
				return nil
			})
			require.ErrorIs(t, err, ErrInvalidPoll)
			assert.Zero(t, attempts)
		})
	}
}

func TestFatal(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Fatal(nil))

	base := errors.New("boom")
	err := Fatal(base)
	assert.True(t, IsFatal(err))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "boom", err.Error())
	assert.False(t, IsFatal(base))
}
