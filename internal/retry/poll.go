// Package retry provides bounded polling for operations that converge on
// their own, such as a node catching up with its network.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPoll is returned when Poll is called without a positive
// interval and timeout. Unbounded polling is not supported.
var ErrInvalidPoll = errors.New("poll interval and timeout must be positive")

// TimeoutError reports that the probe did not succeed before the deadline.
type TimeoutError struct {
	Attempts int
	Timeout  time.Duration
	LastErr  error
}

func (e *TimeoutError) Error() string {
	if e.LastErr == nil {
		return fmt.Sprintf("condition not met within %s after %d attempts", e.Timeout, e.Attempts)
	}
	return fmt.Sprintf("condition not met within %s after %d attempts: %v", e.Timeout, e.Attempts, e.LastErr)
}

func (e *TimeoutError) Unwrap() error {
	return e.LastErr
}

// Probe checks the condition once. A nil error means the condition holds.
// The context carries the poll deadline.
type Probe func(ctx context.Context) error

// Poll calls probe until it returns nil, sleeping interval between attempts.
// It gives up with a *TimeoutError once timeout has elapsed, and returns
// immediately when probe returns an error wrapped with Fatal.
//
// Cancelling ctx stops the loop between attempts but never interrupts a
// running probe; only the poll deadline does that.
func Poll(ctx context.Context, interval, timeout time.Duration, probe Probe) (int, error) {
	if interval <= 0 || timeout <= 0 {
		return 0, ErrInvalidPoll
	}

	pollCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	var (
		attempts int
		lastErr  error
	)

	for {
		attempts++
		err := probe(pollCtx)
		if err == nil {
			return attempts, nil
		}
		lastErr = err

		if IsFatal(err) {
			return attempts, fmt.Errorf("fatal error (not retrying): %w", err)
		}
		if pollCtx.Err() != nil {
			return attempts, &TimeoutError{Attempts: attempts, Timeout: timeout, LastErr: lastErr}
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempts, fmt.Errorf("polling cancelled after %d attempts: %w", attempts, ctx.Err())
		case <-pollCtx.Done():
			timer.Stop()
			return attempts, &TimeoutError{Attempts: attempts, Timeout: timeout, LastErr: lastErr}
		case <-timer.C:
		}
	}
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as fatal so Poll stops without further attempts.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal checks if an error is fatal (non-retryable).
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
