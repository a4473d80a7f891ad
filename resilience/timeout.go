package resilience

import (
	"context"
	"errors"
	"time"
)

// TimeoutConfig configures the timeout wrapper.
type TimeoutConfig struct {
	// Timeout is the maximum duration of one attempt.
	// Default: 30 seconds
	Timeout time.Duration
}

// Timeout bounds the duration of an operation.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a new timeout wrapper.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &Timeout{config: config}
}

// Execute runs op, returning ErrTimeout if it does not finish in time.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	_, err := callWithTimeout(ctx, t, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Config returns the timeout configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}

type timeoutResult[T any] struct {
	value T
	err   error
}

// callWithTimeout runs op on its own goroutine so a stuck operation cannot
// hold the caller past the deadline. The goroutine is abandoned on timeout.
func callWithTimeout[T any](ctx context.Context, t *Timeout, op func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	done := make(chan timeoutResult[T], 1)
	go func() {
		v, err := op(ctx)
		done <- timeoutResult[T]{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, ErrTimeout
		}
		return zero, ctx.Err()
	}
}

// ExecuteWithTimeout runs op with a one-off timeout.
func ExecuteWithTimeout(ctx context.Context, timeout time.Duration, op func(context.Context) error) error {
	return NewTimeout(TimeoutConfig{Timeout: timeout}).Execute(ctx, op)
}
