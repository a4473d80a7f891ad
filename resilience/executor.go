package resilience

import (
	"context"
	"time"
)

// Executor composes the resilience patterns.
type Executor struct {
	circuitBreaker *CircuitBreaker
	retry          *Retry
	timeout        *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new resilience executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithCircuitBreaker adds a circuit breaker to the executor.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) {
		e.circuitBreaker = cb
	}
}

// WithRetry adds retry logic to the executor.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) {
		e.retry = r
	}
}

// WithTimeout bounds each attempt to timeout.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout})
	}
}

// WithTimeoutConfig adds a preconfigured timeout to the executor.
func WithTimeoutConfig(t *Timeout) ExecutorOption {
	return func(e *Executor) {
		e.timeout = t
	}
}

// Empty reports whether no pattern is configured.
func (e *Executor) Empty() bool {
	return e.circuitBreaker == nil && e.retry == nil && e.timeout == nil
}

// Execute runs op through all configured patterns.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	_, err := Call(ctx, e, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Call runs op through all configured patterns and returns its value.
//
// The chain, outermost first, is:
// 1. Circuit Breaker - one breaker decision per call, not per attempt
// 2. Retry - re-runs failed attempts
// 3. Timeout - bounds each attempt
func Call[T any](ctx context.Context, e *Executor, op func(context.Context) (T, error)) (T, error) {
	call := op

	if e.timeout != nil {
		inner := call
		call = func(ctx context.Context) (T, error) {
			return callWithTimeout(ctx, e.timeout, inner)
		}
	}

	if e.retry != nil {
		inner := call
		call = func(ctx context.Context) (T, error) {
			return callWithRetry(ctx, e.retry, inner)
		}
	}

	if e.circuitBreaker != nil {
		inner := call
		call = func(ctx context.Context) (T, error) {
			return callWithBreaker(ctx, e.circuitBreaker, inner)
		}
	}

	return call(ctx)
}
