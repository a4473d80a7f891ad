package status

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/jonwraymond/statuskit/resilience"
)

// Action produces the outcome of one collector invocation.
type Action func(ctx context.Context) (Outcome, error)

// Collector is a named action held by a Registry.
type Collector struct {
	name   string
	action Action
}

// NewCollector creates a collector outside of any registry.
func NewCollector(name string, action Action, opts ...CollectorOption) (*Collector, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if action == nil {
		return nil, ErrNilAction
	}

	var o collectorOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Collector{name: name, action: o.wrap(action)}, nil
}

// Name returns the collector name.
func (c *Collector) Name() string {
	return c.name
}

// Action returns the action with its registration options applied.
func (c *Collector) Action() Action {
	return c.action
}

// CollectorOption configures a collector at registration.
type CollectorOption func(*collectorOptions)

type collectorOptions struct {
	timeout time.Duration
	retry   *resilience.Retry
	breaker *resilience.CircuitBreaker
}

// WithTimeout bounds each attempt of the action to d.
func WithTimeout(d time.Duration) CollectorOption {
	return func(o *collectorOptions) {
		o.timeout = d
	}
}

// WithRetry retries the action when it returns an error. Declared logical
// failures are not retried.
func WithRetry(r *resilience.Retry) CollectorOption {
	return func(o *collectorOptions) {
		o.retry = r
	}
}

// WithCircuitBreaker stops invoking the action while cb is open. Only
// action errors count as breaker failures.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) CollectorOption {
	return func(o *collectorOptions) {
		o.breaker = cb
	}
}

func (o collectorOptions) wrap(action Action) Action {
	var execOpts []resilience.ExecutorOption
	if o.breaker != nil {
		execOpts = append(execOpts, resilience.WithCircuitBreaker(o.breaker))
	}
	if o.retry != nil {
		execOpts = append(execOpts, resilience.WithRetry(o.retry))
	}
	if o.timeout > 0 {
		execOpts = append(execOpts, resilience.WithTimeout(o.timeout))
	}
	if len(execOpts) == 0 {
		return action
	}

	exec := resilience.NewExecutor(execOpts...)
	return func(ctx context.Context) (Outcome, error) {
		out, err := resilience.Call(ctx, exec, func(ctx context.Context) (Outcome, error) {
			return safeCall(ctx, action)
		})
		if errors.Is(err, resilience.ErrTimeout) {
			return Outcome{}, ErrCollectorTimeout
		}
		return out, err
	}
}

// safeCall runs action and converts a panic into a *PanicError.
func safeCall(ctx context.Context, action Action) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{}
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return action(ctx)
}
