package resilience

import (
	"context"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed lets every call through.
	StateClosed State = iota
	// StateOpen rejects every call with ErrCircuitOpen.
	StateOpen
	// StateHalfOpen lets a limited number of trial calls through.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// MaxFailures is the number of consecutive failures that opens the circuit.
	// Default: 5
	MaxFailures int

	// ResetTimeout is how long the circuit stays open before a trial call.
	// Default: 30 seconds
	ResetTimeout time.Duration

	// HalfOpenMaxRequests is the number of trial calls allowed while half-open.
	// Default: 1
	HalfOpenMaxRequests int

	// OnStateChange is called on every transition, with the lock held.
	OnStateChange func(from, to State)

	// IsFailure reports whether err counts as a failure.
	// Default: every non-nil error.
	IsFailure func(err error) bool
}

// CircuitBreaker implements the circuit breaker pattern.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu            sync.Mutex
	state         State
	failures      int
	openedAt      time.Time
	halfOpenCount int
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}
	if config.HalfOpenMaxRequests <= 0 {
		config.HalfOpenMaxRequests = 1
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}
	return &CircuitBreaker{config: config, state: StateClosed}
}

// Execute runs op through the circuit breaker.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	_, err := callWithBreaker(ctx, cb, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

func callWithBreaker[T any](ctx context.Context, cb *CircuitBreaker, op func(context.Context) (T, error)) (T, error) {
	if err := cb.acquire(); err != nil {
		var zero T
		return zero, err
	}
	v, err := op(ctx)
	cb.record(err)
	return v, err
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentLocked()
}

// Reset closes the circuit and clears the failure count.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.transitionLocked(StateClosed)
}

func (cb *CircuitBreaker) acquire() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentLocked() {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.halfOpenCount >= cb.config.HalfOpenMaxRequests {
			return ErrCircuitOpen
		}
		cb.halfOpenCount++
	}
	return nil
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	failed := cb.config.IsFailure(err)

	switch cb.state {
	case StateClosed:
		if !failed {
			cb.failures = 0
			return
		}
		cb.failures++
		if cb.failures >= cb.config.MaxFailures {
			cb.openedAt = time.Now()
			cb.transitionLocked(StateOpen)
		}

	case StateHalfOpen:
		if failed {
			cb.openedAt = time.Now()
			cb.transitionLocked(StateOpen)
			return
		}
		cb.failures = 0
		cb.transitionLocked(StateClosed)
	}
}

// currentLocked moves an expired open circuit to half-open.
func (cb *CircuitBreaker) currentLocked() State {
	if cb.state == StateOpen && time.Since(cb.openedAt) >= cb.config.ResetTimeout {
		cb.transitionLocked(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) transitionLocked(to State) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	if to == StateHalfOpen {
		cb.halfOpenCount = 0
	}
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, to)
	}
}

// Metrics returns a snapshot of the breaker.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return CircuitBreakerMetrics{
		State:    cb.currentLocked(),
		Failures: cb.failures,
		OpenedAt: cb.openedAt,
	}
}

// CircuitBreakerMetrics contains circuit breaker statistics.
type CircuitBreakerMetrics struct {
	State    State
	Failures int
	OpenedAt time.Time
}
