package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// BackoffStrategy defines how delays increase between retries.
type BackoffStrategy int

const (
	// BackoffExponential multiplies the delay each attempt.
	BackoffExponential BackoffStrategy = iota
	// BackoffLinear increases delay linearly.
	BackoffLinear
	// BackoffConstant uses the same delay for all retries.
	BackoffConstant
)

// RetryConfig configures the retry behavior.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	// Default: 3
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	// Default: 100ms
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries.
	// Default: 5s
	MaxDelay time.Duration

	// Multiplier is the factor for exponential backoff.
	// Default: 2.0
	Multiplier float64

	// Strategy is the backoff strategy.
	// Default: BackoffExponential
	Strategy BackoffStrategy

	// Jitter adds up to 25% random delay.
	Jitter bool

	// RetryIf reports whether err should be retried.
	// Default: every error except context cancellation and ErrCircuitOpen.
	RetryIf func(err error) bool

	// OnRetry is called before each retry.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry re-runs failed operations with backoff.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a new retry handler.
func NewRetry(config RetryConfig) *Retry {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 100 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 5 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.RetryIf == nil {
		config.RetryIf = defaultRetryIf
	}
	return &Retry{config: config}
}

func defaultRetryIf(err error) bool {
	return err != nil &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, ErrCircuitOpen)
}

// Execute runs op until it succeeds, a non-retryable error occurs, the
// attempts are exhausted or ctx is done.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	_, err := callWithRetry(ctx, r, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}

func callWithRetry[T any](ctx context.Context, r *Retry, op func(context.Context) (T, error)) (T, error) {
	var (
		value T
		err   error
	)
	for attempt := 1; ; attempt++ {
		value, err = op(ctx)
		if err == nil || !r.config.RetryIf(err) || attempt >= r.config.MaxAttempts {
			return value, err
		}

		delay := r.delay(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return value, ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *Retry) delay(attempt int) time.Duration {
	var d time.Duration
	switch r.config.Strategy {
	case BackoffConstant:
		d = r.config.InitialDelay
	case BackoffLinear:
		d = r.config.InitialDelay * time.Duration(attempt)
	default:
		d = time.Duration(float64(r.config.InitialDelay) * math.Pow(r.config.Multiplier, float64(attempt-1)))
	}

	if d > r.config.MaxDelay {
		d = r.config.MaxDelay
	}

	if r.config.Jitter && d >= 4 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		d += time.Duration(rand.Int64N(int64(d / 4)))
	}
	return d
}
