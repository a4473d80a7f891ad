// Package resilience provides the failure-handling wrappers a status
// collector can opt into at registration time.
//
// # Patterns
//
//   - Timeout: bounds a single attempt.
//   - Retry: re-runs failed attempts with exponential, linear or constant
//     backoff.
//   - Circuit Breaker: stops calling a dependency that keeps failing and
//     reports ErrCircuitOpen until the reset timeout elapses.
//
// # Usage
//
// Patterns compose through an Executor. Call works for operations that
// produce a value, Execute for operations that only report an error:
//
//	exec := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	        MaxFailures:  3,
//	        ResetTimeout: time.Minute,
//	    })),
//	    resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{MaxAttempts: 2})),
//	    resilience.WithTimeout(2*time.Second),
//	)
//
//	depth, err := resilience.Call(ctx, exec, func(ctx context.Context) (int, error) {
//	    return queue.Depth(ctx)
//	})
package resilience
