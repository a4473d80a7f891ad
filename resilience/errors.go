package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrTimeout is returned when an attempt exceeds its time limit.
	ErrTimeout = errors.New("resilience: operation timed out")
)
