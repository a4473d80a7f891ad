package status

import (
	"errors"
	"fmt"
)

// Sentinel errors for the status package.
var (
	// ErrEmptyName is returned when registering a collector without a name.
	ErrEmptyName = errors.New("status: collector name is empty")

	// ErrNilAction is returned when registering a collector without an action.
	ErrNilAction = errors.New("status: collector action is nil")

	// ErrNilCollector is returned by Engine.Run for a nil entry.
	ErrNilCollector = errors.New("status: nil collector")

	// ErrCollectorTimeout is recorded in an envelope when a collector does
	// not finish before its deadline.
	ErrCollectorTimeout = errors.New("status: collector timed out")

	// ErrCollectorNotFound is returned when a named collector is not registered.
	ErrCollectorNotFound = errors.New("status: collector not found")

	// ErrResultNotEncodable is recorded in an envelope when the outcome
	// value cannot be encoded as JSON.
	ErrResultNotEncodable = errors.New("status: result is not JSON encodable")
)

// PanicError is recorded in an envelope when a collector action panics.
type PanicError struct {
	// Value is the value passed to panic.
	Value any

	// Stack is the goroutine stack at the time of the panic.
	Stack []byte
}

// Error implements error.
func (e *PanicError) Error() string {
	return fmt.Sprintf("status: collector panicked: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
