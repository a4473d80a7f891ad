package status

import (
	"encoding/json"
	"time"
)

// Envelope is the normalized result of one collector invocation.
type Envelope struct {
	// Name is the collector name.
	Name string

	// Success is the outcome's success flag, or false when the action failed.
	Success bool

	// Results is the raw outcome value. Unset when Error is set.
	Results any

	// Error is the action failure, if any.
	Error error

	// Duration is how long the invocation took.
	Duration time.Duration

	// Timestamp is when the invocation started.
	Timestamp time.Time
}

type successJSON struct {
	Name      string    `json:"name"`
	Success   bool      `json:"success"`
	Results   any       `json:"results"`
	Duration  string    `json:"duration"`
	Timestamp time.Time `json:"timestamp"`
}

type failureJSON struct {
	Name      string    `json:"name"`
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
	Duration  string    `json:"duration"`
	Timestamp time.Time `json:"timestamp"`
}

// MarshalJSON encodes the envelope with exactly one of "results" or "error".
func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Error != nil {
		return json.Marshal(failureJSON{
			Name:      e.Name,
			Success:   false,
			Error:     e.Error.Error(),
			Duration:  e.Duration.String(),
			Timestamp: e.Timestamp,
		})
	}
	return json.Marshal(successJSON{
		Name:      e.Name,
		Success:   e.Success,
		Results:   e.Results,
		Duration:  e.Duration.String(),
		Timestamp: e.Timestamp,
	})
}

// Summary counts envelopes by outcome.
type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Summarize counts the envelopes by outcome.
func Summarize(envs []Envelope) Summary {
	s := Summary{Total: len(envs)}
	for _, env := range envs {
		if env.Success {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}

// AllSucceeded reports whether every envelope succeeded. It is true for an
// empty slice.
func AllSucceeded(envs []Envelope) bool {
	for _, env := range envs {
		if !env.Success {
			return false
		}
	}
	return true
}
