package status

import (
	"encoding/json"
	"maps"
)

// Kind identifies the shape of an Outcome.
type Kind int

const (
	// KindPlain is an opaque payload that is implicitly successful.
	KindPlain Kind = iota
	// KindReport is a structured report carrying its own success flag.
	KindReport
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindReport:
		return "report"
	default:
		return "unknown"
	}
}

// Outcome is the value a collector action produces. The zero Outcome is a
// plain nil payload.
type Outcome struct {
	kind  Kind
	value any
}

// Plain returns an outcome for an opaque payload. Plain outcomes always
// succeed, whatever fields v carries.
func Plain(v any) Outcome {
	return Outcome{kind: KindPlain, value: v}
}

// Structured returns a report outcome with the given success flag and
// auxiliary data.
func Structured(success bool, data map[string]any) Outcome {
	return Outcome{kind: KindReport, value: Report{Success: success, Data: data}}
}

// Succeeded returns a successful report.
func Succeeded(data map[string]any) Outcome {
	return Structured(true, data)
}

// Failed returns a report declaring a logical failure.
func Failed(data map[string]any) Outcome {
	return Structured(false, data)
}

// Kind returns the shape of the outcome.
func (o Outcome) Kind() Kind {
	return o.kind
}

// Success reports whether the outcome counts as a success.
func (o Outcome) Success() bool {
	if r, ok := o.value.(Report); ok && o.kind == KindReport {
		return r.Success
	}
	return true
}

// Value returns the raw value: the payload for plain outcomes and a Report
// for structured ones.
func (o Outcome) Value() any {
	return o.value
}

// Report is the raw value of a structured outcome.
type Report struct {
	Success bool
	Data    map[string]any
}

// MarshalJSON encodes the report as its data object with a "success" key
// holding the flag. A "success" entry in Data is overridden.
func (r Report) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Data)+1)
	maps.Copy(out, r.Data)
	out["success"] = r.Success
	return json.Marshal(out)
}
