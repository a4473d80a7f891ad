package observe

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// ProbeMeta identifies a status probe for telemetry purposes.
type ProbeMeta struct {
	Name string // hierarchical name, e.g. db.primary.latency
}

// SpanName returns the deterministic span name for this probe.
// Format: status.probe.<name>
func (m ProbeMeta) SpanName() string {
	return "status.probe." + m.Name
}

// Group returns the first segment of the probe name, or "" for a single
// segment name. Used as a low-cardinality metric attribute.
func (m ProbeMeta) Group() string {
	group, _, found := strings.Cut(m.Name, ".")
	if !found {
		return ""
	}
	return group
}

// Tracer wraps OpenTelemetry tracing with probe-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a probe invocation.
	StartSpan(ctx context.Context, meta ProbeMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording the outcome.
	EndSpan(span trace.Span, success bool, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta ProbeMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("probe.name", meta.Name),
	}
	if group := meta.Group(); group != "" {
		attrs = append(attrs, attribute.String("probe.group", group))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan marks the span as an error only when the action failed; a declared
// logical failure is recorded as the probe.success attribute.
func (t *tracerImpl) EndSpan(span trace.Span, success bool, err error) {
	span.SetAttributes(attribute.Bool("probe.success", success))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta ProbeMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ bool, _ error) {
	span.End()
}
