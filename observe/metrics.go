package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records probe invocation metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordInvocation records one probe invocation.
	RecordInvocation(ctx context.Context, meta ProbeMeta, duration time.Duration, success bool, err error)
}

type metricsImpl struct {
	totalCount   metric.Int64Counter
	failureCount metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates Metrics backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	return newMetrics(meter)
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"status.probe.total",
		metric.WithDescription("Total number of probe invocations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	failureCount, err := meter.Int64Counter(
		"status.probe.failures",
		metric.WithDescription("Probe invocations that reported success=false"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"status.probe.errors",
		metric.WithDescription("Probe invocations whose action failed"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"status.probe.duration_ms",
		metric.WithDescription("Probe invocation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		failureCount: failureCount,
		errorCount:   errorCount,
		durationHist: durationHist,
	}, nil
}

func (m *metricsImpl) RecordInvocation(ctx context.Context, meta ProbeMeta, duration time.Duration, success bool, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("probe.name", meta.Name),
	}
	if group := meta.Group(); group != "" {
		attrs = append(attrs, attribute.String("probe.group", group))
	}
	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)
	if !success {
		m.failureCount.Add(ctx, 1, opt)
	}
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

type noopMetrics struct{}

func (noopMetrics) RecordInvocation(context.Context, ProbeMeta, time.Duration, bool, error) {}
