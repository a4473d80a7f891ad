package observe

import (
	"context"
	"time"
)

// InvokeFunc is the signature of a single probe invocation as seen by the
// middleware: it reports whether the probe succeeded and the action error,
// if any.
type InvokeFunc func(ctx context.Context, meta ProbeMeta) (success bool, err error)

// Middleware wraps probe invocations with tracing, metrics and logging.
//
// Contract:
//   - Concurrency: Wrap returns a thread-safe InvokeFunc.
//   - Context: the span context is passed to the wrapped function.
//   - Errors: results of the wrapped function are returned unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware. Nil components are replaced by no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps an InvokeFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn InvokeFunc) InvokeFunc {
	return func(ctx context.Context, meta ProbeMeta) (bool, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		success, err := fn(ctx, meta)

		duration := time.Since(start)
		m.tracer.EndSpan(span, success, err)
		m.metrics.RecordInvocation(ctx, meta, duration, success, err)

		logger := m.logger.WithProbe(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000},
			{Key: "success", Value: success},
		}
		switch {
		case err != nil:
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			logger.Error(ctx, "probe failed", fields...)
		case !success:
			logger.Warn(ctx, "probe reported failure", fields...)
		default:
			logger.Debug(ctx, "probe completed", fields...)
		}

		return success, err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
