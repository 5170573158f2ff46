package observe

import (
	"context"
	"time"
)

// InvokeFunc is the signature for tool invocation functions wrapped by
// the middleware. The bool reports whether the result was served from
// cache.
type InvokeFunc func(ctx context.Context) ([]byte, bool, error)

// Middleware wraps tool invocations with tracing, metrics, and logging.
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe InvokeFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from the wrapped function are recorded and
//     propagated unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps an InvokeFunc for the given tool.
func (m *Middleware) Wrap(meta ToolMeta, fn InvokeFunc) InvokeFunc {
	return func(ctx context.Context) ([]byte, bool, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		result, cacheHit, err := fn(ctx)

		duration := time.Since(start)
		m.tracer.EndSpan(span, err)
		m.metrics.RecordInvocation(ctx, meta, duration, cacheHit, err)

		toolLogger := m.logger.WithTool(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
			{Key: "cache_hit", Value: cacheHit},
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			toolLogger.Error(ctx, "tool invocation failed", fields...)
		} else {
			toolLogger.Info(ctx, "tool invocation completed", fields...)
		}

		return result, cacheHit, err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
