package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records tool invocations and cache behavior.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordInvocation records a tool invocation with duration, whether
	// the result came from cache, and error status.
	RecordInvocation(ctx context.Context, meta ToolMeta, duration time.Duration, cacheHit bool, err error)

	// RecordEvictions adds to the cumulative cache eviction count.
	RecordEvictions(ctx context.Context, n int64)

	// RecordExpirations adds to the cumulative cache expiry count.
	RecordExpirations(ctx context.Context, n int64)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	cacheHits    metric.Int64Counter
	cacheMisses  metric.Int64Counter
	evictions    metric.Int64Counter
	expirations  metric.Int64Counter
}

// NewMetrics creates a Metrics instance with the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"docproc.exec.total",
		metric.WithDescription("Total number of tool invocations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"docproc.exec.errors",
		metric.WithDescription("Total number of failed tool invocations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"docproc.exec.duration_ms",
		metric.WithDescription("Tool invocation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter(
		"docproc.cache.hits",
		metric.WithDescription("Invocations served from the result cache"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	cacheMisses, err := meter.Int64Counter(
		"docproc.cache.misses",
		metric.WithDescription("Invocations that required a remote call"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	evictions, err := meter.Int64Counter(
		"docproc.cache.evictions",
		metric.WithDescription("Cache entries removed by LRU eviction"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	expirations, err := meter.Int64Counter(
		"docproc.cache.expirations",
		metric.WithDescription("Cache entries removed by TTL expiry"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		cacheHits:    cacheHits,
		cacheMisses:  cacheMisses,
		evictions:    evictions,
		expirations:  expirations,
	}, nil
}

// RecordInvocation records metrics for a tool invocation.
func (m *metricsImpl) RecordInvocation(ctx context.Context, meta ToolMeta, duration time.Duration, cacheHit bool, err error) {
	opt := metric.WithAttributes(
		attribute.String("tool.name", meta.Name),
	)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	} else if cacheHit {
		m.cacheHits.Add(ctx, 1, opt)
	} else {
		m.cacheMisses.Add(ctx, 1, opt)
	}

	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordEvictions adds to the eviction counter.
func (m *metricsImpl) RecordEvictions(ctx context.Context, n int64) {
	if n > 0 {
		m.evictions.Add(ctx, n)
	}
}

// RecordExpirations adds to the expiry counter.
func (m *metricsImpl) RecordExpirations(ctx context.Context, n int64) {
	if n > 0 {
		m.expirations.Add(ctx, n)
	}
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordInvocation(ctx context.Context, meta ToolMeta, duration time.Duration, cacheHit bool, err error) {
}
func (m *noopMetrics) RecordEvictions(ctx context.Context, n int64)   {}
func (m *noopMetrics) RecordExpirations(ctx context.Context, n int64) {}

// NopMetrics returns a Metrics that discards everything.
func NopMetrics() Metrics {
	return &noopMetrics{}
}
