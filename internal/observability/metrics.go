package observability

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	MetricInputs  = "exprfmt.inputs"
	MetricErrors  = "exprfmt.errors"
	MetricChanged = "exprfmt.changed"
	MetricLatency = "exprfmt.latency_ms"
)

// MetricsRecorder records exprfmt metrics.
// Use NewMetricsRecorder for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordInput records one expression with its duration and error status.
	RecordInput(ctx context.Context, source string, duration time.Duration, err error)

	// RecordChange records an expression whose formatted text differs from
	// its input.
	RecordChange(ctx context.Context, source string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	inputs  metric.Int64Counter
	errors  metric.Int64Counter
	changed metric.Int64Counter
	latency metric.Float64Histogram
}

func newOtelMetrics(meter metric.Meter) (*otelMetrics, error) {
	inputs, err := meter.Int64Counter(MetricInputs,
		metric.WithDescription("Number of expressions read"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter(MetricErrors,
		metric.WithDescription("Number of expressions that failed to parse"),
	)
	if err != nil {
		return nil, err
	}

	changed, err := meter.Int64Counter(MetricChanged,
		metric.WithDescription("Number of expressions whose formatting changed"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram(MetricLatency,
		metric.WithDescription("Reformat latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		inputs:  inputs,
		errors:  errs,
		changed: changed,
		latency: latency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// A nil provider means the global one. If the instruments can't be created,
// the result is a no-op recorder.
func NewMetricsRecorder(mp metric.MeterProvider) MetricsRecorder {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	m, err := newOtelMetrics(mp.Meter("exprfmt"))
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordInput(ctx context.Context, source string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("source", source))
	m.inputs.Add(ctx, 1, attrs)
	m.latency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if err != nil {
		m.errors.Add(ctx, 1, attrs)
	}
}

func (m *otelMetrics) RecordChange(ctx context.Context, source string) {
	m.changed.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}
