package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Telemetry bundles the span manager and metrics recorder the command uses,
// along with the SDK providers behind them when enabled.
type Telemetry struct {
	Spans   SpanManager
	Metrics MetricsRecorder

	tp     *sdktrace.TracerProvider
	mp     *sdkmetric.MeterProvider
	reader *sdkmetric.ManualReader
}

// Disabled returns telemetry that records nothing.
func Disabled() *Telemetry {
	return &Telemetry{Spans: NoopSpanManager{}, Metrics: NoopMetrics{}}
}

// NewTelemetry creates SDK providers private to the command. Finished spans
// are written to logger at debug level, and metrics are held until Summary
// collects them.
func NewTelemetry(logger *slog.Logger) *Telemetry {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(&LogExporter{Logger: logger}))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return &Telemetry{
		Spans:   NewSpanManager(tp),
		Metrics: NewMetricsRecorder(mp),
		tp:      tp,
		mp:      mp,
		reader:  reader,
	}
}

// Summary is the total of each counter recorded so far.
type Summary struct {
	Inputs  int64
	Errors  int64
	Changed int64
}

// LogValue renders the summary as a group of slog attributes.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("inputs", s.Inputs),
		slog.Int64("errors", s.Errors),
		slog.Int64("changed", s.Changed),
	)
}

// Summary collects the counters. Disabled telemetry gives a zero Summary.
func (t *Telemetry) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	if t.reader == nil {
		return s, nil
	}
	var rm metricdata.ResourceMetrics
	if err := t.reader.Collect(ctx, &rm); err != nil {
		return s, err
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			switch m.Name {
			case MetricInputs:
				s.Inputs += total
			case MetricErrors:
				s.Errors += total
			case MetricChanged:
				s.Changed += total
			}
		}
	}
	return s, nil
}

// Shutdown flushes and stops the providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.tp != nil {
		errs = append(errs, t.tp.Shutdown(ctx))
	}
	if t.mp != nil {
		errs = append(errs, t.mp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// LogExporter is a span exporter that writes each finished span to a logger
// at debug level.
type LogExporter struct {
	Logger *slog.Logger
}

var _ sdktrace.SpanExporter = (*LogExporter)(nil)

// ExportSpans logs spans.
func (e *LogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	if e.Logger == nil {
		return nil
	}
	for _, s := range spans {
		attrs := []slog.Attr{
			slog.String("name", s.Name()),
			slog.String("trace_id", s.SpanContext().TraceID().String()),
			slog.Float64("duration_ms", float64(s.EndTime().Sub(s.StartTime()).Microseconds())/1000),
			slog.String("status", s.Status().Code.String()),
		}
		attrs = append(attrs, spanAttrs(s.Attributes())...)
		e.Logger.LogAttrs(ctx, slog.LevelDebug, "span", attrs...)
	}
	return nil
}

// Shutdown does nothing; the logger is owned by the caller.
func (e *LogExporter) Shutdown(context.Context) error {
	return nil
}

func spanAttrs(kvs []attribute.KeyValue) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(kvs))
	for _, kv := range kvs {
		attrs = append(attrs, slog.Any(string(kv.Key), kv.Value.AsInterface()))
	}
	return attrs
}
