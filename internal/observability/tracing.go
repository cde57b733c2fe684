package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanSource = "exprfmt.source"
	SpanInput  = "exprfmt.reformat"
)

// SpanManager handles trace span lifecycle.
// Use NewSpanManager for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartSourceSpan starts a span covering one input source.
	StartSourceSpan(ctx context.Context, source string) (context.Context, trace.Span)

	// StartInputSpan starts a span for one expression. It should be a child
	// of the source span.
	StartInputSpan(ctx context.Context, line int, text string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

type otelSpanManager struct {
	tracer trace.Tracer
}

// NewSpanManager returns a SpanManager that uses OpenTelemetry. A nil provider
// means the global one.
func NewSpanManager(tp trace.TracerProvider) SpanManager {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &otelSpanManager{tracer: tp.Tracer("exprfmt")}
}

func (m *otelSpanManager) StartSourceSpan(ctx context.Context, source string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, SpanSource,
		trace.WithAttributes(attribute.String("source", source)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) StartInputSpan(ctx context.Context, line int, text string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, SpanInput,
		trace.WithAttributes(
			attribute.Int("line", line),
			attribute.Int("input.length", len(text)),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
