package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest creates a tracer provider with an in-memory exporter.
func setupTracingTest(t *testing.T) (*sdktrace.TracerProvider, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	})
	return tp, exporter
}

func attrMap(kvs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestInputSpans(t *testing.T) {
	tp, exporter := setupTracingTest(t)
	sm := NewSpanManager(tp)

	ctx, source := sm.StartSourceSpan(context.Background(), "exprs.txt")
	_, ok := sm.StartInputSpan(ctx, 1, "a+b")
	sm.EndSpanWithError(ok, nil)
	ictx, bad := sm.StartInputSpan(ctx, 2, "a+")
	sm.AddSpanEvent(ictx, "parsed", attribute.Bool("incomplete", true))
	sm.EndSpanWithError(bad, errors.New("unexpected end of input"))
	sm.EndSpanWithError(source, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)

	first, second, parent := spans[0], spans[1], spans[2]
	assert.Equal(t, SpanInput, first.Name)
	assert.Equal(t, SpanSource, parent.Name)
	assert.Equal(t, "exprs.txt", attrMap(parent.Attributes)["source"].AsString())

	assert.Equal(t, parent.SpanContext.SpanID(), first.Parent.SpanID())
	assert.Equal(t, parent.SpanContext.SpanID(), second.Parent.SpanID())

	a := attrMap(first.Attributes)
	assert.Equal(t, int64(1), a["line"].AsInt64())
	assert.Equal(t, int64(3), a["input.length"].AsInt64())
	assert.Equal(t, codes.Ok, first.Status.Code)

	assert.Equal(t, codes.Error, second.Status.Code)
	assert.Equal(t, "unexpected end of input", second.Status.Description)
	var names []string
	for _, ev := range second.Events {
		names = append(names, ev.Name)
	}
	assert.Contains(t, names, "parsed")
	assert.Contains(t, names, "exception")
}

func TestEndSpanWithErrorNil(t *testing.T) {
	sm := NewSpanManager(nil)
	assert.NotPanics(t, func() {
		sm.EndSpanWithError(nil, errors.New("x"))
	})
}

func TestAddSpanEventNoSpan(t *testing.T) {
	tp, exporter := setupTracingTest(t)
	sm := NewSpanManager(tp)
	assert.NotPanics(t, func() {
		sm.AddSpanEvent(context.Background(), "orphan")
	})
	assert.Empty(t, exporter.GetSpans())
}
