package telemetry_test

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
	"go.trai.ch/tally/internal/adapters/telemetry"
	"go.trai.ch/tally/internal/core/ports"
)

func newRecordingTracer(t *testing.T) (*telemetry.OTelTracer, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return telemetry.NewOTelTracerFromProvider(tp, telemetry.InstrumentationName), sr
}

func attrMap(kvs []attribute.KeyValue) map[string]string {
	out := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		out[string(kv.Key)] = kv.Value.Emit()
	}
	return out
}

func TestOTelTracer_StartAppliesAttributes(t *testing.T) {
	tracer, sr := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), "pager.query",
		ports.WithAttribute("signature", "events:date:asc:*all:*none:"),
		ports.WithAttribute("page", 3),
	)
	span.SetAttribute("records", 10)
	span.SetAttribute("cached", true)
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "pager.query", ended[0].Name())
	assert.Equal(t, map[string]string{
		"signature": "events:date:asc:*all:*none:",
		"page":      "3",
		"records":   "10",
		"cached":    "true",
	}, attrMap(ended[0].Attributes()))
}

func TestOTelSpan_RecordErrorMarksFailure(t *testing.T) {
	tracer, sr := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), "pager.query")
	span.RecordError(errors.New("backend down"))
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "backend down", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "exception", ended[0].Events()[0].Name)
}

func TestOTelSpan_SetAttributeFallsBackToString(t *testing.T) {
	tracer, sr := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), "op")
	span.SetAttribute("ratio", 0.5)
	span.SetAttribute("tags", []string{"a", "b"})
	span.SetAttribute("pair", struct{ A int }{A: 1})
	span.End()

	attrs := attrMap(sr.Ended()[0].Attributes())
	assert.Equal(t, "0.5", attrs["ratio"])
	assert.Equal(t, `["a","b"]`, attrs["tags"])
	assert.Equal(t, "{1}", attrs["pair"])
}

func TestNoOpTracer(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	ctx := context.Background()

	got, span := tracer.Start(ctx, "op", ports.WithAttribute("k", "v"))
	assert.Equal(t, ctx, got)

	assert.NotPanics(t, func() {
		span.SetAttribute("k", 1)
		span.RecordError(errors.New("boom"))
		span.End()
	})
}
