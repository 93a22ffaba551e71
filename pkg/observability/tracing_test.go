package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpanRecordsAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := NewSpan(context.Background(), "infer")
	span.SetAttribute("rows", uint64(8))
	span.SetAttribute("columns", []string{"a", "b"})
	span.SetAttribute("parallel", true)
	span.AddEvent("types_file_conflict", attribute.String("path", "in.csv.ctypes"))
	span.Finish(errors.New("boom"))

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "infer", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)

	attrs := map[string]bool{}
	for _, kv := range ended[0].Attributes() {
		attrs[string(kv.Key)] = true
	}
	for _, k := range []string{"rows", "columns", "parallel", "duration_ms"} {
		assert.True(t, attrs[k], k)
	}

	events := ended[0].Events()
	require.Len(t, events, 2) // the conflict and the recorded error
	assert.Equal(t, "types_file_conflict", events[0].Name)
	assert.Equal(t, "in.csv.ctypes", events[0].Attributes[0].Value.AsString())
}

func TestInitializeExportsToWriter(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Writer = &buf
	cfg.PrettyPrint = false
	require.NoError(t, Initialize(cfg))

	_, span := NewSpan(context.Background(), "scan")
	span.Finish(nil)

	require.NoError(t, Shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"Name":"scan"`)

	// second shutdown is a no-op
	assert.NoError(t, Shutdown(context.Background()))
}

func TestNoopWithoutInitialize(t *testing.T) {
	_, span := NewSpan(context.Background(), "noop")
	span.SetAttribute("k", struct{}{})
	span.End()
}
