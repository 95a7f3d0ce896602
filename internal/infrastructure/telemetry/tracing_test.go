package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/loomworks/backend/internal/infrastructure/telemetry"
)

// recordedSpans swaps in an in-memory recorder for the global provider.
func recordedSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
	return recorder
}

func TestStartServiceSpan_UsesDottedNaming(t *testing.T) {
	recorder := recordedSpans(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "production", "select_materials")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "production.select_materials", ended[0].Name())
}

func TestStartSpan_CarriesStartAttributes(t *testing.T) {
	recorder := recordedSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "procurement.deliver",
		attribute.String("match_policy", "flexible"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Contains(t, ended[0].Attributes(), attribute.String("match_policy", "flexible"))
}

func TestSetAttributes_CoercesValueTypes(t *testing.T) {
	recorder := recordedSpans(t)
	id := uuid.New()

	_, span := telemetry.StartSpan(context.Background(), "sales.dispatch")
	telemetry.SetAttributes(span,
		"order_number", "SO-2026-001",
		"lines", 3,
		"total", 1540.50,
		"partial", false,
		"order_id", id,
	)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	attrs := ended[0].Attributes()
	assert.Contains(t, attrs, attribute.String("order_number", "SO-2026-001"))
	assert.Contains(t, attrs, attribute.Int("lines", 3))
	assert.Contains(t, attrs, attribute.Float64("total", 1540.50))
	assert.Contains(t, attrs, attribute.Bool("partial", false))
	assert.Contains(t, attrs, attribute.String("order_id", id.String()))
}

func TestSetAttributes_SkipsMalformedPairs(t *testing.T) {
	recorder := recordedSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "sales.dispatch")
	telemetry.SetAttributes(span, 42, "not-a-key", "dangling")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Empty(t, ended[0].Attributes())
}

func TestSetAttributes_NilSpanIsSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		telemetry.SetAttributes(nil, "key", "value")
	})
}

func TestRecordError_SetsErrorStatus(t *testing.T) {
	recorder := recordedSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "production.select_materials")
	telemetry.RecordError(span, errors.New("Resource was modified by another process"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "Resource was modified by another process", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "exception", ended[0].Events()[0].Name)
}

func TestRecordError_NilErrorLeavesSpanUnset(t *testing.T) {
	recorder := recordedSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "production.select_materials")
	telemetry.RecordError(span, nil)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
}

func TestGetTraceID(t *testing.T) {
	recordedSpans(t)

	assert.Empty(t, telemetry.GetTraceID(context.Background()))

	ctx, span := telemetry.StartSpan(context.Background(), "sales.dispatch")
	defer span.End()
	assert.Equal(t, span.SpanContext().TraceID().String(), telemetry.GetTraceID(ctx))
}
