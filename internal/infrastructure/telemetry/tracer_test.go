package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap/zaptest"

	"github.com/loomworks/backend/internal/infrastructure/telemetry"
)

func TestNewTracerProvider_DisabledIsInert(t *testing.T) {
	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{Enabled: false}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.False(t, tp.IsEnabled())

	// spans still work, they just go nowhere
	_, span := tp.Tracer("inert").Start(ctx, "production.select_materials")
	span.End()

	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProvider_EnabledInstallsGlobals(t *testing.T) {
	ctx := context.Background()
	previousProvider := otel.GetTracerProvider()
	previousPropagator := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(previousProvider)
		otel.SetTextMapPropagator(previousPropagator)
	})

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           true,
		CollectorEndpoint: "localhost:4317",
		SamplingRatio:     1.0,
		ServiceName:       "loomworks-backend",
		Insecure:          true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, tp.IsEnabled())

	assert.NotEqual(t, previousProvider, otel.GetTracerProvider())

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")

	// with no spans recorded nothing needs a collector connection
	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProvider_SamplingRatioVariants(t *testing.T) {
	ctx := context.Background()
	previousProvider := otel.GetTracerProvider()
	previousPropagator := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(previousProvider)
		otel.SetTextMapPropagator(previousPropagator)
	})

	for _, ratio := range []float64{0.0, 0.25, 1.0} {
		tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
			Enabled:           true,
			CollectorEndpoint: "localhost:4317",
			SamplingRatio:     ratio,
			ServiceName:       "loomworks-backend",
			Insecure:          true,
		}, zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.NoError(t, tp.Shutdown(ctx))
	}
}
