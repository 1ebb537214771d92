package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitOTel_DisabledIsNoop(t *testing.T) {
	shutdown, err := InitOTel(context.Background(), nil, OtelConfig{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewTracerProvider_ExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()

	tp, err := NewTracerProvider(ctx, OtelConfig{
		ServiceName: "tenancy-test",
		Environment: "test",
		Output:      &buf,
	})
	require.NoError(t, err)

	_, span := tp.Tracer("vivienda/tenancy").Start(ctx, "LeaseManager.Open")
	span.End()

	require.NoError(t, tp.Shutdown(ctx))
	assert.Contains(t, buf.String(), "LeaseManager.Open")
	assert.Contains(t, buf.String(), "tenancy-test")
}

func TestSampleRatio_Clamped(t *testing.T) {
	assert.Equal(t, 1.0, sampleRatio(OtelConfig{}))
	assert.Equal(t, 1.0, sampleRatio(OtelConfig{SampleRatio: 3}))
	assert.Equal(t, 0.25, sampleRatio(OtelConfig{SampleRatio: 0.25}))
}
