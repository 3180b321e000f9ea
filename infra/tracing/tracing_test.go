package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{}, nil)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
	_, span := otel.Tracer("test").Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
}

func TestInitStdout(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Enabled: true}
	cfg.SetDefaults()
	shutdown, err := InitWithWriter(context.Background(), cfg, &buf, nil)
	require.NoError(t, err)
	_, span := otel.Tracer("test").Start(context.Background(), "analyze")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
	ShutdownWithTimeout(context.Background(), shutdown, nil)
	assert.Contains(t, buf.String(), `"Name":"analyze"`)
	// restore the global provider for other tests
	_, _ = Init(context.Background(), Config{}, nil)
}

func TestValidate(t *testing.T) {
	assert.Error(t, Config{SampleRatio: 2}.Validate())
	assert.Error(t, Config{Exporter: "zipkin"}.Validate())
	assert.NoError(t, Config{Exporter: "otlp", SampleRatio: 0.5}.Validate())
}
