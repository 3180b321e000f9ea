// Package tracing configures the OpenTelemetry tracer provider used around
// analysis runs.
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/kilianp07/hangar/infra/logger"
)

// Config governs how tracing is initialised.
type Config struct {
	Enabled     bool    `json:"enabled"`
	ServiceName string  `json:"service_name"`
	Exporter    string  `json:"exporter"` // stdout | otlp
	Endpoint    string  `json:"endpoint"`
	SampleRatio float64 `json:"sample_ratio"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "hangar"
	}
	if c.Exporter == "" {
		c.Exporter = "stdout"
	}
	if c.SampleRatio == 0 {
		c.SampleRatio = 1
	}
}

// Validate checks the exporter and the sampling ratio.
func (c Config) Validate() error {
	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		return fmt.Errorf("tracing: sample_ratio must be within [0,1]")
	}
	switch strings.ToLower(c.Exporter) {
	case "", "stdout", "otlp", "otlpgrpc":
		return nil
	default:
		return fmt.Errorf("tracing: unsupported exporter %q", c.Exporter)
	}
}

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// Init wires a tracer provider, exporter, propagators and sampler based on
// cfg. When tracing is disabled a noop provider is installed.
func Init(ctx context.Context, cfg Config, log logger.Logger) (ShutdownFunc, error) {
	return InitWithWriter(ctx, cfg, os.Stderr, log)
}

// InitWithWriter is Init with the stdout exporter writing to w.
func InitWithWriter(ctx context.Context, cfg Config, w io.Writer, log logger.Logger) (ShutdownFunc, error) {
	if log == nil {
		log = logger.NopLogger{}
	}
	if !cfg.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		otel.SetTextMapPropagator(propagation.TraceContext{})
		log.Debugf("tracing disabled; using noop tracer provider")
		return func(context.Context) error { return nil }, nil
	}

	exp, err := exporterFromConfig(ctx, cfg, w)
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.namespace", "hangar"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	log.Infof("tracing enabled exporter=%s service=%s ratio=%.2f", cfg.Exporter, cfg.ServiceName, cfg.SampleRatio)
	return tp.Shutdown, nil
}

func exporterFromConfig(ctx context.Context, cfg Config, w io.Writer) (sdktrace.SpanExporter, error) {
	switch strings.ToLower(cfg.Exporter) {
	case "stdout", "":
		return stdouttrace.New(
			stdouttrace.WithWriter(w),
			stdouttrace.WithoutTimestamps(),
		)
	case "otlp", "otlpgrpc":
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = "localhost:4317"
		}
		client := otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
		return otlptrace.New(ctx, client)
	default:
		return nil, fmt.Errorf("unsupported tracing exporter: %s", cfg.Exporter)
	}
}

// ShutdownWithTimeout invokes shutdown with a bounded timeout and logs
// failures instead of returning them.
func ShutdownWithTimeout(ctx context.Context, shutdown ShutdownFunc, log logger.Logger) {
	if shutdown == nil {
		return
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Warnf("tracing shutdown failed: %v", err)
	}
}
