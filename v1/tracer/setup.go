package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Tracer wraps an OpenTelemetry TracerProvider with the span helpers the
// client uses. It is safe for concurrent use.
type Tracer struct {
	provider *sdktrace.TracerProvider
	logger   Logger
}

// NewClient builds the tracer provider, installs it as the global provider
// and sets W3C trace-context and baggage propagation, which the controller
// transport uses to forward the active span.
//
// With cfg.EnableExport, spans are batched to an OTLP/HTTP collector.
//
// Example:
//
//	tr, err := tracer.NewClient(tracer.DefaultConfig().WithExport("localhost:4318", true), log)
//	if err != nil {
//	    return err
//	}
//	defer tr.Shutdown(context.Background())
func NewClient(cfg Config, logger Logger) (*Tracer, error) {
	if logger == nil {
		logger = nopLogger{}
	}

	var options []sdktrace.TracerProviderOption

	if cfg.EnableExport {
		var clientOpts []otlptracehttp.Option
		if cfg.Endpoint != "" {
			clientOpts = append(clientOpts, otlptracehttp.WithEndpoint(cfg.Endpoint))
		}
		if cfg.Insecure {
			clientOpts = append(clientOpts, otlptracehttp.WithInsecure())
		}

		exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient(clientOpts...))
		if err != nil {
			return nil, fmt.Errorf("[Tracer] cannot initiate exporter: %w", err)
		}
		options = append(options, sdktrace.WithBatcher(exporter))
		logger.Info("[Tracer] exporting spans", nil, map[string]interface{}{
			"endpoint": cfg.Endpoint,
		})
	}

	options = append(options, sdktrace.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.AppEnv),
		attribute.String("environment", cfg.AppEnv),
	)))

	tp := sdktrace.NewTracerProvider(options...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return &Tracer{provider: tp, logger: logger}, nil
}

// Shutdown flushes pending spans and stops the exporter.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	if err := t.provider.Shutdown(ctx); err != nil {
		t.logger.Warn("[Tracer] shutdown failed", err, nil)
		return err
	}
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, error, ...map[string]interface{}) {}
func (nopLogger) Warn(string, error, ...map[string]interface{}) {}
