package telemetry

import (
	"context" // Exporter setup and shutdown

	"github.com/pkg/errors"                                           // Error wrapping
	"go.opentelemetry.io/otel"                                        // Global tracer provider
	"go.opentelemetry.io/otel/attribute"                              // Resource attributes
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc" // OTLP/gRPC exporter
	"go.opentelemetry.io/otel/sdk/resource"                           // Service resource
	sdktrace "go.opentelemetry.io/otel/sdk/trace"                     // Tracer provider
)

// ShutdownFunc flushes and stops the tracer provider
type ShutdownFunc func(context.Context) error

// InitTracing installs an OTLP/gRPC tracer provider when endpoint is set.
// With an empty endpoint the global no-op provider stays in place and the returned shutdown does nothing.
func InitTracing(ctx context.Context, endpoint, serviceName string) (ShutdownFunc, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint), // Collector address
		otlptracegrpc.WithInsecure(),         // Collector runs next to the app
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create trace exporter")
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(attribute.String("service.name", serviceName)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create resource")
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
