package telemetry

import (
	"context" // Exporter setup and shutdown
	"time"    // Export interval

	"github.com/pkg/errors"                                             // Error wrapping
	"go.opentelemetry.io/otel"                                          // Global meter provider
	"go.opentelemetry.io/otel/attribute"                                // Resource attributes
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc" // OTLP/gRPC exporter
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"                     // Meter provider
	"go.opentelemetry.io/otel/sdk/resource"                             // Service resource
)

// MetricsInterval is how often metrics are pushed to the collector
const MetricsInterval = 15 * time.Second

// InitMetrics installs an OTLP/gRPC meter provider when endpoint is set.
// It shares the collector endpoint with tracing.
func InitMetrics(ctx context.Context, endpoint, serviceName string) (ShutdownFunc, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint), // Collector address
		otlpmetricgrpc.WithInsecure(),         // Collector runs next to the app
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create metric exporter")
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(attribute.String("service.name", serviceName)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create resource")
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(MetricsInterval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}
