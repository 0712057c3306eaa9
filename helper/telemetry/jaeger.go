package telemetry

import (
	"os"

	"github.com/dogechain-lab/elasticdb/versioning"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"

	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// serviceResource describes the process exporting the spans
func serviceResource(service string) *resource.Resource {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(service),
		attribute.String("hostname", hostname),
		attribute.String("version", versioning.Version),
		attribute.String("commit", versioning.ShortCommit()),
		attribute.String("buildTime", versioning.BuildTime),
	)
}

// NewTracerProvider creates a provider batching every span to the jaeger
// collector at url, and registers it as the global otel provider
func NewTracerProvider(url string, service string) (TracerProvider, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(url)))
	if err != nil {
		return nil, err
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(serviceResource(service)),
		tracesdk.WithSampler(tracesdk.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)

	return &sdkProvider{provider: tp}, nil
}
