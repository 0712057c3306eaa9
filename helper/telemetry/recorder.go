package telemetry

import (
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// NewRecorderProvider creates a provider keeping the spans in memory. The
// returned recorder lists the ended spans.
func NewRecorderProvider(service string) (TracerProvider, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithSpanProcessor(recorder),
		tracesdk.WithResource(serviceResource(service)),
		tracesdk.WithSampler(tracesdk.AlwaysSample()),
	)

	return &sdkProvider{provider: tp}, recorder
}
