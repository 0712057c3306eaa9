package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	tracesdk "go.opentelemetry.io/otel/sdk/trace"
)

// sdkProvider serves tracers backed by an otel sdk provider
type sdkProvider struct {
	provider *tracesdk.TracerProvider
}

func (p *sdkProvider) NewTracer(namespace string) Tracer {
	return &sdkTracer{tracer: p.provider.Tracer(namespace)}
}

func (p *sdkProvider) Shutdown(ctx context.Context) error {
	return p.provider.Shutdown(ctx)
}

type sdkTracer struct {
	tracer trace.Tracer
}

func (t *sdkTracer) StartWithContext(ctx context.Context, name string) Span {
	spanCtx, span := t.tracer.Start(ctx, name)

	return &sdkSpan{span: span, ctx: spanCtx}
}

type sdkSpan struct {
	span trace.Span
	ctx  context.Context
}

func (s *sdkSpan) SetAttribute(key string, value interface{}) {
	s.span.SetAttributes(keyValue(key, value))
}

func (s *sdkSpan) SetAttributes(attributes map[string]interface{}) {
	s.span.SetAttributes(keyValues(attributes)...)
}

func (s *sdkSpan) AddEvent(name string, attributes map[string]interface{}) {
	s.span.AddEvent(name, trace.WithAttributes(keyValues(attributes)...))
}

func (s *sdkSpan) SetStatus(code Code, info string) {
	s.span.SetStatus(codes.Code(code), info)
}

func (s *sdkSpan) RecordError(err error) {
	s.span.RecordError(err)
}

func (s *sdkSpan) End() {
	s.span.End()
}

func (s *sdkSpan) Context() context.Context {
	return s.ctx
}

func keyValue(key string, value interface{}) attribute.KeyValue {
	return attribute.KeyValue{
		Key:   attribute.Key(key),
		Value: convertTypeToAttribute(value),
	}
}

func keyValues(attributes map[string]interface{}) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(attributes))
	for key, value := range attributes {
		kvs = append(kvs, keyValue(key, value))
	}

	return kvs
}
