package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
)

type Code codes.Code

const (
	// Unset is the default status code
	Unset Code = Code(codes.Unset)

	// Error indicates the operation contains an error
	Error Code = Code(codes.Error)

	// Ok indicates the operation completed
	Ok Code = Code(codes.Ok)
)

// Span is a traced operation
type Span interface {
	// SetAttribute sets an attribute (base type)
	SetAttribute(label string, value interface{})

	// SetAttributes sets attributes
	SetAttributes(attributes map[string]interface{})

	// AddEvent adds an event
	AddEvent(name string, attributes map[string]interface{})

	// SetStatus sets the status
	SetStatus(code Code, info string)

	// RecordError records err as an exception span event. It does not
	// change the span status.
	RecordError(err error)

	// End ends the span
	End()

	// Context returns the context carrying the span
	Context() context.Context
}

// Tracer starts spans
type Tracer interface {
	// StartWithContext starts a new span, child of the span carried by ctx
	// if any
	StartWithContext(ctx context.Context, name string) Span
}

type TracerProvider interface {
	// NewTracer creates a new tracer
	NewTracer(namespace string) Tracer

	// Shutdown flushes the pending spans and stops the provider
	Shutdown(context.Context) error
}
