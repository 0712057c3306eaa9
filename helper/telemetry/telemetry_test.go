package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

type rangeName struct{}

func (rangeName) String() string {
	return "[0, 10)"
}

func TestConvertTypeToAttribute(t *testing.T) {
	t.Parallel()

	assert.Equal(t, attribute.StringValue("a"), convertTypeToAttribute("a"))
	assert.Equal(t, attribute.IntValue(3), convertTypeToAttribute(3))
	assert.Equal(t, attribute.IntValue(3), convertTypeToAttribute(int32(3)))
	assert.Equal(t, attribute.Int64Value(-3), convertTypeToAttribute(int64(-3)))
	assert.Equal(t, attribute.BoolValue(true), convertTypeToAttribute(true))
	assert.Equal(t, attribute.Int64Value(1500), convertTypeToAttribute(1500*time.Millisecond))
	assert.Equal(t, attribute.StringValue("[0, 10)"), convertTypeToAttribute(rangeName{}))
	assert.Equal(t, attribute.StringValue("0a0b"), convertTypeToAttribute([]byte{0x0a, 0x0b}))
	assert.Equal(t, attribute.StringValue("[1 2]"), convertTypeToAttribute([]int{1, 2}))
}

func TestRecorderProvider(t *testing.T) {
	t.Parallel()

	provider, recorder := NewRecorderProvider("test")

	span := provider.NewTracer("engine").StartWithContext(context.Background(), "drain")
	span.SetAttributes(map[string]interface{}{"rows": 3, "clear": true})
	span.AddEvent("chunk", map[string]interface{}{"bytes": 42})
	span.SetStatus(Ok, "")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	ended := spans[0]
	assert.Equal(t, "drain", ended.Name())
	assert.Contains(t, ended.Attributes(), attribute.Int("rows", 3))
	assert.Contains(t, ended.Attributes(), attribute.Bool("clear", true))
	require.Len(t, ended.Events(), 1)
	assert.Equal(t, "chunk", ended.Events()[0].Name)

	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestNilTracerProvider(t *testing.T) {
	t.Parallel()

	type key struct{}

	ctx := context.WithValue(context.Background(), key{}, "v")
	provider := NewNilTracerProvider()

	span := provider.NewTracer("test").StartWithContext(ctx, "op")

	assert.NotPanics(t, func() {
		span.SetAttribute("rows", 1)
		span.SetAttributes(map[string]interface{}{"bytes": 2})
		span.AddEvent("chunk", nil)
		span.RecordError(errors.New("boom"))
		span.SetStatus(Error, "boom")
		span.End()
	})

	assert.Equal(t, "v", span.Context().Value(key{}))
	assert.NoError(t, provider.Shutdown(context.Background()))
}
