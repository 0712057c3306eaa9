package telemetry

import (
	"encoding/hex"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// convertTypeToAttribute maps the drain report values onto otel attributes,
// durations are exported in milliseconds
func convertTypeToAttribute(value interface{}) attribute.Value {
	switch v := value.(type) {
	case string:
		return attribute.StringValue(v)
	case bool:
		return attribute.BoolValue(v)
	case int:
		return attribute.IntValue(v)
	case int32:
		return attribute.IntValue(int(v))
	case int64:
		return attribute.Int64Value(v)
	case uint32:
		return attribute.Int64Value(int64(v))
	case uint64:
		return attribute.Int64Value(int64(v))
	case float64:
		return attribute.Float64Value(v)
	case []byte:
		return attribute.StringValue(hex.EncodeToString(v))
	case time.Duration:
		return attribute.Int64Value(v.Milliseconds())
	case fmt.Stringer:
		return attribute.StringValue(v.String())
	default:
		return attribute.StringValue(fmt.Sprintf("%v", v))
	}
}
