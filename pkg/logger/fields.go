package logger

import (
	"fmt"
	"strconv"
	"time"
)

// CorrelationIDFieldKey is the entry key carrying the request correlation ID.
const CorrelationIDFieldKey = "correlation_id"

func StringField(key, value string) LogField {
	return LogField{Key: key, Value: value}
}

func IntField(key string, value int) LogField {
	return LogField{Key: key, Value: strconv.Itoa(value)}
}

func BoolField(key string, value bool) LogField {
	return LogField{Key: key, Value: strconv.FormatBool(value)}
}

func DurationField(key string, value time.Duration) LogField {
	return LogField{Key: key, Value: value.String()}
}

// ErrorField always uses the "error" key.
func ErrorField(err error) LogField {
	if err == nil {
		return LogField{Key: "error", Value: "<nil>"}
	}
	return LogField{Key: "error", Value: err.Error()}
}

// Field renders any value with fmt for the rarer types.
func Field[T any](key string, value T) LogField {
	switch v := any(value).(type) {
	case string:
		return StringField(key, v)
	case time.Time:
		return LogField{Key: key, Value: v.Format(time.RFC3339)}
	case fmt.Stringer:
		return LogField{Key: key, Value: v.String()}
	default:
		return LogField{Key: key, Value: fmt.Sprintf("%v", v)}
	}
}

func CorrelationIDField(id string) LogField { return StringField(CorrelationIDFieldKey, id) }

// Domain fields shared by the pipeline packages.

func ProviderField(name string) LogField { return StringField("provider", name) }

func ToolField(name string) LogField { return StringField("tool", name) }

func StageField(name string) LogField { return StringField("stage", name) }
