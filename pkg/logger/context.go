package logger

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// CorrelationIDHeader is echoed on every HTTP response.
const CorrelationIDHeader = "X-Correlation-ID"

type contextKey struct{}

// WithCorrelationIDContext stores id on ctx.
func WithCorrelationIDContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// GetCorrelationIDFromContext returns the stored ID or "".
func GetCorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// EnsureCorrelationID returns ctx unchanged when it already carries an ID,
// otherwise it attaches a fresh UUID.
func EnsureCorrelationID(ctx context.Context) (context.Context, string) {
	if id := GetCorrelationIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return WithCorrelationIDContext(ctx, id), id
}

// EnsureHTTPCorrelationID accepts a caller-supplied UUID header and replaces
// anything else with a generated one.
func EnsureHTTPCorrelationID(r *http.Request) (*http.Request, string) {
	id := r.Header.Get(CorrelationIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
		r.Header.Set(CorrelationIDHeader, id)
	}
	return r.WithContext(WithCorrelationIDContext(r.Context(), id)), id
}

// FromContext decorates base with the correlation ID carried by ctx.
func FromContext(ctx context.Context, base Logger) Logger {
	if id := GetCorrelationIDFromContext(ctx); id != "" {
		return base.WithCorrelationID(id)
	}
	return base
}
