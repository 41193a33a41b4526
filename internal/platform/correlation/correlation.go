// Package correlation carries a per-command trace id through context so that
// every log line produced while serving one driver command can be grouped.
package correlation

import (
	"context"

	"github.com/google/uuid"
)

// Key is the log attribute name used for correlation ids
const Key = "correlation_id"

type ctxKey struct{}

// NewContext returns a child context carrying a fresh correlation id
func NewContext(ctx context.Context) (context.Context, string) {
	id := uuid.New().String()
	return WithID(ctx, id), id
}

// WithID returns a child context carrying id
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext retrieves the correlation id, or "" if none is set
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}
