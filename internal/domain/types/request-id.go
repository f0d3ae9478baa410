package types

import "context"

// Context key for request_id (unexported to avoid collisions)
type requestID struct{}

var requestIDKey = &requestID{}

// WithRequestIDContext stores the request id in ctx.
func WithRequestIDContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request id or an empty string.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
