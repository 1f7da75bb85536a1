package common

import "context"

type ctxKey int

const requestIDKey ctxKey = iota

// WithRequestID attaches a per-invocation correlation ID to ctx, so
// log lines emitted while handling one tool call (by the tool handler,
// use-case, and aggregator layers) can be tied back together. Provider
// adapters' own log lines do not carry it.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the correlation ID attached by WithRequestID, if any.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}
