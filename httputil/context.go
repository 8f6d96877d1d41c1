package httputil

import (
	"context"
)

type contextKey string

const ContextKeyRequestID contextKey = "request_id"

const HeaderRequestID = "X-Request-ID"

// WithRequestID stores the request id in the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestID returns the request id stored in the context, if any
func RequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(ContextKeyRequestID).(string)

	return requestID
}
