// Package obscontext carries correlation identifiers through request contexts.
package obscontext

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	principalKey contextKey = "principal_id"
)

// WithRequestID stores the request id on the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request id or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithPrincipalID stores the authenticated user id on the context.
func WithPrincipalID(ctx context.Context, principalID string) context.Context {
	return context.WithValue(ctx, principalKey, principalID)
}

// PrincipalIDFromContext returns the authenticated user id or "".
func PrincipalIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(principalKey).(string); ok {
		return v
	}
	return ""
}
