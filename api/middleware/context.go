package middleware

import "context"

type contextKey string

const (
	ctxSessionID   contextKey = "session_id"
	ctxAgeVerified contextKey = "age_verified"
)

func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

func AgeVerifiedFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(ctxAgeVerified).(bool); ok {
		return v
	}
	return false
}

// WithSessionID injects the session identifier into the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionID, sessionID)
}

// WithAgeVerified marks the request as age verified for downstream handlers.
func WithAgeVerified(ctx context.Context, verified bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAgeVerified, verified)
}
