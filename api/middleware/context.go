package middleware

import "context"

type contextKey string

const (
	ctxRequestID   contextKey = "request_id"
	ctxCartSession contextKey = "cart_session"
	ctxSessionNew  contextKey = "cart_session_new"
)

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRequestID).(string); ok {
		return v
	}
	return ""
}

// WithRequestID injects the request identifier into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRequestID, requestID)
}

// CartSessionFromContext returns the cart session resolved by CartSession.
func CartSessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxCartSession).(string); ok {
		return v
	}
	return ""
}

// WithCartSession injects the cart session into the context for downstream handlers.
func WithCartSession(ctx context.Context, session string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCartSession, session)
}

// CartSessionIsNew reports whether CartSession minted the session for this
// request, meaning no cart can exist for it yet.
func CartSessionIsNew(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	minted, _ := ctx.Value(ctxSessionNew).(bool)
	return minted
}

func withNewCartSession(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxSessionNew, true)
}
