package domain

import "context"

// contextKey is a type for context keys to avoid collisions
type contextKey string

const sessionKey contextKey = "shop_session"

// WithSession adds the resolved session to the context
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext extracts the resolved session from the context
func SessionFromContext(ctx context.Context) *Session {
	if session, ok := ctx.Value(sessionKey).(*Session); ok {
		return session
	}
	return nil
}
