package middleware

import (
	"context"

	sessiondomain "vibe-finance/backend/internal/session/domain"
)

type contextKey struct{ name string }

var (
	userIDKey   = contextKey{"user_id"}
	claimsKey   = contextKey{"claims"}
	sessionKey  = contextKey{"session"}
	clientIPKey = contextKey{"client_ip"}
)

// WithIdentity returns a context carrying the authenticated user's id, token
// claims, and session record. Handlers read these via GetUserID, GetClaims,
// and GetSession.
func WithIdentity(ctx context.Context, userID int64, claims map[string]any, session *sessiondomain.Session) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, claimsKey, claims)
	ctx = context.WithValue(ctx, sessionKey, session)
	return ctx
}

// GetUserID returns the user id from context and true if set; otherwise 0, false.
func GetUserID(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(userIDKey).(int64)
	return v, ok
}

// GetClaims returns the decoded token claims from context and true if set.
func GetClaims(ctx context.Context) (map[string]any, bool) {
	v, ok := ctx.Value(claimsKey).(map[string]any)
	return v, ok
}

// GetSession returns the session record from context and true if set.
func GetSession(ctx context.Context) (*sessiondomain.Session, bool) {
	v, ok := ctx.Value(sessionKey).(*sessiondomain.Session)
	return v, ok
}

// WithClientIP returns a context carrying the client IP for audit logging.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIP returns the client IP from context, or "unknown" if not set.
func ClientIP(ctx context.Context) string {
	if v, ok := ctx.Value(clientIPKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
