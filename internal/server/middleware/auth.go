package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"

	sessiondomain "vibe-finance/backend/internal/session/domain"
)

const bearerPrefix = "bearer "

// TokenValidator answers whether a presented token is currently authorized.
// Implemented by the auth service.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (map[string]any, *sessiondomain.Session, error)
}

// RequireAuth returns middleware that validates the Bearer token from the
// Authorization header and sets the caller's identity in the request context.
// Every rejection reason — malformed token, unknown session, revoked, expired —
// produces the same 401 response so the reasons cannot be used as an oracle;
// the distinction is available internally for audit logging only.
func RequireAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				unauthorized(w)
				return
			}
			claims, session, err := validator.Validate(r.Context(), token)
			if err != nil {
				unauthorized(w)
				return
			}
			ctx := WithIdentity(r.Context(), session.UserID, claims, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIPMiddleware records the remote address in the request context for
// audit logging.
func ClientIPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
		next.ServeHTTP(w, r.WithContext(WithClientIP(r.Context(), ip)))
	})
}

// extractBearer returns the Bearer token from the request, or "" if missing or malformed.
func extractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Not authenticated"})
}
