package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, has a bad
	// signature, or is expired. Every decode failure collapses to this one
	// error so callers cannot distinguish the reasons.
	ErrInvalidToken = errors.New("invalid token")

	// ErrEmptySecret is returned when a TokenProvider is constructed without a
	// signing secret.
	ErrEmptySecret = errors.New("signing secret must not be empty")
)

// TokenProvider issues and decodes compact signed tokens (JWT, HS256). The
// payload carries the caller's claims plus an injected absolute expiry.
type TokenProvider struct {
	secret     []byte
	defaultTTL time.Duration
}

// NewTokenProvider returns a TokenProvider that signs with the given HMAC
// secret. defaultTTL is used when Issue is called with a non-positive ttl.
func NewTokenProvider(secret string, defaultTTL time.Duration) (*TokenProvider, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if defaultTTL <= 0 {
		defaultTTL = 30 * time.Minute
	}
	return &TokenProvider{secret: []byte(secret), defaultTTL: defaultTTL}, nil
}

// Issue signs the given claims plus an injected "exp" (and "iat") and returns
// the token string and its expiry. The caller's claims map is not mutated.
// Timestamps are whole-second UTC.
func (p *TokenProvider) Issue(claims map[string]any, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = p.defaultTTL
	}
	now := time.Now().UTC().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	mc := make(jwt.MapClaims, len(claims)+2)
	for k, v := range claims {
		mc[k] = v
	}
	mc["iat"] = jwt.NewNumericDate(now)
	mc["exp"] = jwt.NewNumericDate(expiresAt)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Decode verifies the token's signature and expiry and returns its claims.
// Any failure — malformed structure, signature mismatch, wrong algorithm, or
// expired-by-claim — returns ErrInvalidToken. Decode never panics on
// attacker-controlled input.
func (p *TokenProvider) Decode(tokenString string) (map[string]any, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return map[string]any(claims), nil
}
