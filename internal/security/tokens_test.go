package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenProvider_IssueAndDecode(t *testing.T) {
	p, err := NewTokenProvider("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenProvider: %v", err)
	}

	claims := map[string]any{"sub": "42", "role": "user"}
	token, expiresAt, err := p.Issue(claims, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("Issue returned an empty token")
	}

	wantExpiry := time.Now().UTC().Add(time.Hour)
	if expiresAt.Before(wantExpiry.Add(-5*time.Second)) || expiresAt.After(wantExpiry.Add(5*time.Second)) {
		t.Errorf("expiresAt = %v, want about %v", expiresAt, wantExpiry)
	}

	decoded, err := p.Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded["sub"] != "42" {
		t.Errorf("decoded sub = %v, want 42", decoded["sub"])
	}
	if decoded["role"] != "user" {
		t.Errorf("decoded role = %v, want user", decoded["role"])
	}
	if _, ok := decoded["exp"]; !ok {
		t.Error("decoded claims missing exp")
	}
	if _, ok := decoded["iat"]; !ok {
		t.Error("decoded claims missing iat")
	}
}

func TestTokenProvider_IssueDoesNotMutateCallerClaims(t *testing.T) {
	p, _ := NewTokenProvider("test-secret", time.Hour)
	claims := map[string]any{"sub": "7"}
	if _, _, err := p.Issue(claims, time.Minute); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(claims) != 1 {
		t.Errorf("caller's claims map was mutated: %v", claims)
	}
}

func TestTokenProvider_DecodeRejections(t *testing.T) {
	p, _ := NewTokenProvider("test-secret", time.Hour)
	other, _ := NewTokenProvider("other-secret", time.Hour)

	valid, _, err := p.Issue(map[string]any{"sub": "1"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	fromOtherKey, _, err := other.Issue(map[string]any{"sub": "1"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	// A non-positive ttl falls back to the default, so build an
	// already-expired token by hand.
	past := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": jwt.NewNumericDate(time.Now().UTC().Add(-time.Minute)),
	})
	expiredToken, err := past.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}

	// Token signed with alg=none must be rejected even though the signature
	// section is empty.
	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	// Flip a character in the payload to break the signature.
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1][:len(parts[1])-2] + "xx." + parts[2]

	testCases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"two segments", "aaaa.bbbb"},
		{"wrong key", fromOtherKey},
		{"expired", expiredToken},
		{"alg none", noneToken},
		{"tampered payload", tampered},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := p.Decode(tc.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Decode error = %v, want ErrInvalidToken", err)
			}
			if claims != nil {
				t.Errorf("Decode returned claims %v for a rejected token", claims)
			}
		})
	}
}

func TestTokenProvider_DefaultTTL(t *testing.T) {
	p, _ := NewTokenProvider("test-secret", 15*time.Minute)
	_, expiresAt, err := p.Issue(map[string]any{"sub": "1"}, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	want := time.Now().UTC().Add(15 * time.Minute)
	if expiresAt.Before(want.Add(-5*time.Second)) || expiresAt.After(want.Add(5*time.Second)) {
		t.Errorf("expiresAt = %v, want about %v", expiresAt, want)
	}
}

func TestNewTokenProvider_EmptySecret(t *testing.T) {
	if _, err := NewTokenProvider("", time.Hour); !errors.Is(err, ErrEmptySecret) {
		t.Errorf("NewTokenProvider(\"\") error = %v, want ErrEmptySecret", err)
	}
}
