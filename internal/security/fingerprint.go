package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Fingerprint returns a SHA-256 hash of the full token string, hex-encoded.
// Sessions are stored and looked up by this digest so the raw token is never
// persisted. A fast, non-adaptive hash is deliberate: the token already carries
// high entropy, so an adaptive hash here would only add latency.
func Fingerprint(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// FingerprintEqual performs constant-time comparison of the provided token's
// fingerprint with the stored fingerprint. Returns true only if they match.
func FingerprintEqual(providedToken, storedFingerprint string) bool {
	providedFingerprint := Fingerprint(providedToken)
	return subtle.ConstantTimeCompare([]byte(providedFingerprint), []byte(storedFingerprint)) == 1
}
