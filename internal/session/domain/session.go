package domain

import "time"

// Session is the durable record of one issued token. The raw token is never
// persisted; Fingerprint (a SHA-256 digest of the full token string) is the
// primary key. Multiple active sessions per user are allowed by design.
type Session struct {
	Fingerprint string
	UserID      int64
	DeviceInfo  string // free-text client context, e.g. "Chrome on Windows"; not security-critical
	CreatedAt   time.Time
	ExpiresAt   time.Time
	IsActive    bool // false after explicit revocation; rows are kept for audit
}
