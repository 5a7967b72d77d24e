package domain

import "time"

// AuditLog is one recorded security-relevant event (register, login, logout,
// rejected validation). UserID is 0 when the actor could not be identified.
type AuditLog struct {
	ID        string
	UserID    int64
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
