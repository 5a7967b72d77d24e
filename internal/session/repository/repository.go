package repository

import (
	"context"
	"errors"
	"time"

	"vibe-finance/backend/internal/session/domain"
)

// ErrDuplicateFingerprint is returned by Create when a session with the same
// fingerprint already exists. A collision indicates either a fingerprinting
// defect or duplicate issuance; it is never silently merged.
var ErrDuplicateFingerprint = errors.New("session fingerprint already exists")

// Repository defines persistence for sessions, keyed by token fingerprint.
type Repository interface {
	Get(ctx context.Context, fingerprint string) (*domain.Session, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Session, error)
	Create(ctx context.Context, s *domain.Session) error
	// Revoke sets is_active = false. Revoking an already-revoked or unknown
	// fingerprint is not an error.
	Revoke(ctx context.Context, fingerprint string) error
	// DeleteExpired removes sessions that expired before the given time and
	// returns the number of rows deleted. Intended for an externally scheduled
	// retention job, never called on the request path.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
