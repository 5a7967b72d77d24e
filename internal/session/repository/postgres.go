package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"vibe-finance/backend/internal/session/domain"
)

// pgUniqueViolation is the Postgres error code for unique constraint violations.
const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the session for fingerprint, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) Get(ctx context.Context, fingerprint string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT fingerprint, user_id, device_info, created_at, expires_at, is_active
		 FROM user_sessions WHERE fingerprint = $1`, fingerprint)
	var s domain.Session
	var deviceInfo sql.NullString
	err := row.Scan(&s.Fingerprint, &s.UserID, &deviceInfo, &s.CreatedAt, &s.ExpiresAt, &s.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.DeviceInfo = deviceInfo.String
	return &s, nil
}

// ListByUser returns all sessions for the given user, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT fingerprint, user_id, device_info, created_at, expires_at, is_active
		 FROM user_sessions WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Session
	for rows.Next() {
		var s domain.Session
		var deviceInfo sql.NullString
		if err := rows.Scan(&s.Fingerprint, &s.UserID, &deviceInfo, &s.CreatedAt, &s.ExpiresAt, &s.IsActive); err != nil {
			return nil, err
		}
		s.DeviceInfo = deviceInfo.String
		out = append(out, &s)
	}
	return out, rows.Err()
}

// Create persists the session. Returns ErrDuplicateFingerprint if a session
// with the same fingerprint already exists; the existing row is left untouched.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_sessions (fingerprint, user_id, device_info, created_at, expires_at, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		s.Fingerprint, s.UserID,
		sql.NullString{String: s.DeviceInfo, Valid: s.DeviceInfo != ""},
		s.CreatedAt, s.ExpiresAt, s.IsActive,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateFingerprint
	}
	return err
}

// Revoke marks the session with the given fingerprint as inactive. Idempotent:
// revoking an already-revoked or unknown fingerprint returns nil.
func (r *PostgresRepository) Revoke(ctx context.Context, fingerprint string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE user_sessions SET is_active = FALSE WHERE fingerprint = $1`, fingerprint)
	return err
}

// DeleteExpired removes sessions whose expiry is before the given time.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM user_sessions WHERE expires_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
