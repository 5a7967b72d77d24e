package repository

import (
	"context"
	"database/sql"
	"errors"

	"vibe-finance/backend/internal/user/domain"
)

const userColumns = `id, email, full_name, hashed_password, is_active, is_superuser, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail returns the user for email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// Create persists the user and returns the database-assigned id.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	fullName := sql.NullString{String: u.FullName, Valid: u.FullName != ""}
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, full_name, hashed_password, is_active, is_superuser, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		u.Email, fullName, u.HashedPassword, u.IsActive, u.IsSuperuser, u.CreatedAt, u.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdatePassword updates the password hash for the user with the given id.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET hashed_password = $2, updated_at = now() WHERE id = $1`,
		id, hashedPassword,
	)
	return err
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var fullName sql.NullString
	err := row.Scan(&u.ID, &u.Email, &fullName, &u.HashedPassword, &u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.FullName = fullName.String
	return &u, nil
}
