package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"vibe-finance/backend/internal/asset/domain"
	"vibe-finance/backend/internal/security"
)

type PostgresRepository struct {
	db     *sql.DB
	cipher *security.FieldCipher
}

// NewPostgresRepository returns an asset repository that uses the given db for
// persistence. Details are encrypted with cipher before they reach the
// database and decrypted on read; the details column never holds plaintext.
func NewPostgresRepository(db *sql.DB, cipher *security.FieldCipher) *PostgresRepository {
	return &PostgresRepository{db: db, cipher: cipher}
}

const assetColumns = `id, user_id, name, institution_name, type, currency, purpose, interest_rate, is_active, details_enc, created_at, updated_at`

// GetByID returns the asset for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id)
	a, err := r.scanAsset(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

// ListByUser returns all assets for the given user, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Asset, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Asset
	for rows.Next() {
		a, err := r.scanAsset(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create persists the asset. The asset must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.Asset) error {
	detailsEnc, err := r.sealDetails(a.Details)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO assets (id, user_id, name, institution_name, type, currency, purpose, interest_rate, is_active, details_enc, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.UserID, a.Name, a.InstitutionName, string(a.Type), a.Currency,
		nullString(a.Purpose), nullString(a.InterestRate), a.IsActive,
		nullString(detailsEnc), a.CreatedAt, a.UpdatedAt,
	)
	return err
}

// Update rewrites the asset's mutable fields.
func (r *PostgresRepository) Update(ctx context.Context, a *domain.Asset) error {
	detailsEnc, err := r.sealDetails(a.Details)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE assets SET name = $2, institution_name = $3, type = $4, currency = $5,
		 purpose = $6, interest_rate = $7, is_active = $8, details_enc = $9, updated_at = $10
		 WHERE id = $1`,
		a.ID, a.Name, a.InstitutionName, string(a.Type), a.Currency,
		nullString(a.Purpose), nullString(a.InterestRate), a.IsActive,
		nullString(detailsEnc), a.UpdatedAt,
	)
	return err
}

// Deactivate marks the asset as inactive. Idempotent.
func (r *PostgresRepository) Deactivate(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE assets SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) scanAsset(scan func(...any) error) (*domain.Asset, error) {
	var a domain.Asset
	var assetType string
	var purpose, interestRate, detailsEnc sql.NullString
	err := scan(&a.ID, &a.UserID, &a.Name, &a.InstitutionName, &assetType, &a.Currency,
		&purpose, &interestRate, &a.IsActive, &detailsEnc, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Type = domain.AssetType(assetType)
	a.Purpose = purpose.String
	a.InterestRate = interestRate.String
	details, err := r.openDetails(detailsEnc.String)
	if err != nil {
		return nil, err
	}
	a.Details = details
	return &a, nil
}

func (r *PostgresRepository) sealDetails(details map[string]string) (string, error) {
	if len(details) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return "", fmt.Errorf("marshal details: %w", err)
	}
	return r.cipher.Encrypt(string(raw))
}

func (r *PostgresRepository) openDetails(envelope string) (map[string]string, error) {
	if envelope == "" {
		return nil, nil
	}
	raw, err := r.cipher.Decrypt(envelope)
	if err != nil {
		return nil, err
	}
	var details map[string]string
	if err := json.Unmarshal([]byte(raw), &details); err != nil {
		return nil, fmt.Errorf("unmarshal details: %w", err)
	}
	return details, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
