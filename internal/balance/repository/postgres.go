package repository

import (
	"context"
	"database/sql"

	"vibe-finance/backend/internal/balance/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a balance repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the balance entry. The entry must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, b *domain.BalanceEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO balance_history (id, asset_id, ts, amount, note)
		 VALUES ($1, $2, $3, $4, $5)`,
		b.ID, b.AssetID, b.Timestamp, b.Amount,
		sql.NullString{String: b.Note, Valid: b.Note != ""},
	)
	return err
}

// ListByAsset returns the balance history for the given asset, newest first.
func (r *PostgresRepository) ListByAsset(ctx context.Context, assetID string) ([]*domain.BalanceEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, asset_id, ts, amount, note
		 FROM balance_history WHERE asset_id = $1 ORDER BY ts DESC`, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.BalanceEntry
	for rows.Next() {
		var b domain.BalanceEntry
		var note sql.NullString
		if err := rows.Scan(&b.ID, &b.AssetID, &b.Timestamp, &b.Amount, &note); err != nil {
			return nil, err
		}
		b.Note = note.String
		out = append(out, &b)
	}
	return out, rows.Err()
}
