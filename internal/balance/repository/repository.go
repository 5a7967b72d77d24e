package repository

import (
	"context"

	"vibe-finance/backend/internal/balance/domain"
)

// Repository defines persistence for balance history.
type Repository interface {
	Create(ctx context.Context, b *domain.BalanceEntry) error
	ListByAsset(ctx context.Context, assetID string) ([]*domain.BalanceEntry, error)
}
