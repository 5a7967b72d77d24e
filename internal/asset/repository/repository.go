package repository

import (
	"context"

	"vibe-finance/backend/internal/asset/domain"
)

// Repository defines persistence for assets.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Asset, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Asset, error)
	Create(ctx context.Context, a *domain.Asset) error
	Update(ctx context.Context, a *domain.Asset) error
	Deactivate(ctx context.Context, id string) error
}
