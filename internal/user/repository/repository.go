package repository

import (
	"context"

	"vibe-finance/backend/internal/user/domain"
)

// Repository defines persistence for users.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (int64, error)
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
}
