package repository

import (
	"context"

	"vibe-finance/backend/internal/audit/domain"
)

// Repository defines persistence for audit logs.
type Repository interface {
	Create(ctx context.Context, e *domain.AuditLog) error
	ListRecent(ctx context.Context, limit int32) ([]*domain.AuditLog, error)
}
