package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	assetdomain "vibe-finance/backend/internal/asset/domain"
	balancedomain "vibe-finance/backend/internal/balance/domain"
)

// Sentinel errors for the asset service; the HTTP layer maps them to status codes.
var (
	ErrAssetNotFound = errors.New("asset not found")
	ErrNotOwner      = errors.New("asset belongs to another user")
)

// AssetRepo is the minimal asset repository needed by the service.
type AssetRepo interface {
	GetByID(ctx context.Context, id string) (*assetdomain.Asset, error)
	ListByUser(ctx context.Context, userID int64) ([]*assetdomain.Asset, error)
	Create(ctx context.Context, a *assetdomain.Asset) error
	Update(ctx context.Context, a *assetdomain.Asset) error
	Deactivate(ctx context.Context, id string) error
}

// BalanceRepo is the minimal balance repository needed by the service.
type BalanceRepo interface {
	Create(ctx context.Context, b *balancedomain.BalanceEntry) error
	ListByAsset(ctx context.Context, assetID string) ([]*balancedomain.BalanceEntry, error)
}

// Service implements asset and balance-history operations. Every read and
// write is scoped to the calling user; cross-user access returns ErrNotOwner.
type Service struct {
	assets   AssetRepo
	balances BalanceRepo
}

// NewService returns a Service with the given dependencies.
func NewService(assets AssetRepo, balances BalanceRepo) *Service {
	return &Service{assets: assets, balances: balances}
}

// Create validates and persists a new asset for userID.
func (s *Service) Create(ctx context.Context, userID int64, a *assetdomain.Asset) (*assetdomain.Asset, error) {
	now := time.Now().UTC()
	a.ID = uuid.New().String()
	a.UserID = userID
	a.Name = strings.TrimSpace(a.Name)
	a.InstitutionName = strings.TrimSpace(a.InstitutionName)
	if a.Currency == "" {
		a.Currency = "INR"
	}
	a.IsActive = true
	a.CreatedAt = now
	a.UpdatedAt = now
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := s.assets.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Get returns the asset with the given id if it belongs to userID.
func (s *Service) Get(ctx context.Context, userID int64, id string) (*assetdomain.Asset, error) {
	return s.owned(ctx, userID, id)
}

// List returns all assets owned by userID.
func (s *Service) List(ctx context.Context, userID int64) ([]*assetdomain.Asset, error) {
	return s.assets.ListByUser(ctx, userID)
}

// Update rewrites the mutable fields of an asset owned by userID.
func (s *Service) Update(ctx context.Context, userID int64, a *assetdomain.Asset) (*assetdomain.Asset, error) {
	existing, err := s.owned(ctx, userID, a.ID)
	if err != nil {
		return nil, err
	}
	a.UserID = existing.UserID
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now().UTC()
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := s.assets.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Deactivate soft-deletes an asset owned by userID.
func (s *Service) Deactivate(ctx context.Context, userID int64, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.assets.Deactivate(ctx, id)
}

// AddBalance appends one balance observation to an asset owned by userID.
func (s *Service) AddBalance(ctx context.Context, userID int64, assetID, amount, note string) (*balancedomain.BalanceEntry, error) {
	if _, err := s.owned(ctx, userID, assetID); err != nil {
		return nil, err
	}
	if _, err := strconv.ParseFloat(amount, 64); err != nil {
		return nil, errors.New("amount must be a decimal number")
	}
	entry := &balancedomain.BalanceEntry{
		ID:        uuid.New().String(),
		AssetID:   assetID,
		Timestamp: time.Now().UTC(),
		Amount:    amount,
		Note:      note,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if err := s.balances.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// BalanceHistory returns the balance history for an asset owned by userID.
func (s *Service) BalanceHistory(ctx context.Context, userID int64, assetID string) ([]*balancedomain.BalanceEntry, error) {
	if _, err := s.owned(ctx, userID, assetID); err != nil {
		return nil, err
	}
	return s.balances.ListByAsset(ctx, assetID)
}

func (s *Service) owned(ctx context.Context, userID int64, id string) (*assetdomain.Asset, error) {
	a, err := s.assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAssetNotFound
	}
	if a.UserID != userID {
		// Indistinguishable from a missing asset to the caller's user; the
		// distinct sentinel exists for internal logging only.
		return nil, ErrNotOwner
	}
	return a, nil
}
