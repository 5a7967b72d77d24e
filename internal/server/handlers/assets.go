package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	assetdomain "vibe-finance/backend/internal/asset/domain"
	balancedomain "vibe-finance/backend/internal/balance/domain"
	"vibe-finance/backend/internal/server/middleware"
)

// AssetService is the subset of the asset service used by the HTTP handlers.
type AssetService interface {
	Create(ctx context.Context, userID int64, a *assetdomain.Asset) (*assetdomain.Asset, error)
	Get(ctx context.Context, userID int64, id string) (*assetdomain.Asset, error)
	List(ctx context.Context, userID int64) ([]*assetdomain.Asset, error)
	Update(ctx context.Context, userID int64, a *assetdomain.Asset) (*assetdomain.Asset, error)
	Deactivate(ctx context.Context, userID int64, id string) error
	AddBalance(ctx context.Context, userID int64, assetID, amount, note string) (*balancedomain.BalanceEntry, error)
	BalanceHistory(ctx context.Context, userID int64, assetID string) ([]*balancedomain.BalanceEntry, error)
}

// AssetHandler serves the asset and balance-history endpoints. All routes
// require an authenticated caller; reads and writes are scoped to that user.
type AssetHandler struct {
	svc AssetService
}

// NewAssetHandler returns an AssetHandler backed by svc.
func NewAssetHandler(svc AssetService) *AssetHandler {
	return &AssetHandler{svc: svc}
}

type assetRequest struct {
	Name            string            `json:"name"`
	InstitutionName string            `json:"institution_name"`
	Type            string            `json:"type"`
	Currency        string            `json:"currency"`
	Purpose         string            `json:"purpose"`
	InterestRate    string            `json:"interest_rate"`
	Details         map[string]string `json:"details"`
}

type assetResponse struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	InstitutionName string            `json:"institution_name"`
	Type            string            `json:"type"`
	Currency        string            `json:"currency"`
	Purpose         string            `json:"purpose,omitempty"`
	InterestRate    string            `json:"interest_rate,omitempty"`
	IsActive        bool              `json:"is_active"`
	Details         map[string]string `json:"details,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Create handles POST /api/assets.
func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	var req assetRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.svc.Create(r.Context(), userID, req.toDomain())
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssetResponse(created))
}

// List handles GET /api/assets.
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	assets, err := h.svc.List(r.Context(), userID)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	out := make([]assetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, toAssetResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /api/assets/{id}.
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	a, err := h.svc.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssetResponse(a))
}

// Update handles PUT /api/assets/{id}.
func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	var req assetRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	a := req.toDomain()
	a.ID = chi.URLParam(r, "id")
	updated, err := h.svc.Update(r.Context(), userID, a)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssetResponse(updated))
}

// Deactivate handles DELETE /api/assets/{id} (soft delete).
func (h *AssetHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if err := h.svc.Deactivate(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		mapServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type balanceRequest struct {
	Amount string `json:"amount"`
	Note   string `json:"note"`
}

type balanceResponse struct {
	ID        string    `json:"id"`
	AssetID   string    `json:"asset_id"`
	Timestamp time.Time `json:"timestamp"`
	Amount    string    `json:"amount"`
	Note      string    `json:"note,omitempty"`
}

// AddBalance handles POST /api/assets/{id}/balances.
func (h *AssetHandler) AddBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	var req balanceRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entry, err := h.svc.AddBalance(r.Context(), userID, chi.URLParam(r, "id"), req.Amount, req.Note)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBalanceResponse(entry))
}

// BalanceHistory handles GET /api/assets/{id}/balances.
func (h *AssetHandler) BalanceHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	entries, err := h.svc.BalanceHistory(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	out := make([]balanceResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toBalanceResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (req *assetRequest) toDomain() *assetdomain.Asset {
	return &assetdomain.Asset{
		Name:            req.Name,
		InstitutionName: req.InstitutionName,
		Type:            assetdomain.AssetType(req.Type),
		Currency:        req.Currency,
		Purpose:         req.Purpose,
		InterestRate:    req.InterestRate,
		Details:         req.Details,
	}
}

func toAssetResponse(a *assetdomain.Asset) assetResponse {
	return assetResponse{
		ID:              a.ID,
		Name:            a.Name,
		InstitutionName: a.InstitutionName,
		Type:            string(a.Type),
		Currency:        a.Currency,
		Purpose:         a.Purpose,
		InterestRate:    a.InterestRate,
		IsActive:        a.IsActive,
		Details:         a.Details,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func toBalanceResponse(b *balancedomain.BalanceEntry) balanceResponse {
	return balanceResponse{
		ID:        b.ID,
		AssetID:   b.AssetID,
		Timestamp: b.Timestamp,
		Amount:    b.Amount,
		Note:      b.Note,
	}
}
