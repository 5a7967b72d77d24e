package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	authservice "vibe-finance/backend/internal/auth/service"
	"vibe-finance/backend/internal/server/middleware"
	userdomain "vibe-finance/backend/internal/user/domain"
)

// AuthService is the subset of the auth service used by the HTTP handlers.
type AuthService interface {
	Register(ctx context.Context, email, password, fullName string) (*userdomain.User, error)
	Login(ctx context.Context, email, password, deviceInfo string) (*authservice.AuthResult, error)
	Revoke(ctx context.Context, token string) error
}

// AuthHandler serves the authentication endpoints.
type AuthHandler struct {
	svc AuthService
}

// NewAuthHandler returns an AuthHandler backed by svc.
func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type userResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name,omitempty"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.svc.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userResponse{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		IsActive:    user.IsActive,
		IsSuperuser: user.IsSuperuser,
	})
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	DeviceInfo string `json:"device_info"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	deviceInfo := req.DeviceInfo
	if deviceInfo == "" {
		deviceInfo = r.UserAgent()
	}
	result, err := h.svc.Login(r.Context(), req.Email, req.Password, deviceInfo)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: result.Token,
		TokenType:   "bearer",
		ExpiresAt:   result.ExpiresAt,
	})
}

// Logout handles POST /api/auth/logout. It revokes the session of the
// presented Bearer token. Revocation is idempotent, so logout always
// succeeds for an authenticated caller.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if err := h.svc.Revoke(r.Context(), token); err != nil {
		writeError(w, http.StatusInternalServerError, "could not revoke session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "logged out"})
}

// Me handles GET /api/auth/me and returns the authenticated caller's identity.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	session, _ := middleware.GetSession(r.Context())
	resp := map[string]any{"user_id": userID}
	if session != nil {
		resp["device_info"] = session.DeviceInfo
		resp["expires_at"] = session.ExpiresAt
	}
	writeJSON(w, http.StatusOK, resp)
}

func bearerToken(r *http.Request) string {
	const prefix = "bearer "
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) <= len(prefix) || !strings.EqualFold(v[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(v[len(prefix):])
}
