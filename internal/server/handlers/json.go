package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	assetservice "vibe-finance/backend/internal/asset/service"
	authservice "vibe-finance/backend/internal/auth/service"
)

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a FastAPI-style {"detail": ...} error body.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// readJSON decodes the request body into v. Unknown fields are rejected.
func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// mapServiceError translates service sentinel errors to HTTP responses. All
// token/session rejections collapse to one 401 body; asset ownership failures
// collapse to 404 so existence is not leaked across users.
func mapServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authservice.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Incorrect email or password")
	case errors.Is(err, authservice.ErrEmailAlreadyRegistered):
		writeError(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, authservice.ErrInvalidToken),
		errors.Is(err, authservice.ErrUnknownSession),
		errors.Is(err, authservice.ErrRevoked),
		errors.Is(err, authservice.ErrExpired):
		writeError(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, assetservice.ErrAssetNotFound),
		errors.Is(err, assetservice.ErrNotOwner):
		writeError(w, http.StatusNotFound, "Asset not found")
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
