package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	assetdomain "vibe-finance/backend/internal/asset/domain"
	assetservice "vibe-finance/backend/internal/asset/service"
	authservice "vibe-finance/backend/internal/auth/service"
	balancedomain "vibe-finance/backend/internal/balance/domain"
	"vibe-finance/backend/internal/security"
	"vibe-finance/backend/internal/server/handlers"
	sessiondomain "vibe-finance/backend/internal/session/domain"
	userdomain "vibe-finance/backend/internal/user/domain"
)

// In-memory repositories so the full HTTP stack can run without Postgres.

type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*userdomain.User
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) Create(_ context.Context, u *userdomain.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cp := *u
	cp.ID = r.nextID
	r.users[u.Email] = &cp
	return r.nextID, nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*sessiondomain.Session
}

func (r *memSessionRepo) Get(_ context.Context, fingerprint string) (*sessiondomain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[fingerprint]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *memSessionRepo) Create(_ context.Context, s *sessiondomain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.Fingerprint] = &cp
	return nil
}

func (r *memSessionRepo) Revoke(_ context.Context, fingerprint string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[fingerprint]; ok {
		s.IsActive = false
	}
	return nil
}

type memAssetRepo struct {
	mu     sync.Mutex
	assets map[string]*assetdomain.Asset
}

func (r *memAssetRepo) GetByID(_ context.Context, id string) (*assetdomain.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.assets[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *memAssetRepo) ListByUser(_ context.Context, userID int64) ([]*assetdomain.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*assetdomain.Asset
	for _, a := range r.assets {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memAssetRepo) Create(_ context.Context, a *assetdomain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.assets[a.ID] = &cp
	return nil
}

func (r *memAssetRepo) Update(_ context.Context, a *assetdomain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.assets[a.ID] = &cp
	return nil
}

func (r *memAssetRepo) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.assets[id]; ok {
		a.IsActive = false
	}
	return nil
}

type memBalanceRepo struct {
	mu      sync.Mutex
	entries []*balancedomain.BalanceEntry
}

func (r *memBalanceRepo) Create(_ context.Context, b *balancedomain.BalanceEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *memBalanceRepo) ListByAsset(_ context.Context, assetID string) ([]*balancedomain.BalanceEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*balancedomain.BalanceEntry
	for _, e := range r.entries {
		if e.AssetID == assetID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	tokens, err := security.NewTokenProvider("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenProvider: %v", err)
	}
	auth := authservice.NewAuthService(
		&memUserRepo{users: make(map[string]*userdomain.User)},
		&memSessionRepo{sessions: make(map[string]*sessiondomain.Session)},
		security.NewHasher(4),
		tokens,
		time.Hour,
		nil,
	)
	assets := assetservice.NewService(
		&memAssetRepo{assets: make(map[string]*assetdomain.Asset)},
		&memBalanceRepo{},
	)
	router := NewRouter(
		handlers.NewAuthHandler(auth),
		handlers.NewAssetHandler(assets),
		auth,
		nil,
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", body["status"])
	}
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)

	// Register.
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]string{
		"email":     "user@example.com",
		"password":  "password123",
		"full_name": "Test User",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", resp.StatusCode)
	}

	// Duplicate registration conflicts.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]string{
		"email":    "user@example.com",
		"password": "password456",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", resp.StatusCode)
	}

	// Login.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email":    "user@example.com",
		"password": "password123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decodeBody(t, resp, &tok)
	if tok.AccessToken == "" || tok.TokenType != "bearer" {
		t.Fatalf("token response = %+v", tok)
	}

	// Wrong password and unknown email get the same response.
	for _, creds := range []map[string]string{
		{"email": "user@example.com", "password": "wrong"},
		{"email": "nobody@example.com", "password": "password123"},
	} {
		resp = doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", creds)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("bad login status = %d, want 401", resp.StatusCode)
		}
	}

	// Authenticated endpoint.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/auth/me", tok.AccessToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me status = %d, want 200", resp.StatusCode)
	}

	// Logout revokes the session; the token stops working immediately.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/auth/logout", tok.AccessToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status = %d, want 200", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/auth/me", tok.AccessToken, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("me after logout status = %d, want 401", resp.StatusCode)
	}
}

func TestAssetEndpoints(t *testing.T) {
	srv := newTestServer(t)

	register := func(email string) string {
		t.Helper()
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]string{
			"email": email, "password": "password123",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("register status = %d", resp.StatusCode)
		}
		resp = doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
			"email": email, "password": "password123",
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("login status = %d", resp.StatusCode)
		}
		var tok struct {
			AccessToken string `json:"access_token"`
		}
		decodeBody(t, resp, &tok)
		return tok.AccessToken
	}

	alice := register("alice@example.com")
	bob := register("bob@example.com")

	// Unauthenticated access is rejected.
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/assets/", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list status = %d, want 401", resp.StatusCode)
	}

	// Create an asset.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/assets/", alice, map[string]any{
		"name":             "Main Savings",
		"institution_name": "State Bank",
		"type":             "SAVINGS",
		"interest_rate":    "3.50",
		"details":          map[string]string{"account_number": "000123456789"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create asset status = %d, want 201", resp.StatusCode)
	}
	var created struct {
		ID       string `json:"id"`
		Currency string `json:"currency"`
	}
	decodeBody(t, resp, &created)
	if created.ID == "" {
		t.Fatal("created asset has no id")
	}
	if created.Currency != "INR" {
		t.Errorf("currency = %q, want INR", created.Currency)
	}

	// Record and read back a balance.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/assets/"+created.ID+"/balances", alice, map[string]string{
		"amount": "125000.00",
		"note":   "initial import",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add balance status = %d, want 201", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/assets/"+created.ID+"/balances", alice, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("balance history status = %d, want 200", resp.StatusCode)
	}
	var history []struct {
		Amount string `json:"amount"`
	}
	decodeBody(t, resp, &history)
	if len(history) != 1 || history[0].Amount != "125000.00" {
		t.Errorf("history = %+v", history)
	}

	// Another user cannot see or touch the asset; it reads as missing.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/assets/"+created.ID, bob, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("cross-user get status = %d, want 404", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/assets/"+created.ID, bob, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("cross-user delete status = %d, want 404", resp.StatusCode)
	}

	// Soft delete by the owner.
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/assets/"+created.ID, alice, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}
}
