package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8000" {
		t.Errorf("HTTPAddr = %q, want :8000", cfg.HTTPAddr)
	}
	if cfg.JWTAlgorithm != "HS256" {
		t.Errorf("JWTAlgorithm = %q, want HS256", cfg.JWTAlgorithm)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if got := cfg.AccessTTL(); got != 30*time.Minute {
		t.Errorf("AccessTTL = %v, want 30m", got)
	}
}

func TestLoad_SecretKeyRequired(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	if _, err := Load(); err == nil {
		t.Error("Load succeeded without SECRET_KEY")
	}
}

func TestLoad_AlgorithmLocked(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("JWT_ALGORITHM", "RS256")

	if _, err := Load(); err == nil {
		t.Error("Load accepted a non-HS256 algorithm")
	}
}

func TestLoad_ProductionRequiresEncryptionKey(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("ENCRYPTION_KEY", "")

	if _, err := Load(); err == nil {
		t.Error("production Load succeeded without ENCRYPTION_KEY")
	}

	t.Setenv("ENCRYPTION_KEY", "b2s=")
	if _, err := Load(); err != nil {
		t.Errorf("production Load with ENCRYPTION_KEY: %v", err)
	}
}

func TestLoad_BcryptCostBounds(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	for _, bad := range []string{"3", "32", "-1"} {
		t.Setenv("BCRYPT_COST", bad)
		if _, err := Load(); err == nil {
			t.Errorf("Load accepted BCRYPT_COST=%s", bad)
		}
	}

	t.Setenv("BCRYPT_COST", "10")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want 10", cfg.BcryptCost)
	}
}

func TestAccessTTL(t *testing.T) {
	testCases := []struct {
		name string
		ttl  string
		want time.Duration
	}{
		{"valid", "45m", 45 * time.Minute},
		{"hours", "2h", 2 * time.Hour},
		{"empty falls back", "", 30 * time.Minute},
		{"garbage falls back", "soon", 30 * time.Minute},
		{"negative falls back", "-5m", 30 * time.Minute},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{AccessTokenTTL: tc.ttl}
			if got := cfg.AccessTTL(); got != tc.want {
				t.Errorf("AccessTTL(%q) = %v, want %v", tc.ttl, got, tc.want)
			}
		})
	}
}

func TestCORSOriginsList(t *testing.T) {
	cfg := &Config{CORSOrigins: "http://localhost:3000, https://app.example.com ,"}
	got := cfg.CORSOriginsList()
	want := []string{"http://localhost:3000", "https://app.example.com"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("origin[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := (&Config{}).CORSOriginsList(); got != nil {
		t.Errorf("empty CORS_ORIGINS = %v, want nil", got)
	}
}
