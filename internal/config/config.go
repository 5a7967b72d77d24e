// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// SecretKey is the HMAC secret used to sign access tokens. Required; the
	// process refuses to start without it.
	SecretKey string `mapstructure:"SECRET_KEY"`
	// JWTAlgorithm is the token signing algorithm. Only HS256 is supported.
	JWTAlgorithm string `mapstructure:"JWT_ALGORITHM"`
	// AccessTokenTTL is the access token lifetime (e.g. "30m").
	AccessTokenTTL string `mapstructure:"ACCESS_TOKEN_TTL"`
	// EncryptionKey is the base64-encoded 32-byte key for field-level encryption.
	// Required when Env is production; in other environments an ephemeral key is
	// generated at startup, which makes prior ciphertext unreadable after restart.
	EncryptionKey string `mapstructure:"ENCRYPTION_KEY"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// Env is the application environment (e.g. "development", "production").
	// Production refuses to start without SECRET_KEY and ENCRYPTION_KEY.
	Env string `mapstructure:"APP_ENV"`
	// CORSOrigins is a comma-separated list of allowed CORS origins.
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
	// OTLPEndpoint is the OTLP gRPC endpoint for trace export (empty disables tracing).
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8000")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SECRET_KEY", "")
	v.SetDefault("JWT_ALGORITHM", "HS256")
	v.SetDefault("ACCESS_TOKEN_TTL", "30m")
	v.SetDefault("ENCRYPTION_KEY", "")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("CORS_ORIGINS", "")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	if cfg.SecretKey == "" {
		return nil, errors.New("config: SECRET_KEY must be set")
	}

	if cfg.JWTAlgorithm != "HS256" {
		return nil, errors.New("config: JWT_ALGORITHM must be HS256")
	}

	// Fail closed: a production process must never fall back to a generated
	// encryption key, since a regenerated key makes prior ciphertext unrecoverable.
	if cfg.Env == "production" && cfg.EncryptionKey == "" {
		return nil, errors.New("config: ENCRYPTION_KEY must be set when APP_ENV=production")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// AccessTTL parses AccessTokenTTL as a time.Duration. Returns 30m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.AccessTokenTTL)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}

// CORSOriginsList returns allowed CORS origins from the comma-separated config.
func (c *Config) CORSOriginsList() []string {
	if c == nil || c.CORSOrigins == "" {
		return nil
	}
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
