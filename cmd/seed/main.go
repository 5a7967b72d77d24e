// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev user (dev@example.com) already exists.
package main

import (
	"context"
	"log"

	assetdomain "vibe-finance/backend/internal/asset/domain"
	assetrepo "vibe-finance/backend/internal/asset/repository"
	assetservice "vibe-finance/backend/internal/asset/service"
	authservice "vibe-finance/backend/internal/auth/service"
	balancerepo "vibe-finance/backend/internal/balance/repository"
	"vibe-finance/backend/internal/config"
	"vibe-finance/backend/internal/db"
	"vibe-finance/backend/internal/security"
	sessionrepo "vibe-finance/backend/internal/session/repository"
	userrepo "vibe-finance/backend/internal/user/repository"
)

const (
	devUserEmail = "dev@example.com"
	devPassword  = "password123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	if cfg.Env == "production" {
		log.Fatal("seed must not run against a production environment")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	encryptionKey := cfg.EncryptionKey
	if encryptionKey == "" {
		encryptionKey, err = security.GenerateKey()
		if err != nil {
			log.Fatalf("generate encryption key: %v", err)
		}
		log.Println("WARNING: ENCRYPTION_KEY is not set; seeded details will be unreadable later")
	}
	cipher, err := security.NewFieldCipher(encryptionKey)
	if err != nil {
		log.Fatalf("encryption: %v", err)
	}
	tokens, err := security.NewTokenProvider(cfg.SecretKey, cfg.AccessTTL())
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)

	existing, err := users.GetByEmail(ctx, devUserEmail)
	if err != nil {
		log.Fatalf("check dev user: %v", err)
	}
	if existing != nil {
		log.Printf("dev user %s already exists; nothing to do", devUserEmail)
		return
	}

	auth := authservice.NewAuthService(
		users,
		sessionrepo.NewPostgresRepository(conn),
		security.NewHasher(cfg.BcryptCost),
		tokens,
		cfg.AccessTTL(),
		nil,
	)

	user, err := auth.Register(ctx, devUserEmail, devPassword, "Dev User")
	if err != nil {
		log.Fatalf("register dev user: %v", err)
	}

	assets := assetservice.NewService(
		assetrepo.NewPostgresRepository(conn, cipher),
		balancerepo.NewPostgresRepository(conn),
	)

	savings, err := assets.Create(ctx, user.ID, &assetdomain.Asset{
		Name:            "Main Savings",
		InstitutionName: "State Bank",
		Type:            assetdomain.AssetTypeSavings,
		InterestRate:    "3.50",
		Details:         map[string]string{"account_number": "000123456789"},
	})
	if err != nil {
		log.Fatalf("seed savings asset: %v", err)
	}
	if _, err := assets.AddBalance(ctx, user.ID, savings.ID, "125000.00", "initial import"); err != nil {
		log.Fatalf("seed balance: %v", err)
	}

	if _, err := assets.Create(ctx, user.ID, &assetdomain.Asset{
		Name:            "Retirement PPF",
		InstitutionName: "Post Office",
		Type:            assetdomain.AssetTypePPF,
		Purpose:         "Retirement",
		InterestRate:    "7.10",
	}); err != nil {
		log.Fatalf("seed ppf asset: %v", err)
	}

	log.Printf("seeded dev user %s (id %d) with sample assets", devUserEmail, user.ID)
}
