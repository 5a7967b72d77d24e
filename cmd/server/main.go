package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	assetrepo "vibe-finance/backend/internal/asset/repository"
	assetservice "vibe-finance/backend/internal/asset/service"
	"vibe-finance/backend/internal/audit"
	auditrepo "vibe-finance/backend/internal/audit/repository"
	authservice "vibe-finance/backend/internal/auth/service"
	balancerepo "vibe-finance/backend/internal/balance/repository"
	"vibe-finance/backend/internal/config"
	"vibe-finance/backend/internal/db"
	"vibe-finance/backend/internal/security"
	"vibe-finance/backend/internal/server"
	"vibe-finance/backend/internal/server/handlers"
	"vibe-finance/backend/internal/server/middleware"
	sessionrepo "vibe-finance/backend/internal/session/repository"
	"vibe-finance/backend/internal/telemetry/otel"
	userrepo "vibe-finance/backend/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	ctx := context.Background()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "vibe-finance-backend", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	encryptionKey := cfg.EncryptionKey
	if encryptionKey == "" {
		// Development-only convenience; config.Load rejects this in production.
		encryptionKey, err = security.GenerateKey()
		if err != nil {
			log.Fatalf("generate encryption key: %v", err)
		}
		log.Println("WARNING: ENCRYPTION_KEY is not set; using an ephemeral key — prior ciphertext will be unreadable")
	}
	cipher, err := security.NewFieldCipher(encryptionKey)
	if err != nil {
		log.Fatalf("encryption: %v", err)
	}

	tokens, err := security.NewTokenProvider(cfg.SecretKey, cfg.AccessTTL())
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}
	hasher := security.NewHasher(cfg.BcryptCost)

	users := userrepo.NewPostgresRepository(conn)
	sessions := sessionrepo.NewPostgresRepository(conn)
	assets := assetrepo.NewPostgresRepository(conn, cipher)
	balances := balancerepo.NewPostgresRepository(conn)
	auditLogger := audit.NewLogger(auditrepo.NewPostgresRepository(conn), middleware.ClientIP)

	auth := authservice.NewAuthService(users, sessions, hasher, tokens, cfg.AccessTTL(), auditLogger)
	assetSvc := assetservice.NewService(assets, balances)

	router := server.NewRouter(
		handlers.NewAuthHandler(auth),
		handlers.NewAssetHandler(assetSvc),
		auth,
		cfg.CORSOriginsList(),
	)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
