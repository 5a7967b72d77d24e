// Package server wires the HTTP routes and middleware for the API.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"vibe-finance/backend/internal/server/handlers"
	"vibe-finance/backend/internal/server/middleware"
)

// NewRouter builds the chi router. Login, register, and health are public;
// everything else requires a valid Bearer token.
func NewRouter(
	auth *handlers.AuthHandler,
	assets *handlers.AssetHandler,
	validator middleware.TokenValidator,
	corsOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.ClientIPMiddleware)
	r.Use(middleware.CORS(corsOrigins))

	r.Get("/api/health", handlers.Health)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", auth.Register)
		r.Post("/login", auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(validator))
			r.Post("/logout", auth.Logout)
			r.Get("/me", auth.Me)
		})
	})

	r.Route("/api/assets", func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator))
		r.Get("/", assets.List)
		r.Post("/", assets.Create)
		r.Get("/{id}", assets.Get)
		r.Put("/{id}", assets.Update)
		r.Delete("/{id}", assets.Deactivate)
		r.Get("/{id}/balances", assets.BalanceHistory)
		r.Post("/{id}/balances", assets.AddBalance)
	})

	return otelhttp.NewHandler(r, "http.server")
}
