package api

import (
	"net/http"
	"time"

	"account_api/internal/api/handler"
	"account_api/internal/api/middleware"
	"account_api/internal/app/service"
	"account_api/internal/common/security"
	"account_api/internal/domain/repository"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	accountService *service.AccountService,
	revocations repository.TokenRevocations,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Parses the "Authorization: Bearer T" header and puts claims in context.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		accountHandler := handler.NewAccountHandler(accountService)

		v1.Route("/auth", func(auth chi.Router) {
			// Public: registration and login
			auth.Group(func(public chi.Router) {
				accountHandler.RegisterPublicRoutes(public)
			})

			// Authenticated: logout, refresh, profile read/update
			auth.Group(func(protected chi.Router) {
				protected.Use(middleware.Authenticator(revocations))
				accountHandler.RegisterProtectedRoutes(protected)
			})
		})
	})

	return r
}
