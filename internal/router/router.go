// Package router sets up all HTTP routes and middleware chains for the
// CSX Hub API. Routes are organized into public read paths, auth
// endpoints with rate limiting, and session-protected member routes.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"csxhub/internal/handlers"
	"csxhub/internal/middleware"
	"csxhub/internal/session"
)

// Auth endpoints get a tighter budget than the rest of the API to slow
// down credential stuffing.
const (
	authRateLimit  = 20
	authRateWindow = 1 * time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, auth *handlers.Auth, blog *handlers.Blog, profile *handlers.Profile, media *handlers.Media) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check, no auth, no CSRF.
	r.Get("/health", healthHandler)

	authLimiter := middleware.NewRateLimiter(authRateLimit, authRateWindow)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CSRF)

		// Public feed: anonymous reads, cached.
		r.Get("/blogs", blog.List)

		// The literal route must be declared before the slug wildcard.
		r.With(middleware.RequireAuth).Get("/blogs/mine", blog.Mine)
		r.Get("/blogs/{slug}", blog.Get)

		// Auth endpoints, rate limited by client IP.
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)

			r.Post("/signup", auth.Signup)
			r.Post("/login", auth.Login)
			r.Post("/logout", auth.Logout)
			r.Get("/me", auth.Me)

			// Verify admits pending sessions; setup needs full auth so a
			// half-logged-in caller cannot rotate the secret.
			r.With(middleware.RequirePending).Post("/2fa/verify", auth.TwoFAVerify)
			r.With(middleware.RequireAuth).Post("/2fa/setup", auth.TwoFASetup)
		})

		// Member routes: session required, 2FA complete.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/blogs", blog.Create)
			r.Put("/blogs/{id}", blog.Update)
			r.Delete("/blogs/{id}", blog.Delete)
			r.Post("/blogs/{id}/upvote", blog.Upvote)

			r.Get("/profile", profile.Get)
			r.Put("/profile", profile.Save)

			r.Post("/media", media.Upload)
			r.Get("/media", media.List)
			r.Delete("/media/{id}", media.Delete)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
