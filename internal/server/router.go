// Package server собирает HTTP маршруты API и цепочку middleware.
package server

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/jobboard/internal/server/handlers"
	"github.com/iudanet/jobboard/internal/server/middleware"
)

// RouterConfig зависимости роутера
type RouterConfig struct {
	Logger *slog.Logger
	Jobs   *handlers.JobsHandler
	Auth   *handlers.AuthHandler
	Users  *handlers.UsersHandler
	Health *handlers.HealthHandler
	// Tokens проверяет access токены на маршрутах /api/users
	Tokens middleware.TokenVerifier
	// AuthLimiter ограничивает частоту запросов к /api/auth; nil отключает лимит
	AuthLimiter middleware.Limiter
	ClientURL   string
}

// NewRouter создает http.Handler со всеми маршрутами API
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	// Jobs (публичные)
	mux.HandleFunc("GET /api/jobs", cfg.Jobs.List)
	mux.HandleFunc("GET /api/jobs/count", cfg.Jobs.Count)
	mux.HandleFunc("GET /api/jobs/stats", cfg.Jobs.Stats)

	// Auth
	limited := func(h http.HandlerFunc) http.Handler {
		if cfg.AuthLimiter == nil {
			return h
		}
		return middleware.RateLimitMiddleware(cfg.AuthLimiter, cfg.Logger)(h)
	}
	mux.Handle("POST /api/auth/signup", limited(cfg.Auth.Signup))
	mux.Handle("POST /api/auth/login", limited(cfg.Auth.Login))
	mux.Handle("POST /api/auth/refresh-token", limited(cfg.Auth.RefreshToken))
	mux.Handle("POST /api/auth/logout", limited(cfg.Auth.Logout))
	mux.Handle("GET /api/auth/verify-email", limited(cfg.Auth.VerifyEmail))

	// Users (требуют access токен)
	protected := middleware.AuthMiddleware(cfg.Logger, cfg.Tokens)
	mux.Handle("GET /api/users/saved-jobs", protected(http.HandlerFunc(cfg.Users.SavedJobs)))
	mux.Handle("POST /api/users/save-job", protected(http.HandlerFunc(cfg.Users.SaveJob)))
	mux.Handle("DELETE /api/users/saved-jobs/{jobID}", protected(http.HandlerFunc(cfg.Users.RemoveSavedJob)))

	// Служебные
	mux.HandleFunc("GET /health", cfg.Health.Health)
	mux.HandleFunc("GET /{$}", cfg.Health.Root)
	mux.HandleFunc("/", cfg.Health.NotFound)

	// Цепочка: recovery -> logging -> cors -> mux
	var handler http.Handler = mux
	handler = middleware.CORSMiddleware(cfg.ClientURL)(handler)
	handler = middleware.LoggingWithSkip(cfg.Logger, []string{"/health"})(handler)
	handler = middleware.RecoveryMiddleware(cfg.Logger)(handler)

	return handler
}
