package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/jobboard/internal/server/auth"
	"github.com/iudanet/jobboard/internal/server/handlers"
)

// TokenVerifier проверяет токен заданного вида и возвращает user_id
type TokenVerifier interface {
	Verify(kind auth.Kind, token string) (string, error)
}

// AuthMiddleware создает middleware для проверки access токена.
// Нет заголовка → 401, неверный формат или токен → 403.
func AuthMiddleware(logger *slog.Logger, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header", "path", r.URL.Path)
				handlers.WriteError(w, logger, "Access token missing", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				logger.Warn("Invalid Authorization header format")
				handlers.WriteError(w, logger, "Invalid access token", http.StatusForbidden)
				return
			}

			userID, err := verifier.Verify(auth.KindAccess, parts[1])
			if err != nil {
				logger.Warn("Invalid access token", slog.Any("error", err))
				handlers.WriteError(w, logger, "Invalid access token", http.StatusForbidden)
				return
			}

			logger.Debug("User authenticated", "user_id", userID)

			next.ServeHTTP(w, r.WithContext(handlers.WithUserID(r.Context(), userID)))
		})
	}
}
