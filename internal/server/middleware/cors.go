package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORSMiddleware разрешает запросы фронтенда с clientURL вместе с cookies
func CORSMiddleware(clientURL string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{clientURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler
}
