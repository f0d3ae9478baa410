package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS lets the browser dashboard call the API from its own origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader, "X-Sessions-Source"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
