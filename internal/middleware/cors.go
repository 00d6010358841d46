package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// UserIDHeader carries the acting user's ID on lifecycle calls that depend on
// who is asking.
const UserIDHeader = "X-User-ID"

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing slash).
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", UserIDHeader},
		ExposedHeaders: []string{"X-Request-Id"},
	})
	return c.Handler
}
