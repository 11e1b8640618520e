package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS reflects the request origin instead of listing domains so the
// storefront can call the API from any host while the session cookie still
// travels with credentialed requests.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return true
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
