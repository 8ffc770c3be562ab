package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/Alturino/storefront/internal/config"
)

// Cors reflects any origin when none are configured so a cookie-carrying
// frontend on another host still works.
func Cors(cfg config.Cors) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           300,
	}
	if len(cfg.AllowedOrigins) == 0 {
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return true }
	} else {
		options.AllowedOrigins = cfg.AllowedOrigins
	}
	return cors.Handler(options)
}
