package middleware

import (
	"net/http"

	"github.com/go-chi/httprate"

	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
)

func RateLimit(cfg config.RateLimit) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			inHttp.WriteJsonResponse(r.Context(), w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusTooManyRequests,
				"message":    "too many requests",
				"error":      "too many requests",
			})
		}),
	)
}
