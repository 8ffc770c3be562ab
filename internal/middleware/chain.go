package middleware

import (
	"github.com/gorilla/mux"

	"github.com/Alturino/storefront/internal/config"
)

// Chain is the order the server installs its middleware in. Metrics wraps
// RecoverPanic so recovered panics are counted as 500s.
func Chain(rateLimit config.RateLimit) []mux.MiddlewareFunc {
	return []mux.MiddlewareFunc{
		Logging,
		Metrics,
		RecoverPanic,
		RateLimit(rateLimit),
	}
}
