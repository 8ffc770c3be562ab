package middleware

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/otel"
)

func RecoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			c, span := otel.Tracer.Start(r.Context(), "middleware RecoverPanic")
			defer span.End()

			err := fmt.Errorf("recovered from panic=%v", recovered)
			logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "middleware RecoverPanic").Logger()
			logger.Error().Err(err).Stack().Msg(err.Error())
			otel.RecordError(err, span)
			inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusInternalServerError,
				"message":    "Internal Server Error",
				"error":      "Internal Server Error",
			})
		}()

		next.ServeHTTP(w, r)
	})
}
