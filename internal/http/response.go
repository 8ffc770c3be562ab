package http

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/otel"
)

func WriteJsonResponse(
	c context.Context,
	w http.ResponseWriter,
	header map[string]string,
	body map[string]interface{},
) {
	c, span := otel.Tracer.Start(c, "http WriteJsonResponse")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "http WriteJsonResponse").Logger()

	w.Header().Set(constants.HEADER_CONTENT_TYPE, constants.HEADER_VALUE_APPLICATION)
	for k, v := range header {
		w.Header().Add(k, v)
	}

	if v, ok := body["statusCode"].(int); ok {
		w.WriteHeader(v)
	}

	if err := json.NewEncoder(w).EncodeContext(c, body); err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
}

// WriteErrorResponse writes the failed envelope, taking the status from the
// kind of err.
func WriteErrorResponse(c context.Context, w http.ResponseWriter, err error) {
	statusCode := inErrors.StatusCode(err)
	message := inErrors.Message(err)
	WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "failed",
		"statusCode": statusCode,
		"message":    message,
		"error":      message,
	})
}

// WriteBadRequestResponse echoes the decoding or validation failure back to
// the client.
func WriteBadRequestResponse(c context.Context, w http.ResponseWriter, err error) {
	WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "failed",
		"statusCode": http.StatusBadRequest,
		"message":    "invalid request",
		"error":      err.Error(),
	})
}
