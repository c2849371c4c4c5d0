package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/bagstore/internal/errors"
	"github.com/Alturino/bagstore/internal/otel"
)

func WriteJsonResponse(
	c context.Context,
	w http.ResponseWriter,
	header map[string]string,
	body map[string]interface{},
) {
	c, span := otel.Tracer.Start(c, "WriteJsonResponse")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str("tag", "WriteJsonResponse").Logger()

	w.Header().Set(KEY_HEADER_CONTENT_TYPE, VALUE_HEADER_APPLICATION_JSON)
	for k, v := range header {
		w.Header().Set(k, v)
	}

	statusCode := http.StatusOK
	if v, ok := body["statusCode"].(int); ok {
		statusCode = v
	}
	if _, ok := body["success"]; !ok {
		body["success"] = statusCode < http.StatusBadRequest
	}
	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
}

func WriteSuccess(
	c context.Context,
	w http.ResponseWriter,
	statusCode int,
	message string,
	data interface{},
) {
	body := map[string]interface{}{
		"success":    true,
		"statusCode": statusCode,
		"message":    message,
	}
	if data != nil {
		body["data"] = data
	}
	WriteJsonResponse(c, w, map[string]string{}, body)
}

func WriteFailure(c context.Context, w http.ResponseWriter, statusCode int, err error) {
	message := GENERIC_ERROR_MESSAGE
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"success":    false,
		"statusCode": statusCode,
		"message":    message,
	})
}

// StatusCode maps the shared sentinel errors onto http status codes.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, inErrors.ErrEmptyAuth),
		errors.Is(err, inErrors.ErrTokenInvalid),
		errors.Is(err, inErrors.ErrTokenRevoked),
		errors.Is(err, inErrors.ErrEmptySubject):
		return http.StatusUnauthorized
	case errors.Is(err, inErrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, inErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, inErrors.ErrAlreadyExist), errors.Is(err, inErrors.ErrReferenced):
		return http.StatusConflict
	case errors.Is(err, inErrors.ErrOutOfStock),
		errors.Is(err, inErrors.ErrInvalidStatusTransition),
		errors.Is(err, inErrors.ErrEmptyCart),
		errors.Is(err, inErrors.ErrCouponInvalid),
		errors.Is(err, inErrors.ErrCouponExpired),
		errors.Is(err, inErrors.ErrCouponExhausted),
		errors.Is(err, inErrors.ErrCouponMinimumNotMet):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
