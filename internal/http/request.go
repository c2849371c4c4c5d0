package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Alturino/bagstore/internal/common/validate"
	inErrors "github.com/Alturino/bagstore/internal/errors"
)

// RequestError is a malformed or invalid request body. Its messages are safe
// to show to the caller.
type RequestError struct {
	Messages []string
}

func (e *RequestError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// Decode reads a json body into T. An empty body decodes to the zero T.
func Decode[T any](r *http.Request) (T, error) {
	var body T
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return body, &RequestError{Messages: []string{fmt.Sprintf("malformed request body: %s", err.Error())}}
	}
	return body, nil
}

// DecodeJson decodes the request body into T and validates it.
func DecodeJson[T any](c context.Context, r *http.Request) (T, error) {
	body, err := Decode[T](r)
	if err != nil {
		return body, err
	}
	if err = Validate(c, body); err != nil {
		return body, err
	}
	return body, nil
}

func Validate(c context.Context, body interface{}) error {
	if err := validate.New().StructCtx(c, body); err != nil {
		return &RequestError{Messages: validate.Messages(err)}
	}
	return nil
}

var publicErrors = []error{
	inErrors.ErrEmptyAuth,
	inErrors.ErrEmptySubject,
	inErrors.ErrTokenInvalid,
	inErrors.ErrTokenRevoked,
	inErrors.ErrForbidden,
	inErrors.ErrNotFound,
	inErrors.ErrAlreadyExist,
	inErrors.ErrReferenced,
	inErrors.ErrOutOfStock,
	inErrors.ErrInvalidStatusTransition,
	inErrors.ErrEmptyCart,
	inErrors.ErrCouponInvalid,
	inErrors.ErrCouponExpired,
	inErrors.ErrCouponExhausted,
	inErrors.ErrCouponMinimumNotMet,
}

// WriteError writes the failure envelope for err. Only request errors and the
// shared sentinel errors reach the caller verbatim, anything else becomes the
// generic message.
func WriteError(c context.Context, w http.ResponseWriter, err error) {
	var requestErr *RequestError
	if errors.As(err, &requestErr) {
		WriteFailure(c, w, http.StatusBadRequest, requestErr)
		return
	}
	for _, public := range publicErrors {
		if errors.Is(err, public) {
			WriteFailure(c, w, StatusCode(err), public)
			return
		}
	}
	WriteFailure(c, w, StatusCode(err), nil)
}
