package gateway

import (
	"errors"
	"fmt"
	"net/http"

	inHttp "github.com/Alturino/bagstore/internal/http"
)

var ErrUnsupported = errors.New("operation is not supported for this resource")

// APIError is every failure the gateway reports: transport errors, non 2xx
// statuses and envelopes carrying success=false.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func newAPIError(statusCode int, message string, err error) *APIError {
	if message == "" {
		message = inHttp.GENERIC_ERROR_MESSAGE
	}
	return &APIError{StatusCode: statusCode, Message: message, Err: err}
}

// Message returns the text a user should see for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return inHttp.GENERIC_ERROR_MESSAGE
}

// StatusCode returns the backend status carried by err, or fallback.
func StatusCode(err error, fallback int) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
		return apiErr.StatusCode
	}
	return fallback
}

func unexpectedStatus(statusCode int) error {
	return fmt.Errorf("unexpected status code=%d", statusCode)
}
