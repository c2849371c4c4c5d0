package errors

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrOtpInvalid          = errors.New("otp is invalid or expired")
	ErrOtpAttemptsExceeded = errors.New("too many otp attempts, request a new code")
)
