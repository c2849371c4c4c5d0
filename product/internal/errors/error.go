package errors

import "errors"

var (
	ErrImageUnsupported = errors.New("image must be a jpeg, png, gif or webp file")
	ErrImageTooLarge    = errors.New("image is too large")
	ErrInvalidForm      = errors.New("invalid product form")
)
