package errors

import (
	"errors"
)

var (
	ErrEmptyAuth               = errors.New("missing authorization")
	ErrEmptySubject            = errors.New("missing subject")
	ErrTokenInvalid            = errors.New("invalid token")
	ErrTokenRevoked            = errors.New("token has been revoked")
	ErrFailedHashToken         = errors.New("failed hashing token")
	ErrForbidden               = errors.New("forbidden")
	ErrNotFound                = errors.New("resource not found")
	ErrAlreadyExist            = errors.New("resource already exist")
	ErrReferenced              = errors.New("resource is still referenced")
	ErrOutOfStock              = errors.New("product is out of stock")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrCouponInvalid           = errors.New("coupon is invalid")
	ErrCouponExpired           = errors.New("coupon is expired")
	ErrCouponExhausted         = errors.New("coupon usage limit reached")
	ErrCouponMinimumNotMet     = errors.New("order total does not meet the coupon minimum")
)
