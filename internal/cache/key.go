package cache

import "github.com/google/uuid"

const (
	KEY_PRODUCT      = "product:"
	KEY_OTP          = "otp:"
	KEY_OTP_ATTEMPTS = "otp-attempts:"
	KEY_DENYLIST     = "denylist:"
)

// ProductKey is the redis key caching one product response.
func ProductKey(id uuid.UUID) string {
	return KEY_PRODUCT + id.String()
}

func OtpKey(email string) string {
	return KEY_OTP + email
}

func OtpAttemptsKey(email string) string {
	return KEY_OTP_ATTEMPTS + email
}

// DenylistKey marks a logged out token id until the token would have expired.
func DenylistKey(tokenId string) string {
	return KEY_DENYLIST + tokenId
}
