package http

const (
	KEY_HEADER_CONTENT_TYPE       = "Content-Type"
	KEY_HEADER_AUTHORIZATION      = "Authorization"
	KEY_HEADER_REQUEST_ID         = "X-Request-Id"
	KEY_HEADER_CART_SESSION       = "X-Cart-Session"
	VALUE_HEADER_APPLICATION_JSON = "application/json"
)

// GENERIC_ERROR_MESSAGE is what callers see when a failure carries no message of its own.
const GENERIC_ERROR_MESSAGE = "something went wrong, please try again"
