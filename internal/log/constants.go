package log

const (
	KeyAppName          = "app"
	KeyRequestID        = "requestId"
	KeyTraceID          = "traceId"
	KeySpanID           = "spanId"
	KeyProcess          = "process"
	KeyToken            = "token"
	KeyAuthToken        = "authToken"
	KeyEmail            = "email"
	KeyTag              = "tag"
	KeyRequest          = "request"
	KeyRequestBody      = "requestBody"
	KeyRequestHeader    = "requestHeader"
	KeyRequestHost      = "host"
	KeyRequestIp        = "requesterIP"
	KeyRequestMethod    = "requestMethod"
	KeyRequestURI       = "requestURI"
	KeyRequestURL       = "requestURL"
	KeyResponseStatus   = "responseStatus"
	KeyConfig           = "config"
	KeyDbURL            = "dbUrl"
	KeyCacheKey         = "cacheKey"
	KeyJsonCache        = "jsonCache"
	KeySession          = "session"
	KeyCart             = "cart"
	KeyCartItem         = "cartItem"
	KeyCartItems        = "cartItems"
	KeyCoupon           = "coupon"
	KeyCouponCode       = "couponCode"
	KeyProduct          = "product"
	KeyProducts         = "products"
	KeyProductID        = "productId"
	KeyOrder            = "order"
	KeyOrders           = "orders"
	KeyOrderID          = "orderId"
	KeyOrderStatus      = "orderStatus"
	KeyQuery            = "query"
	KeyResource         = "resource"
	KeyResourceID       = "resourceId"
	KeyPathValues       = "pathValues"
	KeyShippingMethods  = "shippingMethods"
	KeyDestination      = "destination"
	KeyNotification     = "notification"
	KeyUserID           = "userId"
	KeyAdminID          = "adminId"
	KeyValidationErrors = "validationErrors"
	KeyTotals           = "totals"
	KeyUploadedFiles    = "uploadedFiles"
)
