package constants

const (
	APP_SHOP_SERVICE         = "shop-service"
	APP_CART_SERVICE         = "cart-service"
	APP_NOTIFICATION_SERVICE = "notification-service"
	APP_ADMIN_CONSOLE        = "admin-console"
	APP_MAIN_BAGSTORE        = "main bagstore"

	AUDIENCE_USER  = "audience-user"
	AUDIENCE_ADMIN = "audience-admin"
)
