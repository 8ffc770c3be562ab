package constants

const (
	APP_NAME             = "storefront"
	APP_CART_SERVICE     = "cart-service"
	APP_PRODUCT_SERVICE  = "product-service"
	APP_CATEGORY_SERVICE = "category-service"
)
