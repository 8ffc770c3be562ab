package constants

const (
	KEY_APP_NAME       = "app"
	KEY_BODY           = "body"
	KEY_CACHE_KEY      = "cacheKey"
	KEY_CART_ITEM      = "cartItem"
	KEY_CART_ITEMS     = "cartItems"
	KEY_CATEGORIES     = "categories"
	KEY_CATEGORY       = "category"
	KEY_CATEGORY_ID    = "categoryId"
	KEY_CONFIG         = "config"
	KEY_COUNT          = "count"
	KEY_DB_DRIVER      = "dbDriver"
	KEY_DB_URL         = "dbUrl"
	KEY_HEADER         = "header"
	KEY_IMAGE          = "image"
	KEY_LIMIT          = "limit"
	KEY_PAGE           = "page"
	KEY_PATH_VALUES    = "pathValues"
	KEY_PROCESS        = "process"
	KEY_PRODUCT        = "product"
	KEY_PRODUCT_ID     = "productId"
	KEY_PRODUCT_IDS    = "productIds"
	KEY_PRODUCTS       = "products"
	KEY_QUANTITY       = "quantity"
	KEY_REQUEST        = "request"
	KEY_REQUEST_HOST   = "host"
	KEY_REQUEST_ID     = "requestId"
	KEY_REQUEST_IP     = "requesterIP"
	KEY_REQUEST_METHOD = "requestMethod"
	KEY_REQUEST_URI    = "requestURI"
	KEY_REQUEST_URL    = "requestURL"
	KEY_SESSION_ID     = "sessionId"
	KEY_SPAN_ID        = "spanId"
	KEY_STORAGE_DRIVER = "storageDriver"
	KEY_TAG            = "tag"
	KEY_TRACE_ID       = "traceId"
)
