package constants

const (
	HEADER_CONTENT_TYPE      = "Content-Type"
	HEADER_FORWARDED_PROTO   = "X-Forwarded-Proto"
	HEADER_REQUEST_ID        = "X-Request-Id"
	HEADER_VALUE_APPLICATION = "application/json"
)
