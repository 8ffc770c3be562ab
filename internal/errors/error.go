package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrInternal   = errors.New("internal error")
)

var (
	ErrProductNotFound   = fmt.Errorf("product %w", ErrNotFound)
	ErrProductsNotFound  = fmt.Errorf("no products found for given ids %w", ErrNotFound)
	ErrCategoryNotFound  = fmt.Errorf("category %w", ErrNotFound)
	ErrCartEmpty         = fmt.Errorf("cart is empty %w", ErrNotFound)
	ErrUnknownCategory   = fmt.Errorf("category not found %w", ErrBadRequest)
	ErrSessionRequired   = fmt.Errorf("session id is required %w", ErrBadRequest)
	ErrInvalidImageType  = fmt.Errorf("invalid image type %w", ErrBadRequest)
	ErrImageRequired     = fmt.Errorf("image is required %w", ErrBadRequest)
	ErrInvalidProductIds = fmt.Errorf("productIds must be an array %w", ErrBadRequest)
	ErrInvalidPagination = fmt.Errorf("page and limit must be positive integers %w", ErrBadRequest)
)

// StatusCode maps err onto the http status of its kind.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message strips the kind suffix so clients see "product not found" rather
// than the wrapped chain.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCartEmpty):
		return "Cart is empty"
	case errors.Is(err, ErrProductNotFound):
		return "product not found"
	case errors.Is(err, ErrProductsNotFound):
		return "no products found for given ids"
	case errors.Is(err, ErrCategoryNotFound):
		return "category not found"
	case errors.Is(err, ErrUnknownCategory):
		return "category not found"
	case errors.Is(err, ErrSessionRequired):
		return "session id is required"
	case errors.Is(err, ErrInvalidImageType):
		return "invalid image type"
	case errors.Is(err, ErrImageRequired):
		return "image is required"
	case errors.Is(err, ErrInvalidProductIds):
		return "productIds must be an array"
	case errors.Is(err, ErrInvalidPagination):
		return "page and limit must be positive integers"
	case errors.Is(err, ErrBadRequest):
		return "bad request"
	case errors.Is(err, ErrNotFound):
		return "not found"
	default:
		return "internal server error"
	}
}
