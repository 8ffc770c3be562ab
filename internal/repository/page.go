package repository

import (
	"math"

	inErrors "github.com/Alturino/storefront/internal/errors"
)

// PageOffset is the number of rows preceding page, rejecting pages whose
// offset does not fit an int64.
func PageOffset(page int, limit int) (int64, error) {
	if page < 1 || limit < 1 {
		return 0, inErrors.ErrInvalidPagination
	}
	if int64(page-1) > math.MaxInt64/int64(limit) {
		return 0, inErrors.ErrInvalidPagination
	}
	return int64(page-1) * int64(limit), nil
}
