package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
)

const (
	DEFAULT_PAGE  = 1
	DEFAULT_LIMIT = 10
	MAX_LIMIT     = 100
)

// Pagination reads the page and limit query values, falling back to the
// defaults when absent. limit is capped at MAX_LIMIT.
func Pagination(r *http.Request) (page int, limit int, err error) {
	page, limit = DEFAULT_PAGE, DEFAULT_LIMIT
	query := r.URL.Query()
	if v := query.Get("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 1 {
			return 0, 0, inErrors.ErrInvalidPagination
		}
	}
	if v := query.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 || limit > MAX_LIMIT {
			return 0, 0, inErrors.ErrInvalidPagination
		}
	}
	return page, limit, nil
}

// BaseURL is the scheme and host the client used to reach the server.
func BaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get(constants.HEADER_FORWARDED_PROTO); proto != "" {
		scheme = strings.ToLower(proto)
	}
	return scheme + "://" + r.Host
}
