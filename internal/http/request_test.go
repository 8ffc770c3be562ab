package http

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	inErrors "github.com/Alturino/storefront/internal/errors"
)

func TestPagination(t *testing.T) {
	tests := []struct {
		name          string
		target        string
		expectedPage  int
		expectedLimit int
		expectedErr   error
	}{
		{name: "defaults", target: "/cart/odata", expectedPage: 1, expectedLimit: 10},
		{name: "explicit", target: "/cart/odata?page=3&limit=5", expectedPage: 3, expectedLimit: 5},
		{name: "zero page", target: "/cart/odata?page=0", expectedErr: inErrors.ErrInvalidPagination},
		{name: "garbage limit", target: "/cart/odata?limit=abc", expectedErr: inErrors.ErrInvalidPagination},
		{name: "limit at cap", target: "/cart/odata?limit=100", expectedPage: 1, expectedLimit: 100},
		{name: "limit above cap", target: "/cart/odata?limit=101", expectedErr: inErrors.ErrInvalidPagination},
		{name: "page beyond int", target: "/cart/odata?page=92233720368547758070", expectedErr: inErrors.ErrInvalidPagination},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", test.target, nil)
			page, limit, err := Pagination(r)
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.expectedPage, page)
			assert.Equal(t, test.expectedLimit, limit)
		})
	}
}

func TestBaseURL(t *testing.T) {
	r := httptest.NewRequest("GET", "http://shop.local:5000/products", nil)
	assert.Equal(t, "http://shop.local:5000", BaseURL(r))

	r.Header.Set("X-Forwarded-Proto", "HTTPS")
	assert.Equal(t, "https://shop.local:5000", BaseURL(r))
}
