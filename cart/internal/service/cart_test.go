package service

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/cart/pkg/request"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/repository/memory"
)

const cartTTL = 12 * time.Hour

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func setup(t *testing.T) (CartService, *memory.Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := memory.NewStore(cartTTL, clock.Now)
	return NewCartService(store, store, cartTTL), store, clock
}

func insertProduct(t *testing.T, store *memory.Store, name string) repository.Product {
	t.Helper()
	product, err := store.InsertProduct(context.Background(), repository.InsertProductParams{
		Name:  name,
		Price: decimal.NewFromInt(10),
		Units: 5,
	})
	require.NoError(t, err)
	return product
}

func quantity(q int) *int {
	return &q
}

func TestAddCartItem(t *testing.T) {
	tests := []struct {
		name             string
		adds             []int
		expectedQuantity int
	}{
		{name: "given single add should create item", adds: []int{2}, expectedQuantity: 2},
		{name: "given repeated adds should merge quantity", adds: []int{2, 3}, expectedQuantity: 5},
		{name: "given add without quantity should default to one", adds: []int{0}, expectedQuantity: 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := context.Background()
			svc, store, clock := setup(t)
			product := insertProduct(t, store, "shirt")

			first := ""
			for _, q := range test.adds {
				param := request.AddCartItem{ProductID: product.ID}
				if q > 0 {
					param.Quantity = quantity(q)
				}
				result, err := svc.AddCartItem(c, "s1", param)
				require.NoError(t, err)
				if first == "" {
					first = result.CartItem.ID
				}
				assert.Equal(t, first, result.CartItem.ID)
				assert.Equal(t, "s1", result.CartItem.SessionID)
				assert.Equal(t, product.ID, result.CartItem.ProductID)
				assert.Equal(t, clock.Now().Add(cartTTL), result.ExpiresAt)
			}

			total, err := svc.CountCartItems(c, "s1")
			require.NoError(t, err)
			assert.EqualValues(t, test.expectedQuantity, total)
		})
	}
}

func TestAddCartItemUnknownProduct(t *testing.T) {
	c := context.Background()
	svc, store, _ := setup(t)

	_, err := svc.AddCartItem(c, "s1", request.AddCartItem{ProductID: "missing", Quantity: quantity(1)})
	assert.ErrorIs(t, err, inErrors.ErrProductNotFound)

	count, err := store.CountCartItems(c, "s1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestExpiresAtKeepsFirstAdd(t *testing.T) {
	c := context.Background()
	svc, store, clock := setup(t)
	product := insertProduct(t, store, "shirt")

	first, err := svc.AddCartItem(c, "s1", request.AddCartItem{ProductID: product.ID, Quantity: quantity(1)})
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	second, err := svc.AddCartItem(c, "s1", request.AddCartItem{ProductID: product.ID, Quantity: quantity(1)})
	require.NoError(t, err)

	assert.Equal(t, first.ExpiresAt, second.ExpiresAt)
	assert.Equal(t, 2, second.CartItem.Quantity)
}

func TestListCartItems(t *testing.T) {
	c := context.Background()
	svc, store, clock := setup(t)
	shirt := insertProduct(t, store, "shirt")
	hat := insertProduct(t, store, "hat")

	items, err := svc.ListCartItems(c, "s1")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = svc.AddCartItem(c, "s1", request.AddCartItem{ProductID: shirt.ID, Quantity: quantity(2)})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = svc.AddCartItem(c, "s1", request.AddCartItem{ProductID: hat.ID, Quantity: quantity(3)})
	require.NoError(t, err)
	_, err = svc.AddCartItem(c, "s2", request.AddCartItem{ProductID: hat.ID, Quantity: quantity(1)})
	require.NoError(t, err)

	items, err = svc.ListCartItems(c, "s1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, shirt.ID, items[0].ProductID)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "shirt", items[0].Product.Name)
	assert.Equal(t, hat.ID, items[1].ProductID)

	total, err := svc.CountCartItems(c, "s1")
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)

	_, err = store.DeleteProduct(c, hat.ID)
	require.NoError(t, err)
	items, err = svc.ListCartItems(c, "s1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, shirt.ID, items[0].ProductID)

	clock.Advance(cartTTL)
	items, err = svc.ListCartItems(c, "s1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListCartItemsPage(t *testing.T) {
	c := context.Background()
	svc, store, clock := setup(t)
	products := make([]repository.Product, 0, 5)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		product := insertProduct(t, store, name)
		products = append(products, product)
		_, err := svc.AddCartItem(c, "s1", request.AddCartItem{ProductID: product.ID, Quantity: quantity(1)})
		require.NoError(t, err)
		clock.Advance(time.Second)
	}

	tests := []struct {
		name          string
		page          int
		limit         int
		expectedIds   []string
		expectedPages int64
		expectedErr   error
	}{
		{
			name:          "given first page should return first items",
			page:          1,
			limit:         2,
			expectedIds:   []string{products[0].ID, products[1].ID},
			expectedPages: 3,
		},
		{
			name:          "given last page should return remainder",
			page:          3,
			limit:         2,
			expectedIds:   []string{products[4].ID},
			expectedPages: 3,
		},
		{
			name:          "given page beyond total should return empty items",
			page:          4,
			limit:         2,
			expectedIds:   []string{},
			expectedPages: 3,
		},
		{
			name:        "given zero limit should return invalid pagination",
			page:        1,
			limit:       0,
			expectedErr: inErrors.ErrInvalidPagination,
		},
		{
			name:        "given page whose offset overflows should return invalid pagination",
			page:        math.MaxInt,
			limit:       10,
			expectedErr: inErrors.ErrInvalidPagination,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := svc.ListCartItemsPage(c, "s1", test.page, test.limit)
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)

			ids := make([]string, 0, len(result.CartItems))
			for _, item := range result.CartItems {
				ids = append(ids, item.ProductID)
			}
			assert.Equal(t, test.expectedIds, ids)
			assert.EqualValues(t, 5, result.Pagination.TotalItems)
			assert.Equal(t, test.expectedPages, result.Pagination.TotalPages)
			assert.Equal(t, test.page, result.Pagination.CurrentPage)
		})
	}
}

func TestClearCart(t *testing.T) {
	c := context.Background()
	svc, store, _ := setup(t)
	shirt := insertProduct(t, store, "shirt")
	hat := insertProduct(t, store, "hat")

	_, err := svc.AddCartItem(c, "s1", request.AddCartItem{ProductID: shirt.ID, Quantity: quantity(2)})
	require.NoError(t, err)
	_, err = svc.AddCartItem(c, "s1", request.AddCartItem{ProductID: hat.ID, Quantity: quantity(3)})
	require.NoError(t, err)

	deleted, err := svc.ClearCart(c, "s1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	deleted, err = svc.ClearCart(c, "s1")
	require.NoError(t, err)
	assert.Zero(t, deleted)

	items, err := svc.ListCartItems(c, "s1")
	require.NoError(t, err)
	assert.Empty(t, items)

	total, err := svc.CountCartItems(c, "s1")
	require.NoError(t, err)
	assert.Zero(t, total)
}
