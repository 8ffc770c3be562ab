package repository

import (
	"context"
	"time"
)

// Clock lets stores evaluate the cart expiry window against a controllable
// time source.
type Clock func() time.Time

type CartStore interface {
	// UpsertCartItem increments the live line of (session, product) or
	// creates it with the given quantity in one atomic operation.
	UpsertCartItem(c context.Context, param UpsertCartItemParams) (CartItem, error)
	FindCartItems(c context.Context, param FindCartItemsParams) ([]CartItemWithProduct, error)
	CountCartItems(c context.Context, sessionID string) (int64, error)
	SumCartQuantity(c context.Context, sessionID string) (int64, error)
	DeleteCartItems(c context.Context, sessionID string) (int64, error)
}

type ProductStore interface {
	InsertProduct(c context.Context, param InsertProductParams) (Product, error)
	FindProducts(c context.Context) ([]Product, error)
	FindProductsPage(c context.Context, offset int64, limit int64) ([]Product, error)
	FindProductById(c context.Context, id string) (Product, error)
	FindProductsByIds(c context.Context, ids []string) ([]Product, error)
	FindProductsByCategoryId(c context.Context, categoryID string) ([]Product, error)
	CountProducts(c context.Context) (int64, error)
	UpdateProduct(c context.Context, param UpdateProductParams) (Product, error)
	DeleteProduct(c context.Context, id string) (Product, error)
	ProductExists(c context.Context, id string) (bool, error)
}

type CategoryStore interface {
	InsertCategory(c context.Context, param InsertCategoryParams) (Category, error)
	FindCategories(c context.Context) ([]Category, error)
	FindCategoryById(c context.Context, id string) (Category, error)
	CategoryExists(c context.Context, id string) (bool, error)
	UpdateCategory(c context.Context, param UpdateCategoryParams) (Category, error)
	DeleteCategory(c context.Context, id string) (Category, error)
}

// Store is a backend serving every collection.
type Store interface {
	CartStore
	ProductStore
	CategoryStore
}

// Cutoff is the oldest addedAt still considered live.
func Cutoff(now time.Time, ttl time.Duration) time.Time {
	return now.Add(-ttl)
}
