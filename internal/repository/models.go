package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	CategoryID    string          `json:"categoryId"`
	Category      *Category       `json:"category"`
	Image         string          `json:"image"`
	Units         int32           `json:"units"`
	IsBestSelling bool            `json:"isBestSelling"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type CartItem struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CartItemWithProduct is a cart line joined with its product, Product is nil
// when the product no longer exists.
type CartItemWithProduct struct {
	CartItem
	Product *Product `json:"product"`
}

type InsertCategoryParams struct {
	Name        string
	Description string
}

type UpdateCategoryParams struct {
	ID          string
	Name        *string
	Description *string
}

type InsertProductParams struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	CategoryID    string
	Image         string
	Units         int32
	IsBestSelling bool
}

type UpdateProductParams struct {
	ID            string
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	CategoryID    *string
	Image         *string
	Units         *int32
	IsBestSelling *bool
}

type UpsertCartItemParams struct {
	SessionID string
	ProductID string
	Quantity  int
}

// FindCartItemsParams selects the live lines of a session ordered by
// addedAt, Limit 0 returns every line.
type FindCartItemsParams struct {
	SessionID string
	Offset    int64
	Limit     int64
}
