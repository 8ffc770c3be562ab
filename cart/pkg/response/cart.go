package response

import (
	"time"

	productResponse "github.com/Alturino/storefront/product/pkg/response"
)

type CartItem struct {
	ID        string                   `json:"id"`
	SessionID string                   `json:"sessionId"`
	ProductID string                   `json:"productId"`
	Quantity  int                      `json:"quantity"`
	Product   *productResponse.Product `json:"product"`
	AddedAt   time.Time                `json:"addedAt"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

type AddedCartItem struct {
	CartItem  CartItem  `json:"cartItem"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Pagination struct {
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
}

type CartItemsPage struct {
	CartItems  []CartItem `json:"cartItems"`
	Pagination Pagination `json:"pagination"`
}
