package request

type AddCartItem struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity"  validate:"omitempty,gte=1,lte=10000"`
}

// QuantityOrDefault is 1 when the client sent no quantity.
func (a AddCartItem) QuantityOrDefault() int {
	if a.Quantity == nil {
		return 1
	}
	return *a.Quantity
}
