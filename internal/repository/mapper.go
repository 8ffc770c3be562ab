package repository

import (
	cartResponse "github.com/Alturino/storefront/cart/pkg/response"
	categoryResponse "github.com/Alturino/storefront/category/pkg/response"
	productResponse "github.com/Alturino/storefront/product/pkg/response"
)

func (c Category) Response() categoryResponse.Category {
	return categoryResponse.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (p Product) Response() productResponse.Product {
	product := productResponse.Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		CategoryID:    p.CategoryID,
		Image:         p.Image,
		Units:         p.Units,
		IsBestSelling: p.IsBestSelling,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Category != nil {
		category := p.Category.Response()
		product.Category = &category
	}
	return product
}

func (c CartItem) Response() cartResponse.CartItem {
	return cartResponse.CartItem{
		ID:        c.ID,
		SessionID: c.SessionID,
		ProductID: c.ProductID,
		Quantity:  c.Quantity,
		AddedAt:   c.AddedAt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (c CartItemWithProduct) Response() cartResponse.CartItem {
	item := c.CartItem.Response()
	if c.Product != nil {
		product := c.Product.Response()
		item.Product = &product
	}
	return item
}

func Categories(categories []Category) []categoryResponse.Category {
	responses := make([]categoryResponse.Category, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, category.Response())
	}
	return responses
}

func Products(products []Product) []productResponse.Product {
	responses := make([]productResponse.Product, 0, len(products))
	for _, product := range products {
		responses = append(responses, product.Response())
	}
	return responses
}
