package response

import (
	"time"

	"github.com/shopspring/decimal"

	categoryResponse "github.com/Alturino/storefront/category/pkg/response"
)

type Product struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	Description   string                     `json:"description"`
	Price         decimal.Decimal            `json:"price"`
	CategoryID    string                     `json:"categoryId"`
	Category      *categoryResponse.Category `json:"category"`
	Image         string                     `json:"image"`
	Units         int32                      `json:"units"`
	IsBestSelling bool                       `json:"isBestSelling"`
	CreatedAt     time.Time                  `json:"createdAt"`
	UpdatedAt     time.Time                  `json:"updatedAt"`
}
