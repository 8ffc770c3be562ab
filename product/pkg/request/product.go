package request

import (
	"io"
)

type Image struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Product struct {
	Name          string `validate:"required"`
	Description   string
	Price         string `validate:"required,price"`
	CategoryID    string `validate:"required"`
	Units         int32  `validate:"gte=0"`
	IsBestSelling bool
	Image         *Image
}

type UpdateProduct struct {
	Name          *string `validate:"omitempty,min=1"`
	Description   *string
	Price         *string `validate:"omitempty,price"`
	CategoryID    *string `validate:"omitempty,min=1"`
	Units         *int32  `validate:"omitempty,gte=0"`
	IsBestSelling *bool
	Image         *Image
}

type ProductsByIds struct {
	ProductIds []string `json:"productIds"`
}
