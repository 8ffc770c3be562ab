package mongo

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Alturino/storefront/internal/repository"
)

const (
	COLLECTION_CARTS      = "carts"
	COLLECTION_PRODUCTS   = "products"
	COLLECTION_CATEGORIES = "categories"
)

type categoryDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d categoryDocument) model() repository.Category {
	return repository.Category{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type productDocument struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Name          string               `bson:"name"`
	Description   string               `bson:"description"`
	Price         primitive.Decimal128 `bson:"price"`
	Category      primitive.ObjectID   `bson:"category"`
	Image         string               `bson:"image"`
	Units         int32                `bson:"units"`
	IsBestSelling bool                 `bson:"isBestSelling"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`

	CategoryDetails []categoryDocument `bson:"categoryDetails,omitempty"`
}

func (d productDocument) model() repository.Product {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		price = decimal.Zero
	}
	product := repository.Product{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Description:   d.Description,
		Price:         price,
		CategoryID:    d.Category.Hex(),
		Image:         d.Image,
		Units:         d.Units,
		IsBestSelling: d.IsBestSelling,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if len(d.CategoryDetails) > 0 {
		category := d.CategoryDetails[0].model()
		product.Category = &category
	}
	return product
}

type cartItemDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	SessionID string             `bson:"sessionId"`
	ProductID primitive.ObjectID `bson:"productId"`
	Quantity  int                `bson:"quantity"`
	AddedAt   time.Time          `bson:"addedAt"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`

	ProductDetails *productDocument `bson:"productDetails,omitempty"`
}

func (d cartItemDocument) model() repository.CartItem {
	return repository.CartItem{
		ID:        d.ID.Hex(),
		SessionID: d.SessionID,
		ProductID: d.ProductID.Hex(),
		Quantity:  d.Quantity,
		AddedAt:   d.AddedAt,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (d cartItemDocument) withProduct() repository.CartItemWithProduct {
	item := repository.CartItemWithProduct{CartItem: d.model()}
	// the category lookup materialises an empty productDetails for orphans
	if d.ProductDetails != nil && !d.ProductDetails.ID.IsZero() {
		product := d.ProductDetails.model()
		item.Product = &product
	}
	return item
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

// objectID reports false for ids that are not 24 hex chars, which callers
// treat as not found.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}
