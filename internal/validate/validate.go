package validate

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterValidation("price", ValidatePrice)
	})
	return validate
}

// ValidatePrice accepts strings and decimals holding a positive amount.
func ValidatePrice(fl validator.FieldLevel) bool {
	switch value := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return value.IsPositive()
	case string:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return false
		}
		return d.IsPositive()
	default:
		return false
	}
}

func StructCtx(c context.Context, s interface{}) error {
	return get().StructCtx(c, s)
}
