package catalog

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// CategoryRequest carries every mutable category field. Updates replace all
// of them.
type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=50"`
	Description *string `json:"description"`
}

// ProductRequest carries every mutable product field. Updates replace all of
// them; a nil InStock means true.
type ProductRequest struct {
	Name        string           `json:"name" validate:"required,max=100"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,max=200"`
	CategoryID  *int64           `json:"category_id" validate:"omitempty,gt=0"`
	InStock     *bool            `json:"in_stock"`
}

func (r ProductRequest) inStock() bool {
	return r.InStock == nil || *r.InStock
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

func validateRequest(code string, req any) error {
	if err := validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return Validation(code+".validation_failed", "Validation failed for the request", ve.Error())
		}
		return Validation(code+".validation_error", "An unexpected validation error occurred", nil)
	}
	return nil
}
