package supabase

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// rowValidator enforces the typed boundary right after each remote read:
// rows that do not conform to the domain shapes are rejected instead of
// trusted implicitly.
var rowValidator = newRowValidator()

func newRowValidator() *validator.Validate {
	v := validator.New()

	// Decimal amounts are validated through their float projection so the
	// standard numeric tags (gt, gte) apply.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

func validateRow(row any) error {
	return rowValidator.Struct(row)
}
