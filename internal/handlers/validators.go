package handlers

import (
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerValidatorsOnce sync.Once

// registerValidators teaches gin's validator about decimal amounts:
// decimalgt0 (strictly positive) and decimalgte0 (non-negative).
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("decimalgt0", decimalSign(func(d decimal.Decimal) bool { return d.IsPositive() }))
		_ = v.RegisterValidation("decimalgte0", decimalSign(func(d decimal.Decimal) bool { return !d.IsNegative() }))
	})
}

func decimalSign(ok func(decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return ok(d)
	}
}
