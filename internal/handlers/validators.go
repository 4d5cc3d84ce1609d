package handlers

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/SscSPs/branch_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the ledger binding tags to gin's validator engine. It is safe to call
// more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
			return
		}
		registerErr = registerLedgerValidators(v)
	})
	return registerErr
}

func registerLedgerValidators(v *validator.Validate) error {
	// Amounts are validated through their string form.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("decimal_gte0", func(fl validator.FieldLevel) bool {
		str := fl.Field().String()
		if str == "" {
			return true
		}
		d, err := decimal.NewFromString(str)
		if err != nil {
			return false
		}
		return !d.IsNegative()
	}); err != nil {
		return fmt.Errorf("failed to register 'decimal_gte0': %w", err)
	}

	if err := v.RegisterValidation("ref_type", func(fl validator.FieldLevel) bool {
		return domain.ReferenceType(fl.Field().String()).IsValid()
	}); err != nil {
		return fmt.Errorf("failed to register 'ref_type': %w", err)
	}
	return nil
}
