package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	ErrRequired   = "is required"
	ErrMinLength  = "must be at least %s characters long"
	ErrMaxLength  = "must be at most %s characters long"
	ErrMin        = "must be at least %s"
	ErrMax        = "must be at most %s"
	ErrOneOf      = "must be one of: %s"
	ErrPremium    = "must be a positive multiplier not greater than 100"
	ErrInvalidVal = "is invalid"
)

var maxPremium = decimal.NewFromInt(100)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterTagNameFunc(jsonFieldName)
	validator.RegisterValidation("premium", validatePremium)

	return validator
}

// jsonFieldName reports fields by their JSON name so validation errors match the
// request body the client sent.
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	if name == "" {
		return field.Name
	}

	return name
}

func validatePremium(fl validator.FieldLevel) bool {
	premium, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}

	return premium.IsPositive() && premium.LessThanOrEqual(maxPremium)
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf(ErrMinLength, err.Param())
		}
		return fmt.Sprintf(ErrMin, err.Param())
	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf(ErrMaxLength, err.Param())
		}
		return fmt.Sprintf(ErrMax, err.Param())
	case "oneof":
		return fmt.Sprintf(ErrOneOf, err.Param())
	case "premium":
		return ErrPremium
	default:
		return ErrInvalidVal
	}
}
