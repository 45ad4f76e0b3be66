// Package validation checks request structs with go-playground/validator and
// turns the failures into errx field errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	errx "github.com/cartsense-poc-v1/server/internal/core/error"
)

// Enum is implemented by closed string sets such as device type.
type Enum interface {
	IsValid() bool
	Values() []string
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the shared validator. Field names are reported by their
// json tag so messages line up with the form and API field names.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
			e, ok := fl.Field().Interface().(Enum)
			return ok && e.IsValid()
		})
	})
	return validate
}

// ValidateStruct returns nil or an errx validation error listing every bad field.
func ValidateStruct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errx.WrapValidation([]errx.FieldError{{Field: "unknown", Message: err.Error()}})
	}

	fields := make([]errx.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, errx.FieldError{
			Field:   fe.Field(),
			Message: translate(fe),
		})
	}
	return errx.WrapValidation(fields)
}

func translate(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "enum":
		if e, ok := fe.Value().(Enum); ok {
			return fmt.Sprintf("%s must be one of: %s", field, strings.Join(e.Values(), ", "))
		}
		return fmt.Sprintf("%s has an unsupported value", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
