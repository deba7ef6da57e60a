// Package validate runs struct tag validation and reports failures as field
// messages keyed by JSON name.
package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"fintrack/internal/errors"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return val
}

// Struct validates s. It returns nil or a *errors.ValidationError.
func Struct(s any) error {
	return Fields(s).OrNil()
}

// Fields validates s and returns the collected field messages, possibly empty.
func Fields(s any) *errors.ValidationError {
	verr := errors.NewValidationError()
	err := v.Struct(s)
	if err == nil {
		return verr
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		verr.Add("base", "is invalid")
		return verr
	}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), message(fe))
	}
	return verr
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "can't be blank"
	case "email":
		return "is invalid"
	case "min":
		return fmt.Sprintf("is too short (minimum is %s characters)", fe.Param())
	case "max":
		return fmt.Sprintf("is too long (maximum is %s characters)", fe.Param())
	case "url", "uri":
		return "is not a valid URL"
	default:
		return "is invalid"
	}
}
