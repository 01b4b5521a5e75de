// Package validate runs struct-tag validation on request payloads and
// collects every failing field, mirroring form-validation UX where the
// caller sees all field errors at once rather than only the first.
package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a field name to its list of error messages. The same
// shape is used for tag validation failures and for uniqueness violations
// translated out of the database layer.
type FieldErrors map[string][]string

// Add appends a message for a field.
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// Report fields under their json names so errors line up with the
	// request payload the client actually sent.
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// notblank rejects strings that are empty after trimming whitespace.
	_ = val.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return val
}

// Struct validates s against its `validate` tags and returns the collected
// field errors, or nil when the value is valid.
func Struct(s any) FieldErrors {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// Non-validation errors (e.g. passing a non-struct) indicate a
		// programming mistake; surface them as a generic payload error.
		return FieldErrors{"non_field_errors": {"Invalid payload."}}
	}
	fe := FieldErrors{}
	for _, e := range verrs {
		fe.Add(e.Field(), message(e))
	}
	return fe
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "notblank":
		return "This field may not be blank."
	case "email":
		return "Enter a valid email address."
	case "max":
		return "Ensure this field has no more than " + e.Param() + " characters."
	default:
		return "Invalid value."
	}
}
