package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report errors under the json field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldErrors maps a request field to its validation failure message.
// It implements error so services can return uniqueness failures
// through the same channel as tag-based validation failures.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	return "validation failed"
}

func (e FieldErrors) Add(field, message string) {
	e[field] = message
}

// Check validates a request struct against its validate tags and
// returns the per-field error map, or nil if the struct is valid.
func Check(req interface{}) FieldErrors {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	errs := FieldErrors{}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Add("request", err.Error())
		return errs
	}
	for _, fe := range validationErrs {
		errs.Add(fe.Field(), messageFor(fe))
	}
	return errs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", fe.Field())
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", fe.Field(), fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", strings.TrimSuffix(fe.Field(), "_confirmation"))
	default:
		return fmt.Sprintf("The %s field is invalid.", fe.Field())
	}
}
