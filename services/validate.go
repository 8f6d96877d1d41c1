package services

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// validateArgs checks the validate tags of args. A missing required value
// takes precedence over a mismatching confirmation field.
func validateArgs(args interface{}, missingMessage string) error {
	err := validate.Struct(args)

	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)

	if !ok {
		return &ValidationError{Message: err.Error()}
	}

	var missing, mismatched []string

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			mismatched = append(mismatched, fe.Field())
		}
	}

	if len(missing) > 0 {
		return &ValidationError{Message: missingMessage, Fields: missing}
	}

	return &ValidationError{Message: MsgPasswordsDoNotMatch, Fields: mismatched}
}

// requireValue checks a single required argument
func requireValue(name string, value string) error {
	if err := validate.Var(value, "required"); err != nil {
		return &ValidationError{Message: MsgMissingRequiredField, Fields: []string{name}}
	}

	return nil
}
