// Package validator wraps struct-tag validation for request DTOs.
package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the struct's `validate` tags and returns a field→tag
// map of failures, or nil when the value is valid.
func Validate(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
