package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError a form failed validation. Messages are in field order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// IsValidationError reports whether err carries form messages and returns them
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

var validate = validator.New()

// fieldMessages user-facing message per struct field
var fieldMessages = map[string]string{
	"FirstName": "must have a first name !",
	"LastName":  "must have a last name !",
	"Email":     "must have an email !",
	"Password":  "must have a password",
	"Role":      "must have a valid role !",
}

// validateForm runs the validate tags of form and converts failures into a
// *ValidationError. One message per failing field.
func validateForm(form interface{}) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	ve := &ValidationError{}
	seen := make(map[string]bool, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.StructField()
		if seen[field] {
			continue
		}
		seen[field] = true
		msg, ok := fieldMessages[field]
		if !ok {
			msg = "invalid " + strings.ToLower(field)
		}
		ve.Messages = append(ve.Messages, msg)
	}
	return ve
}
