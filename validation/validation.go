package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents custom validation errors.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation errors: " + strings.Join(e.Errors, ", ")
}

// Add appends a message to the error.
func (e *ValidationError) Add(message string) {
	e.Errors = append(e.Errors, message)
}

// Err returns nil when no messages were collected.
func (e *ValidationError) Err() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

func messageFor(fieldErr validator.FieldError) string {
	field := strings.ToLower(fieldErr.Field())
	switch fieldErr.Tag() {
	case "required":
		return field + " can't be blank"
	}
	return field + " is invalid (" + fieldErr.Tag() + ")"
}
