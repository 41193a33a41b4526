package console

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// CustomerForm holds the raw registration input
type CustomerForm struct {
	Name  string `validate:"required,max=64"`
	Email string `validate:"required,email"`
	Phone string `validate:"required,numeric,min=3,max=15"`
}

// ValidationError describes one rejected form field
type ValidationError struct {
	Field   string
	Message string
	Tag     string
}

// ValidateForm checks form against its validate tags and returns one entry
// per failing field, or nil when the form is acceptable.
func ValidateForm(form any) []ValidationError {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Message: err.Error()}}
	}

	validationErrors := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
			Tag:     fe.Tag(),
		})
	}
	return validationErrors
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "numeric":
		return "Digits only"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	default:
		return "Invalid value"
	}
}
