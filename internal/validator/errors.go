package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a business validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// ToValidationErrors converts go-playground validator errors into our shape.
func ToValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrs {
			errors = append(errors, ValidationError{
				Field:   fe.Field(),
				Message: getErrorMessage(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
		return errors
	}
	errors = append(errors, ValidationError{
		Field:   "",
		Message: err.Error(),
		Rule:    "struct",
	})
	return errors
}

// getErrorMessage returns user-friendly error messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "numeric":
		return "must contain only digits"
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "email":
		return "must be a valid email address"
	case "academic_year":
		return "must look like 2025-26"
	case "aadhar_number":
		return "must be a 12 digit Aadhar number"
	case "ifsc_code":
		return "must be a valid IFSC code"
	case "pincode":
		return "must be a 6 digit pincode"
	case "percentage":
		return "must be a percentage between 0 and 100"
	case "review_decision":
		return "must be APPROVE or REJECT"
	case "remarks_length":
		return "must not exceed 500 characters"
	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
