package validator

// Validator is the facade the service layer depends on. It bundles struct
// tag validation with the custom business rules.
type Validator struct {
	*BusinessValidator
}

// New creates a validator with all business rules registered.
func New() *Validator {
	return &Validator{BusinessValidator: NewBusinessValidator()}
}

// GetBusinessValidator exposes the business rule layer.
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.BusinessValidator
}

// Validate runs struct tag validation and returns nil when clean.
func (v *Validator) Validate(s interface{}) error {
	if errs := v.BusinessValidator.Validate(s); len(errs) > 0 {
		return errs
	}
	return nil
}
