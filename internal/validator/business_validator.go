package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nsp-portal/scholarship-service/internal/models"
)

var (
	academicYearPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
	ifscPattern         = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	pincodePattern      = regexp.MustCompile(`^\d{6}$`)
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	// Error payloads report the json field name, matching the wire shape
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateApplicationSubmit validates application submission business rules
func (bv *BusinessValidator) ValidateApplicationSubmit(req *ApplicationSubmitRequest) ValidationErrors {
	var errors ValidationErrors

	// Basic struct validation
	errors = append(errors, bv.Validate(req)...)

	// Academic year must start with a plausible calendar year
	if academicYearPattern.MatchString(req.AcademicYear) {
		startYear, _ := strconv.Atoi(req.AcademicYear[:4])
		if startYear < 2000 || startYear > time.Now().Year()+1 {
			errors = append(errors, ValidationError{
				Field:   "academic_year",
				Message: "start year is out of range",
				Value:   req.AcademicYear,
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

// ValidateReviewDecision validates a reviewer action on an application.
// Remarks are mandatory for rejections so the student always learns why.
func (bv *BusinessValidator) ValidateReviewDecision(req *ReviewDecisionRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.Decision == "REJECT" && strings.TrimSpace(req.Remarks) == "" {
		errors = append(errors, ValidationError{
			Field:   "remarks",
			Message: "are required when rejecting",
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateRegistrationDecision validates an onboarding decision.
func (bv *BusinessValidator) ValidateRegistrationDecision(req *RegistrationDecisionRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.Decision == "REJECT" && strings.TrimSpace(req.Remarks) == "" {
		errors = append(errors, ValidationError{
			Field:   "remarks",
			Message: "are required when rejecting",
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateSchemeCreate validates scheme creation business rules
func (bv *BusinessValidator) ValidateSchemeCreate(req *SchemeCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if !req.ApplicationEndDate.After(req.ApplicationStartDate) {
		errors = append(errors, ValidationError{
			Field:   "application_end_date",
			Message: "must be after the start date",
			Value:   req.ApplicationEndDate,
			Rule:    "business_logic",
		})
	}

	errors = append(errors, bv.validateCriteria(req.Criteria)...)

	return errors
}

// ValidateSchemeUpdate validates scheme update business rules
func (bv *BusinessValidator) ValidateSchemeUpdate(req *SchemeUpdateRequest, existing *models.ScholarshipScheme) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	start := existing.ApplicationStartDate
	end := existing.ApplicationEndDate
	if req.ApplicationStartDate != nil {
		start = *req.ApplicationStartDate
	}
	if req.ApplicationEndDate != nil {
		end = *req.ApplicationEndDate
	}
	if !end.After(start) {
		errors = append(errors, ValidationError{
			Field:   "application_end_date",
			Message: "must be after the start date",
			Value:   end,
			Rule:    "business_logic",
		})
	}

	errors = append(errors, bv.validateCriteria(req.Criteria)...)

	return errors
}

// ValidateDocumentUpload validates a document attachment against the
// configured size ceiling.
func (bv *BusinessValidator) ValidateDocumentUpload(req *DocumentUploadRequest, maxSizeBytes int64) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if maxSizeBytes > 0 && req.FileSize > maxSizeBytes {
		errors = append(errors, ValidationError{
			Field:   "file_size",
			Message: fmt.Sprintf("must not exceed %d bytes", maxSizeBytes),
			Value:   req.FileSize,
			Rule:    "business_logic",
		})
	}

	return errors
}

// CheckEligibility evaluates a student against a scheme's criteria document.
// Each failed criterion yields one error; an empty result means eligible.
func (bv *BusinessValidator) CheckEligibility(profile *models.StudentProfile, familyAnnualIncome float64, criteria *models.SchemeCriteria) ValidationErrors {
	var errors ValidationErrors

	if criteria == nil {
		return nil // Open scheme, no restrictions
	}

	if criteria.Category != "" && !strings.EqualFold(criteria.Category, profile.Category) {
		errors = append(errors, ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("scheme is restricted to category %s", criteria.Category),
			Value:   profile.Category,
			Rule:    "eligibility",
		})
	}

	if criteria.Gender != "" && !strings.EqualFold(criteria.Gender, profile.Gender) {
		errors = append(errors, ValidationError{
			Field:   "gender",
			Message: fmt.Sprintf("scheme is restricted to %s applicants", criteria.Gender),
			Value:   profile.Gender,
			Rule:    "eligibility",
		})
	}

	if criteria.DomicileState != "" && !strings.EqualFold(criteria.DomicileState, profile.DomicileState) {
		errors = append(errors, ValidationError{
			Field:   "domicile_state",
			Message: fmt.Sprintf("scheme is restricted to domicile of %s", criteria.DomicileState),
			Value:   profile.DomicileState,
			Rule:    "eligibility",
		})
	}

	if criteria.FamilyIncomeLimit > 0 && familyAnnualIncome > criteria.FamilyIncomeLimit {
		errors = append(errors, ValidationError{
			Field:   "family_annual_income",
			Message: fmt.Sprintf("exceeds the scheme income limit of %.2f", criteria.FamilyIncomeLimit),
			Value:   familyAnnualIncome,
			Rule:    "eligibility",
		})
	}

	if criteria.MinAge > 0 || criteria.MaxAge > 0 {
		age := ageAt(profile.DateOfBirth, time.Now())
		if criteria.MinAge > 0 && age < criteria.MinAge {
			errors = append(errors, ValidationError{
				Field:   "date_of_birth",
				Message: fmt.Sprintf("applicant must be at least %d years old", criteria.MinAge),
				Value:   age,
				Rule:    "eligibility",
			})
		}
		if criteria.MaxAge > 0 && age > criteria.MaxAge {
			errors = append(errors, ValidationError{
				Field:   "date_of_birth",
				Message: fmt.Sprintf("applicant must be at most %d years old", criteria.MaxAge),
				Value:   age,
				Rule:    "eligibility",
			})
		}
	}

	return errors
}

// ageAt computes whole years between birth and the reference time.
func ageAt(birth, at time.Time) int {
	years := at.Year() - birth.Year()
	if at.YearDay() < birth.YearDay() {
		years--
	}
	return years
}

// validateCriteria checks internal consistency of a criteria document.
func (bv *BusinessValidator) validateCriteria(c *models.SchemeCriteria) ValidationErrors {
	var errors ValidationErrors

	if c == nil {
		return nil
	}

	if c.Category != "" {
		switch c.Category {
		case "SC", "ST", "OBC", "General":
		default:
			errors = append(errors, ValidationError{
				Field:   "criteria.category",
				Message: "must be SC, ST, OBC or General",
				Value:   c.Category,
				Rule:    "business_logic",
			})
		}
	}

	if c.FamilyIncomeLimit < 0 {
		errors = append(errors, ValidationError{
			Field:   "criteria.family_income_limit",
			Message: "cannot be negative",
			Value:   c.FamilyIncomeLimit,
			Rule:    "business_logic",
		})
	}

	if c.MinAge < 0 || c.MaxAge < 0 {
		errors = append(errors, ValidationError{
			Field:   "criteria.age",
			Message: "age bounds cannot be negative",
			Rule:    "business_logic",
		})
	}

	if c.MinAge > 0 && c.MaxAge > 0 && c.MinAge > c.MaxAge {
		errors = append(errors, ValidationError{
			Field:   "criteria.min_age",
			Message: "cannot exceed max age",
			Value:   c.MinAge,
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Academic year like 2025-26
	bv.validate.RegisterValidation("academic_year", func(fl validator.FieldLevel) bool {
		return academicYearPattern.MatchString(fl.Field().String())
	})

	// 12 digit Aadhar number
	bv.validate.RegisterValidation("aadhar_number", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		if len(v) != 12 {
			return false
		}
		for _, r := range v {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})

	// IFSC like SBIN0001234
	bv.validate.RegisterValidation("ifsc_code", func(fl validator.FieldLevel) bool {
		return ifscPattern.MatchString(fl.Field().String())
	})

	// 6 digit pincode
	bv.validate.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pincodePattern.MatchString(fl.Field().String())
	})

	// Percentage given as a string, 0-100 inclusive
	bv.validate.RegisterValidation("percentage", func(fl validator.FieldLevel) bool {
		v, err := strconv.ParseFloat(fl.Field().String(), 64)
		if err != nil {
			return false
		}
		return v >= 0 && v <= 100
	})

	// Closed decision vocabulary for reviewer actions
	bv.validate.RegisterValidation("review_decision", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "APPROVE", "REJECT":
			return true
		}
		return false
	})

	// Remarks ceiling matches the audit slot column size
	bv.validate.RegisterValidation("remarks_length", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= 500
	})
}
