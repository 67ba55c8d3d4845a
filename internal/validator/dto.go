package validator

import (
	"time"

	"github.com/nsp-portal/scholarship-service/internal/models"
)

// ApplicationSubmitRequest represents the request structure for submitting
// a scholarship application. The academic and bank fields become an
// immutable snapshot on the application row.
type ApplicationSubmitRequest struct {
	SchemeID                uint    `json:"scheme_id" validate:"required"`
	FamilyAnnualIncome      float64 `json:"family_annual_income" validate:"gte=0"`
	AcademicYear            string  `json:"academic_year" validate:"required,academic_year"`
	CurrentClass            string  `json:"current_class" validate:"required,max=30"`
	PreviousClassPercentage string  `json:"previous_class_percentage" validate:"omitempty,percentage"`
	BankAccountNumber       string  `json:"bank_account_number" validate:"required,min=9,max=18,numeric"`
	BankName                string  `json:"bank_name" validate:"required,max=100"`
	IFSCCode                string  `json:"ifsc_code" validate:"required,ifsc_code"`
}

// DocumentUploadRequest represents attaching one supporting document to an
// application. The storage handle is issued server-side.
type DocumentUploadRequest struct {
	DocumentType     string `json:"document_type" validate:"required,oneof=AADHAR_CARD INCOME_CERTIFICATE CASTE_CERTIFICATE MARKSHEET BANK_PASSBOOK DOMICILE_CERTIFICATE OTHER"`
	OriginalFileName string `json:"original_file_name" validate:"required,max=255"`
	FileExtension    string `json:"file_extension" validate:"required,oneof=pdf jpg jpeg png"`
	FileSize         int64  `json:"file_size" validate:"required,gt=0"`
}

// ReviewDecisionRequest is the closed shape for every reviewer action on an
// application. Remarks are mandatory when rejecting.
type ReviewDecisionRequest struct {
	Decision string `json:"decision" validate:"required,review_decision"`
	Remarks  string `json:"remarks" validate:"omitempty,remarks_length"`
}

// RegistrationDecisionRequest is the closed shape for institute onboarding
// decisions at the state and ministry desks.
type RegistrationDecisionRequest struct {
	Decision string `json:"decision" validate:"required,review_decision"`
	Remarks  string `json:"remarks" validate:"omitempty,remarks_length"`
}

// DocumentVerifyRequest marks one uploaded document as checked.
type DocumentVerifyRequest struct {
	Remarks string `json:"remarks" validate:"omitempty,remarks_length"`
}

// StudentProfileRequest represents creating or updating a student profile.
type StudentProfileRequest struct {
	Name              string    `json:"name" validate:"required,min=1,max=100"`
	DateOfBirth       time.Time `json:"date_of_birth" validate:"required"`
	Gender            string    `json:"gender" validate:"required,oneof=Male Female Other"`
	DomicileState     string    `json:"domicile_state" validate:"required,max=50"`
	District          string    `json:"district" validate:"omitempty,max=50"`
	AadharNumber      string    `json:"aadhar_number" validate:"required,aadhar_number"`
	FatherName        string    `json:"father_name" validate:"omitempty,max=100"`
	MotherName        string    `json:"mother_name" validate:"omitempty,max=100"`
	Category          string    `json:"category" validate:"omitempty,oneof=SC ST OBC General"`
	Address           string    `json:"address" validate:"omitempty,max=500"`
	Pincode           string    `json:"pincode" validate:"omitempty,pincode"`
	BankAccountNumber string    `json:"bank_account_number" validate:"omitempty,min=9,max=18,numeric"`
	BankName          string    `json:"bank_name" validate:"omitempty,max=100"`
	IFSCCode          string    `json:"ifsc_code" validate:"omitempty,ifsc_code"`
	InstituteCode     string    `json:"institute_code" validate:"omitempty,max=30"`
}

// InstituteRegistrationRequest represents an institute submitting its
// profile for onboarding.
type InstituteRegistrationRequest struct {
	InstituteName       string `json:"institute_name" validate:"required,min=1,max=200"`
	InstituteCode       string `json:"institute_code" validate:"required,max=30"`
	DiseCode            string `json:"dise_code" validate:"omitempty,max=30"`
	Address             string `json:"address" validate:"omitempty,max=500"`
	District            string `json:"district" validate:"omitempty,max=50"`
	State               string `json:"state" validate:"required,max=50"`
	Pincode             string `json:"pincode" validate:"omitempty,pincode"`
	ContactPersonName   string `json:"contact_person_name" validate:"omitempty,max=100"`
	ContactPersonMobile string `json:"contact_person_mobile" validate:"omitempty,min=10,max=15,numeric"`
	ContactPersonEmail  string `json:"contact_person_email" validate:"omitempty,email"`
	InstituteType       string `json:"institute_type" validate:"omitempty,oneof=Government Private Aided"`
	AffiliationBody     string `json:"affiliation_body" validate:"omitempty,max=50"`
	EstablishmentYear   string `json:"establishment_year" validate:"omitempty,len=4,numeric"`
}

// SchemeCreateRequest represents the request structure for creating schemes
type SchemeCreateRequest struct {
	SchemeName           string                 `json:"scheme_name" validate:"required,min=1,max=200"`
	Description          string                 `json:"description" validate:"required,max=1000"`
	Amount               float64                `json:"scholarship_amount" validate:"required,gt=0"`
	ApplicationStartDate time.Time              `json:"application_start_date" validate:"required"`
	ApplicationEndDate   time.Time              `json:"application_end_date" validate:"required"`
	IsActive             *bool                  `json:"is_active"`
	Criteria             *models.SchemeCriteria `json:"criteria"`
}

// SchemeUpdateRequest represents the request structure for updating schemes
type SchemeUpdateRequest struct {
	SchemeName           *string                `json:"scheme_name" validate:"omitempty,min=1,max=200"`
	Description          *string                `json:"description" validate:"omitempty,max=1000"`
	Amount               *float64               `json:"scholarship_amount" validate:"omitempty,gt=0"`
	ApplicationStartDate *time.Time             `json:"application_start_date"`
	ApplicationEndDate   *time.Time             `json:"application_end_date"`
	IsActive             *bool                  `json:"is_active"`
	Criteria             *models.SchemeCriteria `json:"criteria"`
}
