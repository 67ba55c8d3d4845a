package validator

import (
	"strings"
	"testing"
	"time"

	"github.com/nsp-portal/scholarship-service/internal/models"
)

func validSubmitRequest() *ApplicationSubmitRequest {
	return &ApplicationSubmitRequest{
		SchemeID:                1,
		FamilyAnnualIncome:      150000,
		AcademicYear:            "2026-27",
		CurrentClass:            "Class 10",
		PreviousClassPercentage: "82.5",
		BankAccountNumber:       "123456789012",
		BankName:                "State Bank of India",
		IFSCCode:                "SBIN0001234",
	}
}

func TestValidateApplicationSubmit(t *testing.T) {
	bv := NewBusinessValidator()

	t.Run("valid request", func(t *testing.T) {
		if errs := bv.ValidateApplicationSubmit(validSubmitRequest()); len(errs) > 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})

	t.Run("zero family income", func(t *testing.T) {
		req := validSubmitRequest()
		req.FamilyAnnualIncome = 0
		if errs := bv.ValidateApplicationSubmit(req); len(errs) > 0 {
			t.Errorf("zero declared income must be accepted, got %v", errs)
		}
	})

	t.Run("negative family income", func(t *testing.T) {
		req := validSubmitRequest()
		req.FamilyAnnualIncome = -1
		errs := bv.ValidateApplicationSubmit(req)
		if len(errs) == 0 {
			t.Fatal("negative income must be rejected")
		}
	})

	tests := []struct {
		name   string
		mutate func(*ApplicationSubmitRequest)
		field  string
	}{
		{"missing scheme", func(r *ApplicationSubmitRequest) { r.SchemeID = 0 }, "scheme_id"},
		{"bad academic year", func(r *ApplicationSubmitRequest) { r.AcademicYear = "2026/27" }, "academic_year"},
		{"academic year too old", func(r *ApplicationSubmitRequest) { r.AcademicYear = "1985-86" }, "academic_year"},
		{"percentage above 100", func(r *ApplicationSubmitRequest) { r.PreviousClassPercentage = "104" }, "previous_class_percentage"},
		{"percentage not numeric", func(r *ApplicationSubmitRequest) { r.PreviousClassPercentage = "eighty" }, "previous_class_percentage"},
		{"account too short", func(r *ApplicationSubmitRequest) { r.BankAccountNumber = "1234" }, "bank_account_number"},
		{"account not numeric", func(r *ApplicationSubmitRequest) { r.BankAccountNumber = "12345678AB" }, "bank_account_number"},
		{"bad ifsc", func(r *ApplicationSubmitRequest) { r.IFSCCode = "SBIN1001234" }, "ifsc_code"},
		{"lowercase ifsc", func(r *ApplicationSubmitRequest) { r.IFSCCode = "sbin0001234" }, "ifsc_code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSubmitRequest()
			tt.mutate(req)
			errs := bv.ValidateApplicationSubmit(req)
			if len(errs) == 0 {
				t.Fatal("expected validation errors")
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e.Field, tt.field) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on %q, got %v", tt.field, errs)
			}
		})
	}
}

func TestValidateReviewDecision(t *testing.T) {
	bv := NewBusinessValidator()

	tests := []struct {
		name    string
		req     ReviewDecisionRequest
		wantErr bool
	}{
		{"approve without remarks", ReviewDecisionRequest{Decision: "APPROVE"}, false},
		{"approve with remarks", ReviewDecisionRequest{Decision: "APPROVE", Remarks: "all documents in order"}, false},
		{"reject with remarks", ReviewDecisionRequest{Decision: "REJECT", Remarks: "income certificate missing"}, false},
		{"reject without remarks", ReviewDecisionRequest{Decision: "REJECT"}, true},
		{"reject with blank remarks", ReviewDecisionRequest{Decision: "REJECT", Remarks: "   "}, true},
		{"unknown decision", ReviewDecisionRequest{Decision: "HOLD"}, true},
		{"lowercase decision", ReviewDecisionRequest{Decision: "approve"}, true},
		{"empty decision", ReviewDecisionRequest{}, true},
		{"remarks too long", ReviewDecisionRequest{Decision: "APPROVE", Remarks: strings.Repeat("x", 501)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := bv.ValidateReviewDecision(&tt.req)
			if tt.wantErr && len(errs) == 0 {
				t.Error("expected validation errors")
			}
			if !tt.wantErr && len(errs) > 0 {
				t.Errorf("expected no errors, got %v", errs)
			}
		})
	}
}

func TestValidateSchemeCreate(t *testing.T) {
	bv := NewBusinessValidator()
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	req := &SchemeCreateRequest{
		SchemeName:           "Post Matric Scholarship",
		Description:          "Support for post matric students",
		Amount:               12000,
		ApplicationStartDate: start,
		ApplicationEndDate:   start.AddDate(0, 3, 0),
	}
	if errs := bv.ValidateSchemeCreate(req); len(errs) > 0 {
		t.Errorf("expected no errors, got %v", errs)
	}

	req.ApplicationEndDate = start.AddDate(0, 0, -1)
	if errs := bv.ValidateSchemeCreate(req); len(errs) == 0 {
		t.Error("expected error for end before start")
	}

	req.ApplicationEndDate = start.AddDate(0, 3, 0)
	req.Criteria = &models.SchemeCriteria{Category: "EWS"}
	if errs := bv.ValidateSchemeCreate(req); len(errs) == 0 {
		t.Error("expected error for unknown criteria category")
	}

	req.Criteria = &models.SchemeCriteria{MinAge: 18, MaxAge: 14}
	if errs := bv.ValidateSchemeCreate(req); len(errs) == 0 {
		t.Error("expected error for inverted age bounds")
	}
}

func TestValidateDocumentUpload(t *testing.T) {
	bv := NewBusinessValidator()

	req := &DocumentUploadRequest{
		DocumentType:     "INCOME_CERTIFICATE",
		OriginalFileName: "income.pdf",
		FileExtension:    "pdf",
		FileSize:         1 << 20,
	}
	if errs := bv.ValidateDocumentUpload(req, 5<<20); len(errs) > 0 {
		t.Errorf("expected no errors, got %v", errs)
	}

	req.FileSize = 6 << 20
	if errs := bv.ValidateDocumentUpload(req, 5<<20); len(errs) == 0 {
		t.Error("expected error for oversized file")
	}

	req.FileSize = 1024
	req.FileExtension = "exe"
	if errs := bv.ValidateDocumentUpload(req, 5<<20); len(errs) == 0 {
		t.Error("expected error for disallowed extension")
	}

	req.FileExtension = "pdf"
	req.DocumentType = "SELFIE"
	if errs := bv.ValidateDocumentUpload(req, 5<<20); len(errs) == 0 {
		t.Error("expected error for unknown document type")
	}
}

func TestCheckEligibility(t *testing.T) {
	bv := NewBusinessValidator()

	profile := &models.StudentProfile{
		Category:      "SC",
		Gender:        "Female",
		DomicileState: "Karnataka",
		DateOfBirth:   time.Now().AddDate(-16, 0, 0),
	}

	t.Run("nil criteria means open scheme", func(t *testing.T) {
		if errs := bv.CheckEligibility(profile, 900000, nil); len(errs) > 0 {
			t.Errorf("expected eligible, got %v", errs)
		}
	})

	t.Run("all criteria satisfied", func(t *testing.T) {
		criteria := &models.SchemeCriteria{
			Category:          "SC",
			Gender:            "Female",
			DomicileState:     "Karnataka",
			FamilyIncomeLimit: 250000,
			MinAge:            14,
			MaxAge:            18,
		}
		if errs := bv.CheckEligibility(profile, 200000, criteria); len(errs) > 0 {
			t.Errorf("expected eligible, got %v", errs)
		}
	})

	t.Run("case insensitive matching", func(t *testing.T) {
		criteria := &models.SchemeCriteria{Category: "sc", DomicileState: "KARNATAKA"}
		if errs := bv.CheckEligibility(profile, 0, criteria); len(errs) > 0 {
			t.Errorf("expected eligible, got %v", errs)
		}
	})

	tests := []struct {
		name     string
		criteria models.SchemeCriteria
		income   float64
		field    string
	}{
		{"wrong category", models.SchemeCriteria{Category: "ST"}, 0, "category"},
		{"wrong gender", models.SchemeCriteria{Gender: "Male"}, 0, "gender"},
		{"wrong domicile", models.SchemeCriteria{DomicileState: "Kerala"}, 0, "domicile_state"},
		{"income over limit", models.SchemeCriteria{FamilyIncomeLimit: 100000}, 150000, "family_annual_income"},
		{"too young", models.SchemeCriteria{MinAge: 18}, 0, "date_of_birth"},
		{"too old", models.SchemeCriteria{MaxAge: 12}, 0, "date_of_birth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := bv.CheckEligibility(profile, tt.income, &tt.criteria)
			if len(errs) != 1 {
				t.Fatalf("expected exactly one error, got %v", errs)
			}
			if errs[0].Field != tt.field {
				t.Errorf("expected error on %q, got %q", tt.field, errs[0].Field)
			}
		})
	}

	t.Run("every failed criterion reported", func(t *testing.T) {
		criteria := &models.SchemeCriteria{
			Category:          "ST",
			Gender:            "Male",
			FamilyIncomeLimit: 100000,
		}
		if errs := bv.CheckEligibility(profile, 500000, criteria); len(errs) != 3 {
			t.Errorf("expected 3 errors, got %v", errs)
		}
	})
}

func TestAgeAt(t *testing.T) {
	birth := time.Date(2010, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{"day before birthday", time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC), 15},
		{"on birthday", time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), 16},
		{"after birthday", time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ageAt(birth, tt.at); got != tt.want {
				t.Errorf("ageAt = %d, want %d", got, tt.want)
			}
		})
	}
}
