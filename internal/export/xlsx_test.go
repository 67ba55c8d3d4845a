package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nsp-portal/scholarship-service/internal/models"
)

func sampleApplication(id uint, status models.ApplicationStatus) *models.ScholarshipApplication {
	verified := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	return &models.ScholarshipApplication{
		ID:        id,
		StudentID: "stu-1",
		Student:   models.StudentProfile{Name: "Asha Rao"},
		SchemeID:  1,
		Scheme: models.ScholarshipScheme{
			SchemeName: "Pre Matric Scholarship",
			Amount:     6000,
		},
		InstituteID:               "inst-1",
		ApplicationDate:           time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Status:                    status,
		FamilyAnnualIncome:        150000,
		AcademicYear:              "2026-27",
		CurrentClass:              "Class 10",
		CurrentInstituteName:      "Govt High School Mysore",
		CurrentInstituteCode:      "KA-MYS-042",
		InstituteVerificationDate: &verified,
	}
}

func TestApplicationsWorkbook(t *testing.T) {
	apps := []*models.ScholarshipApplication{
		sampleApplication(1, models.StatusPendingStateVerification),
		sampleApplication(2, models.StatusGranted),
	}

	data, err := ApplicationsWorkbook(apps)
	if err != nil {
		t.Fatalf("workbook failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("workbook is empty")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("generated bytes are not a valid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header plus 2 applications", len(rows))
	}

	if rows[0][0] != "Application ID" || rows[0][8] != "Status" {
		t.Errorf("unexpected header row: %v", rows[0])
	}

	first := rows[1]
	if first[2] != "Asha Rao" {
		t.Errorf("student name column = %q", first[2])
	}
	if first[6] != "KA-MYS-042" {
		t.Errorf("institute code column = %q", first[6])
	}
	if first[7] != "2026-06-01" {
		t.Errorf("application date column = %q", first[7])
	}
	if first[8] != string(models.StatusPendingStateVerification) {
		t.Errorf("status column = %q", first[8])
	}
	if first[12] != "2026-07-10" {
		t.Errorf("institute verification column = %q", first[12])
	}
}

func TestApplicationsWorkbookEmpty(t *testing.T) {
	data, err := ApplicationsWorkbook(nil)
	if err != nil {
		t.Fatalf("workbook failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("generated bytes are not a valid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("empty export should carry only the header row, got %d rows", len(rows))
	}
}
