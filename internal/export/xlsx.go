// Package export renders application listings as xlsx workbooks for the
// ministry desk.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nsp-portal/scholarship-service/internal/models"
)

const sheetName = "Applications"

var headers = []string{
	"Application ID",
	"Student ID",
	"Student Name",
	"Scheme",
	"Scholarship Amount",
	"Institute",
	"Institute Code",
	"Application Date",
	"Status",
	"Family Annual Income",
	"Academic Year",
	"Current Class",
	"Institute Verified On",
	"State Verified On",
	"Ministry Decided On",
}

// ApplicationsWorkbook renders the applications into a single-sheet xlsx
// file and returns the serialized bytes.
func ApplicationsWorkbook(apps []*models.ScholarshipApplication) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return nil, err
	}

	for i, app := range apps {
		row := i + 2
		values := []interface{}{
			app.ID,
			app.StudentID,
			app.Student.Name,
			app.Scheme.SchemeName,
			app.Scheme.Amount,
			app.CurrentInstituteName,
			app.CurrentInstituteCode,
			formatDate(&app.ApplicationDate),
			string(app.Status),
			app.FamilyAnnualIncome,
			app.AcademicYear,
			app.CurrentClass,
			formatDate(app.InstituteVerificationDate),
			formatDate(app.StateVerificationDate),
			formatDate(app.MinistryApprovalDate),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
