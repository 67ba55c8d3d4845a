package models

import (
	"time"

	"gorm.io/datatypes"
)

// SchemeCriteria is the structured eligibility criteria document stored as
// jsonb on the scheme row. Empty fields mean "no restriction".
type SchemeCriteria struct {
	Category          string  `json:"category,omitempty"`            // SC, ST, OBC, General
	Gender            string  `json:"gender,omitempty"`              // Male, Female
	DomicileState     string  `json:"domicile_state,omitempty"`      // specific state, empty = all India
	FamilyIncomeLimit float64 `json:"family_income_limit,omitempty"` // max annual income
	AcademicLevel     string  `json:"academic_level,omitempty"`      // Primary, Secondary, College
	MinAge            int     `json:"min_age,omitempty"`
	MaxAge            int     `json:"max_age,omitempty"`
}

// ScholarshipScheme describes one offering. The workflow only reads
// schemes; catalog maintenance belongs to the ministry surface.
type ScholarshipScheme struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	SchemeName  string  `json:"scheme_name" gorm:"uniqueIndex;not null;size:200" validate:"required,min=1,max=200"`
	Description string  `json:"description" gorm:"not null;size:1000" validate:"required,max=1000"`
	Amount      float64 `json:"scholarship_amount" gorm:"not null" validate:"required,gt=0"`

	ApplicationStartDate time.Time `json:"application_start_date" gorm:"not null" validate:"required"`
	ApplicationEndDate   time.Time `json:"application_end_date" gorm:"not null" validate:"required"`
	IsActive             bool      `json:"is_active" gorm:"not null;default:true"`

	Criteria datatypes.JSON `json:"criteria" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ScholarshipScheme) TableName() string {
	return "scholarship_schemes"
}

// OpenAt reports whether the scheme accepts submissions at the given time.
func (s *ScholarshipScheme) OpenAt(t time.Time) bool {
	if !s.IsActive {
		return false
	}
	day := t.Truncate(24 * time.Hour)
	return !day.Before(s.ApplicationStartDate.Truncate(24*time.Hour)) &&
		!day.After(s.ApplicationEndDate.Truncate(24*time.Hour))
}
