package models

import (
	"time"
)

type RegistrationStatus string

const (
	RegistrationSubmitted     RegistrationStatus = "SUBMITTED"
	RegistrationStateApproved RegistrationStatus = "STATE_APPROVED"
	RegistrationActive        RegistrationStatus = "ACTIVE"
	RegistrationRejected      RegistrationStatus = "REJECTED"
)

// IsTerminal reports whether no further registration transition is allowed.
func (s RegistrationStatus) IsTerminal() bool {
	return s == RegistrationActive || s == RegistrationRejected
}

// InstituteProfile carries institute account details and the onboarding
// state. The legacy schema tracked onboarding with a single boolean; the
// explicit status enum replaces it, and registration_approved is kept in
// sync (true iff ACTIVE) for consumers of the old column.
type InstituteProfile struct {
	UserID string `json:"user_id" gorm:"primaryKey;size:255"`
	User   User   `json:"-" gorm:"foreignKey:UserID"`

	InstituteName string `json:"institute_name" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	InstituteCode string `json:"institute_code" gorm:"uniqueIndex;not null;size:30" validate:"required,max=30"`
	DiseCode      string `json:"dise_code" gorm:"size:30"`

	Address  string `json:"address" gorm:"size:500"`
	District string `json:"district" gorm:"size:50"`
	State    string `json:"state" gorm:"not null;size:50;index" validate:"required"`
	Pincode  string `json:"pincode" gorm:"size:10"`

	ContactPersonName   string `json:"contact_person_name" gorm:"size:100"`
	ContactPersonMobile string `json:"contact_person_mobile" gorm:"size:15"`
	ContactPersonEmail  string `json:"contact_person_email" gorm:"size:255"`

	InstituteType     string `json:"institute_type" gorm:"size:30"`   // Government, Private, Aided
	AffiliationBody   string `json:"affiliation_body" gorm:"size:50"` // CBSE, ICSE, State Board
	EstablishmentYear string `json:"establishment_year" gorm:"size:4"`

	RegistrationStatus   RegistrationStatus `json:"registration_status" gorm:"not null;size:20;default:SUBMITTED;index"`
	RegistrationApproved bool               `json:"registration_approved" gorm:"not null;default:false"`

	// Onboarding audit slots, populated once per stage
	StateApprovalDate       *time.Time `json:"state_approval_date"`
	StateApprovalRemarks    *string    `json:"state_approval_remarks" gorm:"size:500"`
	StateApprovedBy         *string    `json:"state_approved_by" gorm:"size:255"`
	MinistryApprovalDate    *time.Time `json:"ministry_approval_date"`
	MinistryApprovalRemarks *string    `json:"ministry_approval_remarks" gorm:"size:500"`
	MinistryApprovedBy      *string    `json:"ministry_approved_by" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (InstituteProfile) TableName() string {
	return "institute_profiles"
}
