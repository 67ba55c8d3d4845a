package models

import (
	"errors"
	"time"
)

type ApplicationStatus string

// Status values double as the persisted and wire format; the exact strings
// must never change.
const (
	StatusApplied                      ApplicationStatus = "APPLIED"
	StatusPendingInstituteVerification ApplicationStatus = "PENDING_INSTITUTE_VERIFICATION"
	StatusRejectedByInstitute          ApplicationStatus = "REJECTED_BY_INSTITUTE"
	StatusPendingStateVerification     ApplicationStatus = "PENDING_STATE_VERIFICATION"
	StatusRejectedByState              ApplicationStatus = "REJECTED_BY_STATE"
	StatusPendingMinistryApproval      ApplicationStatus = "PENDING_MINISTRY_APPROVAL"
	StatusRejectedByMinistry           ApplicationStatus = "REJECTED_BY_MINISTRY"
	StatusGranted                      ApplicationStatus = "GRANTED"
)

// transitions is the directed graph of legal status moves.
var transitions = map[ApplicationStatus][]ApplicationStatus{
	StatusApplied:                      {StatusPendingInstituteVerification},
	StatusPendingInstituteVerification: {StatusPendingStateVerification, StatusRejectedByInstitute},
	StatusPendingStateVerification:     {StatusPendingMinistryApproval, StatusRejectedByState},
	StatusPendingMinistryApproval:      {StatusGranted, StatusRejectedByMinistry},
}

// IsTerminal reports whether no further status mutation is permitted.
func (s ApplicationStatus) IsTerminal() bool {
	switch s {
	case StatusRejectedByInstitute, StatusRejectedByState, StatusRejectedByMinistry, StatusGranted:
		return true
	}
	return false
}

// Valid reports whether s is one of the eight defined statuses.
func (s ApplicationStatus) Valid() bool {
	if s.IsTerminal() {
		return true
	}
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether s -> next is an edge of the workflow graph.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Next returns the statuses reachable from s in one step.
func (s ApplicationStatus) Next() []ApplicationStatus {
	next := transitions[s]
	out := make([]ApplicationStatus, len(next))
	copy(out, next)
	return out
}

// Stage identifies one of the three approval phases.
type Stage string

const (
	StageInstitute Stage = "INSTITUTE"
	StageState     Stage = "STATE"
	StageMinistry  Stage = "MINISTRY"
)

var ErrStageAlreadyRecorded = errors.New("audit slot already recorded for stage")

// ScholarshipApplication is the aggregate: one student, one scheme, the
// status, and three populate-once audit slots. Student and scheme
// references are immutable after creation.
type ScholarshipApplication struct {
	ID uint `json:"id" gorm:"primaryKey"`

	StudentID string            `json:"student_id" gorm:"not null;size:255;index"`
	Student   StudentProfile    `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	SchemeID  uint              `json:"scheme_id" gorm:"not null;index"`
	Scheme    ScholarshipScheme `json:"scheme,omitempty" gorm:"foreignKey:SchemeID"`

	// Set at submission from the student's declared institute; institute
	// queues filter on it.
	InstituteID string `json:"institute_id" gorm:"not null;size:255;index"`

	ApplicationDate time.Time         `json:"application_date" gorm:"not null"`
	Status          ApplicationStatus `json:"status" gorm:"not null;size:40;index"`

	// Snapshot captured at submission time
	FamilyAnnualIncome      float64 `json:"family_annual_income" gorm:"not null"`
	AcademicYear            string  `json:"academic_year" gorm:"size:10"`
	CurrentClass            string  `json:"current_class" gorm:"size:30"`
	PreviousClassPercentage string  `json:"previous_class_percentage" gorm:"size:10"`
	CurrentInstituteName    string  `json:"current_institute_name" gorm:"size:200"`
	CurrentInstituteCode    string  `json:"current_institute_code" gorm:"size:30"`
	BankAccountNumber       string  `json:"bank_account_number" gorm:"size:30"`
	BankName                string  `json:"bank_name" gorm:"size:100"`
	IFSCCode                string  `json:"ifsc_code" gorm:"size:15"`

	// Audit slots, populated exactly once per stage passed
	InstituteVerificationDate    *time.Time `json:"institute_verification_date"`
	InstituteVerificationRemarks *string    `json:"institute_verification_remarks" gorm:"size:500"`
	InstituteVerifiedBy          *string    `json:"institute_verified_by" gorm:"size:255"`
	StateVerificationDate        *time.Time `json:"state_verification_date"`
	StateVerificationRemarks     *string    `json:"state_verification_remarks" gorm:"size:500"`
	StateVerifiedBy              *string    `json:"state_verified_by" gorm:"size:255"`
	MinistryApprovalDate         *time.Time `json:"ministry_approval_date"`
	MinistryApprovalRemarks      *string    `json:"ministry_approval_remarks" gorm:"size:500"`
	MinistryApprovedBy           *string    `json:"ministry_approved_by" gorm:"size:255"`

	Documents []ApplicationDocument `json:"documents,omitempty" gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ScholarshipApplication) TableName() string {
	return "scholarship_applications"
}

// RecordStage populates the audit slot for one stage. It is the sole
// mutation primitive for the slots and fails if the slot was already
// written, so a stage can never be stamped twice.
func (a *ScholarshipApplication) RecordStage(stage Stage, remarks string, actorID string, at time.Time) error {
	switch stage {
	case StageInstitute:
		if a.InstituteVerificationDate != nil {
			return ErrStageAlreadyRecorded
		}
		a.InstituteVerificationDate = &at
		a.InstituteVerificationRemarks = &remarks
		a.InstituteVerifiedBy = &actorID
	case StageState:
		if a.StateVerificationDate != nil {
			return ErrStageAlreadyRecorded
		}
		a.StateVerificationDate = &at
		a.StateVerificationRemarks = &remarks
		a.StateVerifiedBy = &actorID
	case StageMinistry:
		if a.MinistryApprovalDate != nil {
			return ErrStageAlreadyRecorded
		}
		a.MinistryApprovalDate = &at
		a.MinistryApprovalRemarks = &remarks
		a.MinistryApprovedBy = &actorID
	default:
		return errors.New("unknown workflow stage")
	}
	return nil
}

// StageRecorded reports whether the audit slot for the stage is populated.
func (a *ScholarshipApplication) StageRecorded(stage Stage) bool {
	switch stage {
	case StageInstitute:
		return a.InstituteVerificationDate != nil
	case StageState:
		return a.StateVerificationDate != nil
	case StageMinistry:
		return a.MinistryApprovalDate != nil
	}
	return false
}
