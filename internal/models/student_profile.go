package models

import (
	"time"
)

// StudentProfile carries the eligibility attributes of a STUDENT account.
// One row per student user; mutated only by its owner.
type StudentProfile struct {
	UserID string `json:"user_id" gorm:"primaryKey;size:255"`
	User   User   `json:"-" gorm:"foreignKey:UserID"`

	Name          string    `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	DateOfBirth   time.Time `json:"date_of_birth" gorm:"not null" validate:"required"`
	Gender        string    `json:"gender" gorm:"not null;size:10" validate:"required,oneof=Male Female Other"`
	DomicileState string    `json:"domicile_state" gorm:"not null;size:50;index" validate:"required"`
	District      string    `json:"district" gorm:"size:50"`
	AadharNumber  string    `json:"aadhar_number" gorm:"uniqueIndex;not null;size:12" validate:"required,len=12,numeric"`

	FatherName string `json:"father_name" gorm:"size:100"`
	MotherName string `json:"mother_name" gorm:"size:100"`
	Category   string `json:"category" gorm:"size:20"` // SC, ST, OBC, General
	Address    string `json:"address" gorm:"size:500"`
	Pincode    string `json:"pincode" gorm:"size:10"`

	// Bank details for disbursement (disbursement itself is out of scope)
	BankAccountNumber string `json:"bank_account_number" gorm:"size:30"`
	BankName          string `json:"bank_name" gorm:"size:100"`
	IFSCCode          string `json:"ifsc_code" gorm:"size:15"`

	// Declared institute; resolved to Application.InstituteID at submission
	InstituteCode string `json:"institute_code" gorm:"size:30;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}
