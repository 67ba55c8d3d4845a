package models

import (
	"time"
)

// ApplicationDocument is immutable file metadata for one uploaded blob.
// The storage handle is opaque; blob persistence belongs to the
// file-storage collaborator. Only the verification fields are ever
// mutated, by the institute stage.
type ApplicationDocument struct {
	ID            uint `json:"id" gorm:"primaryKey"`
	ApplicationID uint `json:"application_id" gorm:"not null;index"`

	DocumentType     string    `json:"document_type" gorm:"not null;size:50"` // AADHAR_CARD, INCOME_CERTIFICATE, ...
	StorageHandle    string    `json:"storage_handle" gorm:"not null;size:255"`
	OriginalFileName string    `json:"original_file_name" gorm:"not null;size:255"`
	FileExtension    string    `json:"file_extension" gorm:"not null;size:10"`
	FileSize         int64     `json:"file_size" gorm:"not null"`
	UploadDate       time.Time `json:"upload_date" gorm:"not null"`

	IsVerified          bool       `json:"is_verified" gorm:"not null;default:false"`
	VerificationDate    *time.Time `json:"verification_date"`
	VerificationRemarks *string    `json:"verification_remarks" gorm:"size:500"`
}

func (ApplicationDocument) TableName() string {
	return "application_documents"
}
