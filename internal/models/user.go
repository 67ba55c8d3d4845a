package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string
type Role = UserRole // Alias for compatibility

const (
	RoleStudent      UserRole = "STUDENT"
	RoleInstitute    UserRole = "INSTITUTE"
	RoleStateOfficer UserRole = "STATE_OFFICER"
	RoleMinistry     UserRole = "MINISTRY"
)

// User is the local read model of an identity-service account. Credentials
// live in Casdoor; only id, email and role are consumed here.
type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:255"`
	FullName string   `json:"full_name" gorm:"not null;size:100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role     UserRole `json:"role" gorm:"not null;size:20;index"`

	// State is the jurisdiction of a STATE_OFFICER account; empty for
	// other roles.
	State string `json:"state,omitempty" gorm:"size:50"`

	EmailVerified bool `json:"email_verified" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// ValidRole reports whether r is one of the four defined roles.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleStudent, RoleInstitute, RoleStateOfficer, RoleMinistry:
		return true
	}
	return false
}
