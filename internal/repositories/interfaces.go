package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nsp-portal/scholarship-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ApplicationFilters struct {
	Status      *models.ApplicationStatus `json:"status"`
	StudentID   *string                   `json:"student_id"`
	InstituteID *string                   `json:"institute_id"`
	SchemeID    *uint                     `json:"scheme_id"`
	// DomicileState filters on the student's declared domicile; state
	// officer queues use it as their jurisdiction scope.
	DomicileState *string    `json:"domicile_state"`
	DateFrom      *time.Time `json:"date_from"`
	DateTo        *time.Time `json:"date_to"`
	Limit         int        `json:"limit"`
	Offset        int        `json:"offset"`
	SortBy        string     `json:"sort_by"`    // "application_date", "status"
	SortOrder     string     `json:"sort_order"` // "asc", "desc"
}

type SchemeFilters struct {
	IsActive  *bool      `json:"is_active"`
	OpenOn    *time.Time `json:"open_on"` // only schemes whose window contains this date
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`
	SortOrder string     `json:"sort_order"`
}

type RegistrationFilters struct {
	Status *models.RegistrationStatus `json:"status"`
	State  *string                    `json:"state"`
	Limit  int                        `json:"limit"`
	Offset int                        `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

// ApplicationRepository persists the application aggregate. All write
// methods take the transaction handle explicitly; pass nil to run on the
// base connection.
type ApplicationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, app *models.ScholarshipApplication) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ScholarshipApplication, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.ScholarshipApplication, error)
	List(ctx context.Context, tx *gorm.DB, filters ApplicationFilters) ([]*models.ScholarshipApplication, int64, error)
	Count(ctx context.Context, tx *gorm.DB, filters ApplicationFilters) (int64, error)

	// ExistsLive reports whether the student already has a non-rejected
	// application for the scheme.
	ExistsLive(ctx context.Context, tx *gorm.DB, studentID string, schemeID uint) (bool, error)

	// UpdateStatusGuarded performs the atomic compare-and-set transition:
	// the row is updated only while its status still equals expected.
	// Returns ErrStaleStatus when another actor got there first.
	UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, app *models.ScholarshipApplication, expected models.ApplicationStatus) error
}

type DocumentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, doc *models.ApplicationDocument) error
	GetByApplication(ctx context.Context, tx *gorm.DB, applicationID uint) ([]*models.ApplicationDocument, error)
	MarkVerified(ctx context.Context, tx *gorm.DB, documentID uint, remarks string) error
}

type SchemeRepository interface {
	Create(ctx context.Context, tx *gorm.DB, scheme *models.ScholarshipScheme) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ScholarshipScheme, error)
	Update(ctx context.Context, tx *gorm.DB, scheme *models.ScholarshipScheme) error
	List(ctx context.Context, tx *gorm.DB, filters SchemeFilters) ([]*models.ScholarshipScheme, int64, error)
}

type StudentProfileRepository interface {
	Create(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.StudentProfile, error)
	Update(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error
}

type InstituteProfileRepository interface {
	Create(ctx context.Context, tx *gorm.DB, profile *models.InstituteProfile) error
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.InstituteProfile, error)
	GetByCode(ctx context.Context, tx *gorm.DB, instituteCode string) (*models.InstituteProfile, error)
	Update(ctx context.Context, tx *gorm.DB, profile *models.InstituteProfile) error
	List(ctx context.Context, tx *gorm.DB, filters RegistrationFilters) ([]*models.InstituteProfile, int64, error)

	// UpdateRegistrationGuarded is the compare-and-set for the onboarding
	// workflow, guarded on the current registration status.
	UpdateRegistrationGuarded(ctx context.Context, tx *gorm.DB, profile *models.InstituteProfile, expected models.RegistrationStatus) error
}

// UserRepository is the read model of the identity service.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
