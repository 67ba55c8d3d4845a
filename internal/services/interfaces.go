package services

import (
	"context"

	"github.com/nsp-portal/scholarship-service/internal/models"
	"github.com/nsp-portal/scholarship-service/internal/repositories"
	"github.com/nsp-portal/scholarship-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type SubmitApplicationRequest = validator.ApplicationSubmitRequest
type UploadDocumentRequest = validator.DocumentUploadRequest
type ReviewDecisionRequest = validator.ReviewDecisionRequest
type RegistrationDecisionRequest = validator.RegistrationDecisionRequest
type VerifyDocumentRequest = validator.DocumentVerifyRequest
type StudentProfileRequest = validator.StudentProfileRequest
type InstituteRegistrationRequest = validator.InstituteRegistrationRequest
type CreateSchemeRequest = validator.SchemeCreateRequest
type UpdateSchemeRequest = validator.SchemeUpdateRequest

type ApplicationResponse struct {
	*models.ScholarshipApplication
	NextActions   []string `json:"next_actions,omitempty"`
	DocumentCount int      `json:"document_count"`
}

type ApplicationListResponse struct {
	Applications []*ApplicationResponse `json:"applications"`
	Total        int64                  `json:"total"`
	Page         int                    `json:"page"`
	Size         int                    `json:"size"`
}

type SchemeResponse struct {
	*models.ScholarshipScheme
	IsOpen   bool                   `json:"is_open"`
	Criteria *models.SchemeCriteria `json:"criteria_parsed,omitempty"`
}

type SchemeListResponse struct {
	Schemes []*SchemeResponse `json:"schemes"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	Size    int               `json:"size"`
}

type RegistrationResponse struct {
	*models.InstituteProfile
	PendingDesk string `json:"pending_desk,omitempty"` // STATE or MINISTRY while in flight
}

type RegistrationListResponse struct {
	Registrations []*RegistrationResponse `json:"registrations"`
	Total         int64                   `json:"total"`
}

// ===== SERVICE INTERFACES =====

// ApplicationService owns the student surface: submission, the snapshot,
// document attachment and per-student queries.
type ApplicationService interface {
	Submit(ctx context.Context, req *SubmitApplicationRequest, studentID string) (*ApplicationResponse, error)
	GetByID(ctx context.Context, id uint, actorID string, role models.UserRole) (*ApplicationResponse, error)
	ListForStudent(ctx context.Context, studentID string, filters repositories.ApplicationFilters) (*ApplicationListResponse, error)

	// Document attachment and retrieval
	AttachDocument(ctx context.Context, applicationID uint, req *UploadDocumentRequest, studentID string) (*models.ApplicationDocument, error)
	ListDocuments(ctx context.Context, applicationID uint, actorID string, role models.UserRole) ([]*models.ApplicationDocument, error)
	VerifyDocument(ctx context.Context, applicationID, documentID uint, req *VerifyDocumentRequest, actorID string, role models.UserRole) error
}

// WorkflowService executes the three review desks of the application state
// machine. Every decision is an atomic compare-and-set on the current
// status plus a populate-once audit stamp.
type WorkflowService interface {
	// Institute desk
	ListInstituteQueue(ctx context.Context, instituteUserID string, filters repositories.ApplicationFilters) (*ApplicationListResponse, error)
	DecideAtInstitute(ctx context.Context, applicationID uint, req *ReviewDecisionRequest, instituteUserID string) (*ApplicationResponse, error)

	// State desk
	ListStateQueue(ctx context.Context, officerID string, filters repositories.ApplicationFilters) (*ApplicationListResponse, error)
	DecideAtState(ctx context.Context, applicationID uint, req *ReviewDecisionRequest, officerID string) (*ApplicationResponse, error)

	// Ministry desk
	ListMinistryQueue(ctx context.Context, filters repositories.ApplicationFilters) (*ApplicationListResponse, error)
	DecideAtMinistry(ctx context.Context, applicationID uint, req *ReviewDecisionRequest, officerID string) (*ApplicationResponse, error)

	// ExportApplications renders the filtered listing as an xlsx workbook.
	ExportApplications(ctx context.Context, filters repositories.ApplicationFilters) ([]byte, error)
}

// RegistrationService runs the two-stage institute onboarding workflow.
type RegistrationService interface {
	SubmitRegistration(ctx context.Context, req *InstituteRegistrationRequest, instituteUserID string) (*RegistrationResponse, error)
	GetRegistration(ctx context.Context, instituteUserID string) (*RegistrationResponse, error)

	ListPendingForState(ctx context.Context, officerID string, filters repositories.RegistrationFilters) (*RegistrationListResponse, error)
	DecideAtState(ctx context.Context, instituteUserID string, req *RegistrationDecisionRequest, officerID string) (*RegistrationResponse, error)

	ListPendingForMinistry(ctx context.Context, filters repositories.RegistrationFilters) (*RegistrationListResponse, error)
	DecideAtMinistry(ctx context.Context, instituteUserID string, req *RegistrationDecisionRequest, officerID string) (*RegistrationResponse, error)
}

// SchemeService maintains the scheme catalog (ministry surface) and serves
// the public listing of open schemes.
type SchemeService interface {
	Create(ctx context.Context, req *CreateSchemeRequest, actorID string) (*SchemeResponse, error)
	Update(ctx context.Context, id uint, req *UpdateSchemeRequest, actorID string) (*SchemeResponse, error)
	GetByID(ctx context.Context, id uint) (*SchemeResponse, error)
	List(ctx context.Context, filters repositories.SchemeFilters) (*SchemeListResponse, error)
	ListOpen(ctx context.Context) (*SchemeListResponse, error)
}

// ProfileService maintains student profiles.
type ProfileService interface {
	CreateStudentProfile(ctx context.Context, req *StudentProfileRequest, userID string) (*models.StudentProfile, error)
	GetStudentProfile(ctx context.Context, userID string) (*models.StudentProfile, error)
	UpdateStudentProfile(ctx context.Context, req *StudentProfileRequest, userID string) (*models.StudentProfile, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Application() ApplicationService
	Workflow() WorkflowService
	Registration() RegistrationService
	Scheme() SchemeService
	Profile() ProfileService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
