package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nsp-portal/scholarship-service/internal/events"
	"github.com/nsp-portal/scholarship-service/internal/models"
	"github.com/nsp-portal/scholarship-service/internal/repositories"
	"github.com/nsp-portal/scholarship-service/internal/validator"
)

// ApplicationConfig carries the tunables of the student surface.
type ApplicationConfig struct {
	// DocumentLockAfterVerification freezes the document set once any
	// reviewer has acted on the application.
	DocumentLockAfterVerification bool
	MaxDocumentSizeBytes          int64
}

type applicationService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	config    ApplicationConfig
}

func NewApplicationService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher, config ApplicationConfig) ApplicationService {
	return &applicationService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		publisher: publisher,
		config:    config,
	}
}

// ===== SUBMISSION =====

func (s *applicationService) Submit(ctx context.Context, req *SubmitApplicationRequest, studentID string) (*ApplicationResponse, error) {
	s.logger.Info("Submitting application", "student_id", studentID, "scheme_id", req.SchemeID)

	if errs := s.validator.GetBusinessValidator().ValidateApplicationSubmit(req); len(errs) > 0 {
		return nil, errs
	}

	profile, err := s.repo.StudentProfile().GetByUserID(ctx, nil, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileIncomplete
		}
		return nil, fmt.Errorf("failed to load student profile: %w", err)
	}
	if profile.InstituteCode == "" {
		return nil, ErrProfileIncomplete
	}

	scheme, err := s.repo.Scheme().GetByID(ctx, nil, req.SchemeID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSchemeNotFound
		}
		return nil, fmt.Errorf("failed to load scheme: %w", err)
	}

	now := time.Now()
	if !scheme.OpenAt(now) {
		return nil, ErrSchemeClosed
	}

	criteria, err := parseCriteria(scheme)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scheme criteria: %w", err)
	}
	if errs := s.validator.GetBusinessValidator().CheckEligibility(profile, req.FamilyAnnualIncome, criteria); len(errs) > 0 {
		reasons := make([]string, 0, len(errs))
		for _, e := range errs {
			reasons = append(reasons, fmt.Sprintf("%s %s", e.Field, e.Message))
		}
		return nil, &IneligibleError{Reasons: reasons}
	}

	institute, err := s.repo.InstituteProfile().GetByCode(ctx, nil, profile.InstituteCode)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInstituteNotActive
		}
		return nil, fmt.Errorf("failed to resolve institute: %w", err)
	}
	if institute.RegistrationStatus != models.RegistrationActive {
		return nil, ErrInstituteNotActive
	}

	exists, err := s.repo.Application().ExistsLive(ctx, nil, studentID, req.SchemeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate application: %w", err)
	}
	if exists {
		return nil, ErrDuplicateApplication
	}

	app := &models.ScholarshipApplication{
		StudentID:               studentID,
		SchemeID:                req.SchemeID,
		InstituteID:             institute.UserID,
		ApplicationDate:         now,
		Status:                  models.StatusApplied,
		FamilyAnnualIncome:      req.FamilyAnnualIncome,
		AcademicYear:            req.AcademicYear,
		CurrentClass:            req.CurrentClass,
		PreviousClassPercentage: req.PreviousClassPercentage,
		CurrentInstituteName:    institute.InstituteName,
		CurrentInstituteCode:    institute.InstituteCode,
		BankAccountNumber:       req.BankAccountNumber,
		BankName:                req.BankName,
		IFSCCode:                req.IFSCCode,
	}

	// The APPLIED state exists only inside the submission transaction; a
	// committed application is always visible in the institute queue.
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Application().Create(ctx, nil, app); err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}

		app.Status = models.StatusPendingInstituteVerification
		if err := txRepo.Application().UpdateStatusGuarded(ctx, nil, app, models.StatusApplied); err != nil {
			return fmt.Errorf("failed to queue application: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Application submitted", "application_id", app.ID, "institute_id", app.InstituteID)

	s.publishEvent(ctx, events.NewEvent(events.TypeApplicationSubmitted, &events.ApplicationSubmittedEvent{
		ApplicationID: app.ID,
		StudentID:     studentID,
		SchemeID:      req.SchemeID,
		InstituteID:   app.InstituteID,
	}))

	return s.buildApplicationResponse(app), nil
}

// ===== QUERIES =====

func (s *applicationService) GetByID(ctx context.Context, id uint, actorID string, role models.UserRole) (*ApplicationResponse, error) {
	app, err := s.repo.Application().GetByIDWithDetails(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	if err := s.authorizeRead(ctx, app, actorID, role); err != nil {
		return nil, err
	}

	return s.buildApplicationResponse(app), nil
}

func (s *applicationService) ListForStudent(ctx context.Context, studentID string, filters repositories.ApplicationFilters) (*ApplicationListResponse, error) {
	filters.StudentID = &studentID

	apps, total, err := s.repo.Application().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	return s.buildApplicationListResponse(apps, total, filters), nil
}

// ===== DOCUMENTS =====

func (s *applicationService) AttachDocument(ctx context.Context, applicationID uint, req *UploadDocumentRequest, studentID string) (*models.ApplicationDocument, error) {
	if errs := s.validator.GetBusinessValidator().ValidateDocumentUpload(req, s.config.MaxDocumentSizeBytes); len(errs) > 0 {
		return nil, errs
	}

	app, err := s.repo.Application().GetByID(ctx, nil, applicationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	if app.StudentID != studentID {
		return nil, ErrAccessDenied
	}
	if s.documentsLocked(app) {
		return nil, ErrDocumentLocked
	}

	doc := &models.ApplicationDocument{
		ApplicationID:    applicationID,
		DocumentType:     req.DocumentType,
		StorageHandle:    uuid.New().String(),
		OriginalFileName: req.OriginalFileName,
		FileExtension:    req.FileExtension,
		FileSize:         req.FileSize,
		UploadDate:       time.Now(),
	}

	if err := s.repo.Document().Create(ctx, nil, doc); err != nil {
		return nil, fmt.Errorf("failed to attach document: %w", err)
	}

	s.logger.Info("Document attached", "application_id", applicationID, "document_id", doc.ID, "type", doc.DocumentType)
	return doc, nil
}

func (s *applicationService) ListDocuments(ctx context.Context, applicationID uint, actorID string, role models.UserRole) ([]*models.ApplicationDocument, error) {
	app, err := s.repo.Application().GetByID(ctx, nil, applicationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	if err := s.authorizeRead(ctx, app, actorID, role); err != nil {
		return nil, err
	}

	return s.repo.Document().GetByApplication(ctx, nil, applicationID)
}

func (s *applicationService) VerifyDocument(ctx context.Context, applicationID, documentID uint, req *VerifyDocumentRequest, actorID string, role models.UserRole) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	app, err := s.repo.Application().GetByID(ctx, nil, applicationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("failed to get application: %w", err)
	}

	// Only the reviewing institute checks documents, and only while the
	// application sits at its desk.
	if role != models.RoleInstitute || app.InstituteID != actorID {
		return ErrAccessDenied
	}
	if app.Status != models.StatusPendingInstituteVerification {
		return &TransitionError{From: app.Status, To: app.Status}
	}

	docs, err := s.repo.Document().GetByApplication(ctx, nil, applicationID)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	found := false
	for _, d := range docs {
		if d.ID == documentID {
			found = true
			break
		}
	}
	if !found {
		return ErrDocumentNotFound
	}

	if err := s.repo.Document().MarkVerified(ctx, nil, documentID, req.Remarks); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("failed to verify document: %w", err)
	}

	s.logger.Info("Document verified", "application_id", applicationID, "document_id", documentID, "verified_by", actorID)
	return nil
}

// ===== HELPERS =====

// authorizeRead enforces the visibility rules per role: students see their
// own rows, institutes their queue, state officers their jurisdiction, the
// ministry everything.
func (s *applicationService) authorizeRead(ctx context.Context, app *models.ScholarshipApplication, actorID string, role models.UserRole) error {
	switch role {
	case models.RoleStudent:
		if app.StudentID != actorID {
			return ErrAccessDenied
		}
	case models.RoleInstitute:
		if app.InstituteID != actorID {
			return ErrAccessDenied
		}
	case models.RoleStateOfficer:
		state, err := s.officerState(ctx, actorID)
		if err != nil {
			return err
		}
		profile := &app.Student
		if profile.UserID == "" {
			loaded, err := s.repo.StudentProfile().GetByUserID(ctx, nil, app.StudentID)
			if err != nil {
				return fmt.Errorf("failed to load student profile: %w", err)
			}
			profile = loaded
		}
		if state != "" && profile.DomicileState != state {
			return ErrAccessDenied
		}
	case models.RoleMinistry:
		// Full visibility
	default:
		return ErrAccessDenied
	}
	return nil
}

// officerState resolves the jurisdiction of a state officer account.
func (s *applicationService) officerState(ctx context.Context, officerID string) (string, error) {
	user, err := s.repo.User().GetByID(ctx, officerID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve officer: %w", err)
	}
	return user.State, nil
}

func (s *applicationService) documentsLocked(app *models.ScholarshipApplication) bool {
	if !s.config.DocumentLockAfterVerification {
		// The permissive policy still never allows changes at or past the
		// ministry desk.
		return app.Status == models.StatusPendingMinistryApproval || app.Status.IsTerminal()
	}
	// Locked once the application left the institute desk or any stage
	// stamp exists.
	if app.Status != models.StatusPendingInstituteVerification {
		return true
	}
	return app.StageRecorded(models.StageInstitute)
}

func (s *applicationService) buildApplicationResponse(app *models.ScholarshipApplication) *ApplicationResponse {
	return buildApplicationResponse(app)
}

func (s *applicationService) buildApplicationListResponse(apps []*models.ScholarshipApplication, total int64, filters repositories.ApplicationFilters) *ApplicationListResponse {
	return buildApplicationListResponse(apps, total, filters)
}

func (s *applicationService) publishEvent(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// Best effort: the workflow outcome is already committed
		s.logger.Warn("Failed to publish event", "event_type", event.Type, "error", err)
	}
}

// parseCriteria decodes the jsonb criteria column; nil means open scheme.
func parseCriteria(scheme *models.ScholarshipScheme) (*models.SchemeCriteria, error) {
	if len(scheme.Criteria) == 0 {
		return nil, nil
	}
	var c models.SchemeCriteria
	if err := json.Unmarshal(scheme.Criteria, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
