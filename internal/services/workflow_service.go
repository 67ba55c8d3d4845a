package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/nsp-portal/scholarship-service/internal/events"
	"github.com/nsp-portal/scholarship-service/internal/export"
	"github.com/nsp-portal/scholarship-service/internal/models"
	"github.com/nsp-portal/scholarship-service/internal/repositories"
	"github.com/nsp-portal/scholarship-service/internal/validator"
)

// desk binds one review stage to its slice of the status graph.
type desk struct {
	stage     models.Stage
	role      models.UserRole
	expected  models.ApplicationStatus
	approveTo models.ApplicationStatus
	rejectTo  models.ApplicationStatus
}

var (
	instituteDesk = desk{
		stage:     models.StageInstitute,
		role:      models.RoleInstitute,
		expected:  models.StatusPendingInstituteVerification,
		approveTo: models.StatusPendingStateVerification,
		rejectTo:  models.StatusRejectedByInstitute,
	}
	stateDesk = desk{
		stage:     models.StageState,
		role:      models.RoleStateOfficer,
		expected:  models.StatusPendingStateVerification,
		approveTo: models.StatusPendingMinistryApproval,
		rejectTo:  models.StatusRejectedByState,
	}
	ministryDesk = desk{
		stage:     models.StageMinistry,
		role:      models.RoleMinistry,
		expected:  models.StatusPendingMinistryApproval,
		approveTo: models.StatusGranted,
		rejectTo:  models.StatusRejectedByMinistry,
	}
)

type workflowService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewWorkflowService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) WorkflowService {
	return &workflowService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

// ===== INSTITUTE DESK =====

func (s *workflowService) ListInstituteQueue(ctx context.Context, instituteUserID string, filters repositories.ApplicationFilters) (*ApplicationListResponse, error) {
	filters.InstituteID = &instituteUserID
	if filters.Status == nil {
		pending := models.StatusPendingInstituteVerification
		filters.Status = &pending
	}
	return s.list(ctx, filters)
}

func (s *workflowService) DecideAtInstitute(ctx context.Context, applicationID uint, req *ReviewDecisionRequest, instituteUserID string) (*ApplicationResponse, error) {
	return s.decide(ctx, applicationID, req, instituteUserID, instituteDesk)
}

// ===== STATE DESK =====

func (s *workflowService) ListStateQueue(ctx context.Context, officerID string, filters repositories.ApplicationFilters) (*ApplicationListResponse, error) {
	state, err := s.officerState(ctx, officerID)
	if err != nil {
		return nil, err
	}
	if state != "" {
		filters.DomicileState = &state
	}
	if filters.Status == nil {
		pending := models.StatusPendingStateVerification
		filters.Status = &pending
	}
	return s.list(ctx, filters)
}

func (s *workflowService) DecideAtState(ctx context.Context, applicationID uint, req *ReviewDecisionRequest, officerID string) (*ApplicationResponse, error) {
	return s.decide(ctx, applicationID, req, officerID, stateDesk)
}

// ===== MINISTRY DESK =====

func (s *workflowService) ListMinistryQueue(ctx context.Context, filters repositories.ApplicationFilters) (*ApplicationListResponse, error) {
	if filters.Status == nil {
		pending := models.StatusPendingMinistryApproval
		filters.Status = &pending
	}
	return s.list(ctx, filters)
}

func (s *workflowService) DecideAtMinistry(ctx context.Context, applicationID uint, req *ReviewDecisionRequest, officerID string) (*ApplicationResponse, error) {
	return s.decide(ctx, applicationID, req, officerID, ministryDesk)
}

// exportPageSize matches the repository page cap.
const exportPageSize = 100

// exportMaxRows bounds workbook size; larger extracts should narrow the
// filters instead.
const exportMaxRows = 10000

func (s *workflowService) ExportApplications(ctx context.Context, filters repositories.ApplicationFilters) ([]byte, error) {
	filters.Limit = exportPageSize
	filters.Offset = 0

	var all []*models.ScholarshipApplication
	for {
		apps, total, err := s.repo.Application().List(ctx, nil, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to list applications for export: %w", err)
		}
		all = append(all, apps...)
		if len(apps) < exportPageSize || int64(len(all)) >= total || len(all) >= exportMaxRows {
			break
		}
		filters.Offset += exportPageSize
	}

	return export.ApplicationsWorkbook(all)
}

// ===== TRANSITION ENGINE =====

// decide runs one reviewer action: jurisdiction check, audit stamp, then
// the compare-and-set status move. Concurrent reviewers race on the guard;
// exactly one wins, the rest get ErrStaleState.
func (s *workflowService) decide(ctx context.Context, applicationID uint, req *ReviewDecisionRequest, actorID string, d desk) (*ApplicationResponse, error) {
	if errs := s.validator.GetBusinessValidator().ValidateReviewDecision(req); len(errs) > 0 {
		return nil, errs
	}

	app, err := s.repo.Application().GetByIDWithDetails(ctx, nil, applicationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	target := d.approveTo
	if req.Decision == "REJECT" {
		target = d.rejectTo
	}

	if app.Status != d.expected {
		return nil, &TransitionError{From: app.Status, To: target}
	}
	if !app.Status.CanTransitionTo(target) {
		return nil, &TransitionError{From: app.Status, To: target}
	}

	if err := s.checkJurisdiction(ctx, app, actorID, d); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := app.RecordStage(d.stage, req.Remarks, actorID, now); err != nil {
		if errors.Is(err, models.ErrStageAlreadyRecorded) {
			return nil, ErrStaleState
		}
		return nil, err
	}

	from := d.expected
	app.Status = target
	if err := s.repo.Application().UpdateStatusGuarded(ctx, nil, app, d.expected); err != nil {
		if repositories.IsStaleStatusError(err) {
			return nil, ErrStaleState
		}
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}

	s.logger.Info("Application transitioned",
		"application_id", app.ID,
		"from", from,
		"to", target,
		"actor_id", actorID,
		"stage", d.stage)

	s.publishEvent(ctx, events.NewEvent(events.TypeApplicationStatusChanged, &events.ApplicationStatusChangedEvent{
		ApplicationID: app.ID,
		StudentID:     app.StudentID,
		SchemeID:      app.SchemeID,
		FromStatus:    from,
		ToStatus:      target,
		ActorID:       actorID,
		ActorRole:     d.role,
		Remarks:       req.Remarks,
	}))

	return buildApplicationResponse(app), nil
}

// checkJurisdiction verifies the actor owns the desk for this application.
func (s *workflowService) checkJurisdiction(ctx context.Context, app *models.ScholarshipApplication, actorID string, d desk) error {
	switch d.role {
	case models.RoleInstitute:
		if app.InstituteID != actorID {
			return ErrAccessDenied
		}
	case models.RoleStateOfficer:
		state, err := s.officerState(ctx, actorID)
		if err != nil {
			return err
		}
		if state == "" {
			return nil // All-India desk
		}
		domicile := app.Student.DomicileState
		if domicile == "" {
			profile, err := s.repo.StudentProfile().GetByUserID(ctx, nil, app.StudentID)
			if err != nil {
				return fmt.Errorf("failed to load student profile: %w", err)
			}
			domicile = profile.DomicileState
		}
		if domicile != state {
			return ErrAccessDenied
		}
	case models.RoleMinistry:
		// National jurisdiction
	}
	return nil
}

func (s *workflowService) officerState(ctx context.Context, officerID string) (string, error) {
	user, err := s.repo.User().GetByID(ctx, officerID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve officer: %w", err)
	}
	return user.State, nil
}

func (s *workflowService) list(ctx context.Context, filters repositories.ApplicationFilters) (*ApplicationListResponse, error) {
	apps, total, err := s.repo.Application().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return buildApplicationListResponse(apps, total, filters), nil
}

func (s *workflowService) publishEvent(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", event.Type, "error", err)
	}
}
