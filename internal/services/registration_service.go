package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/nsp-portal/scholarship-service/internal/events"
	"github.com/nsp-portal/scholarship-service/internal/models"
	"github.com/nsp-portal/scholarship-service/internal/repositories"
	"github.com/nsp-portal/scholarship-service/internal/validator"
)

type registrationService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewRegistrationService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) RegistrationService {
	return &registrationService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

// ===== INSTITUTE SIDE =====

func (s *registrationService) SubmitRegistration(ctx context.Context, req *InstituteRegistrationRequest, instituteUserID string) (*RegistrationResponse, error) {
	s.logger.Info("Submitting institute registration", "institute_user_id", instituteUserID, "institute_code", req.InstituteCode)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if existing, err := s.repo.InstituteProfile().GetByUserID(ctx, nil, instituteUserID); err == nil && existing != nil {
		// A rejected institute may resubmit; anything else is a duplicate.
		if existing.RegistrationStatus != models.RegistrationRejected {
			return nil, ErrDuplicateRegistration
		}
		return s.resubmit(ctx, existing, req)
	} else if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check existing registration: %w", err)
	}

	if other, err := s.repo.InstituteProfile().GetByCode(ctx, nil, req.InstituteCode); err == nil && other != nil && other.UserID != instituteUserID {
		return nil, ErrDuplicateRegistration
	} else if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check institute code: %w", err)
	}

	profile := &models.InstituteProfile{
		UserID:              instituteUserID,
		InstituteName:       req.InstituteName,
		InstituteCode:       req.InstituteCode,
		DiseCode:            req.DiseCode,
		Address:             req.Address,
		District:            req.District,
		State:               req.State,
		Pincode:             req.Pincode,
		ContactPersonName:   req.ContactPersonName,
		ContactPersonMobile: req.ContactPersonMobile,
		ContactPersonEmail:  req.ContactPersonEmail,
		InstituteType:       req.InstituteType,
		AffiliationBody:     req.AffiliationBody,
		EstablishmentYear:   req.EstablishmentYear,
		RegistrationStatus:  models.RegistrationSubmitted,
	}

	if err := s.repo.InstituteProfile().Create(ctx, nil, profile); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	s.publishEvent(ctx, events.NewEvent(events.TypeRegistrationSubmitted, &events.RegistrationStatusChangedEvent{
		InstituteUserID: profile.UserID,
		InstituteCode:   profile.InstituteCode,
		ToStatus:        models.RegistrationSubmitted,
	}))

	return buildRegistrationResponse(profile), nil
}

// resubmit replays a rejected registration with fresh details and cleared
// audit slots.
func (s *registrationService) resubmit(ctx context.Context, existing *models.InstituteProfile, req *InstituteRegistrationRequest) (*RegistrationResponse, error) {
	from := existing.RegistrationStatus

	existing.InstituteName = req.InstituteName
	existing.InstituteCode = req.InstituteCode
	existing.DiseCode = req.DiseCode
	existing.Address = req.Address
	existing.District = req.District
	existing.State = req.State
	existing.Pincode = req.Pincode
	existing.ContactPersonName = req.ContactPersonName
	existing.ContactPersonMobile = req.ContactPersonMobile
	existing.ContactPersonEmail = req.ContactPersonEmail
	existing.InstituteType = req.InstituteType
	existing.AffiliationBody = req.AffiliationBody
	existing.EstablishmentYear = req.EstablishmentYear

	existing.RegistrationStatus = models.RegistrationSubmitted
	existing.RegistrationApproved = false
	existing.StateApprovalDate = nil
	existing.StateApprovalRemarks = nil
	existing.StateApprovedBy = nil
	existing.MinistryApprovalDate = nil
	existing.MinistryApprovalRemarks = nil
	existing.MinistryApprovedBy = nil

	if err := s.repo.InstituteProfile().Update(ctx, nil, existing); err != nil {
		return nil, fmt.Errorf("failed to resubmit registration: %w", err)
	}

	s.logger.Info("Institute registration resubmitted", "institute_user_id", existing.UserID)

	s.publishEvent(ctx, events.NewEvent(events.TypeRegistrationStatusChanged, &events.RegistrationStatusChangedEvent{
		InstituteUserID: existing.UserID,
		InstituteCode:   existing.InstituteCode,
		FromStatus:      from,
		ToStatus:        models.RegistrationSubmitted,
	}))

	return buildRegistrationResponse(existing), nil
}

func (s *registrationService) GetRegistration(ctx context.Context, instituteUserID string) (*RegistrationResponse, error) {
	profile, err := s.repo.InstituteProfile().GetByUserID(ctx, nil, instituteUserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return buildRegistrationResponse(profile), nil
}

// ===== STATE DESK =====

func (s *registrationService) ListPendingForState(ctx context.Context, officerID string, filters repositories.RegistrationFilters) (*RegistrationListResponse, error) {
	state, err := s.officerState(ctx, officerID)
	if err != nil {
		return nil, err
	}
	if state != "" {
		filters.State = &state
	}
	if filters.Status == nil {
		submitted := models.RegistrationSubmitted
		filters.Status = &submitted
	}
	return s.list(ctx, filters)
}

func (s *registrationService) DecideAtState(ctx context.Context, instituteUserID string, req *RegistrationDecisionRequest, officerID string) (*RegistrationResponse, error) {
	return s.decide(ctx, instituteUserID, req, officerID, registrationStateDesk)
}

// ===== MINISTRY DESK =====

func (s *registrationService) ListPendingForMinistry(ctx context.Context, filters repositories.RegistrationFilters) (*RegistrationListResponse, error) {
	if filters.Status == nil {
		staged := models.RegistrationStateApproved
		filters.Status = &staged
	}
	return s.list(ctx, filters)
}

func (s *registrationService) DecideAtMinistry(ctx context.Context, instituteUserID string, req *RegistrationDecisionRequest, officerID string) (*RegistrationResponse, error) {
	return s.decide(ctx, instituteUserID, req, officerID, registrationMinistryDesk)
}

// ===== TRANSITION ENGINE =====

// registrationDesk mirrors the application desk table for onboarding.
type registrationDesk struct {
	stage     models.Stage
	role      models.UserRole
	expected  models.RegistrationStatus
	approveTo models.RegistrationStatus
}

var (
	registrationStateDesk = registrationDesk{
		stage:     models.StageState,
		role:      models.RoleStateOfficer,
		expected:  models.RegistrationSubmitted,
		approveTo: models.RegistrationStateApproved,
	}
	registrationMinistryDesk = registrationDesk{
		stage:     models.StageMinistry,
		role:      models.RoleMinistry,
		expected:  models.RegistrationStateApproved,
		approveTo: models.RegistrationActive,
	}
)

func (s *registrationService) decide(ctx context.Context, instituteUserID string, req *RegistrationDecisionRequest, actorID string, d registrationDesk) (*RegistrationResponse, error) {
	if errs := s.validator.GetBusinessValidator().ValidateRegistrationDecision(req); len(errs) > 0 {
		return nil, errs
	}

	profile, err := s.repo.InstituteProfile().GetByUserID(ctx, nil, instituteUserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	if profile.RegistrationStatus == models.RegistrationActive {
		return nil, ErrInstituteAlreadyActive
	}
	if profile.RegistrationStatus.IsTerminal() {
		return nil, ErrRegistrationTerminal
	}
	if profile.RegistrationStatus != d.expected {
		if d.role == models.RoleMinistry && profile.RegistrationStatus == models.RegistrationSubmitted {
			// Ministry cannot leapfrog the state desk
			return nil, ErrRegistrationNotStaged
		}
		return nil, ErrStaleState
	}

	if d.role == models.RoleStateOfficer {
		state, err := s.officerState(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if state != "" && profile.State != state {
			return nil, ErrAccessDenied
		}
	}

	from := profile.RegistrationStatus
	target := d.approveTo
	if req.Decision == "REJECT" {
		target = models.RegistrationRejected
	}

	now := time.Now()
	switch d.stage {
	case models.StageState:
		profile.StateApprovalDate = &now
		profile.StateApprovalRemarks = &req.Remarks
		profile.StateApprovedBy = &actorID
	case models.StageMinistry:
		profile.MinistryApprovalDate = &now
		profile.MinistryApprovalRemarks = &req.Remarks
		profile.MinistryApprovedBy = &actorID
	}

	profile.RegistrationStatus = target
	profile.RegistrationApproved = target == models.RegistrationActive
	if err := s.repo.InstituteProfile().UpdateRegistrationGuarded(ctx, nil, profile, d.expected); err != nil {
		if repositories.IsStaleStatusError(err) {
			return nil, ErrStaleState
		}
		return nil, fmt.Errorf("failed to update registration status: %w", err)
	}

	s.logger.Info("Registration transitioned",
		"institute_user_id", profile.UserID,
		"from", from,
		"to", target,
		"actor_id", actorID)

	s.publishEvent(ctx, events.NewEvent(events.TypeRegistrationStatusChanged, &events.RegistrationStatusChangedEvent{
		InstituteUserID: profile.UserID,
		InstituteCode:   profile.InstituteCode,
		FromStatus:      from,
		ToStatus:        target,
		ActorID:         actorID,
		Remarks:         req.Remarks,
	}))

	return buildRegistrationResponse(profile), nil
}

func (s *registrationService) officerState(ctx context.Context, officerID string) (string, error) {
	user, err := s.repo.User().GetByID(ctx, officerID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve officer: %w", err)
	}
	return user.State, nil
}

func (s *registrationService) list(ctx context.Context, filters repositories.RegistrationFilters) (*RegistrationListResponse, error) {
	profiles, total, err := s.repo.InstituteProfile().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	responses := make([]*RegistrationResponse, len(profiles))
	for i, p := range profiles {
		responses[i] = buildRegistrationResponse(p)
	}
	return &RegistrationListResponse{Registrations: responses, Total: total}, nil
}

func (s *registrationService) publishEvent(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", event.Type, "error", err)
	}
}
