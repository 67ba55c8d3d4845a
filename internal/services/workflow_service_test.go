package services

import (
	"context"
	"errors"
	"testing"

	"github.com/nsp-portal/scholarship-service/internal/events"
	"github.com/nsp-portal/scholarship-service/internal/models"
	"github.com/nsp-portal/scholarship-service/internal/repositories"
	"github.com/nsp-portal/scholarship-service/internal/validator"
)

func newWorkflowFixture() (WorkflowService, *mockRepository, *events.MockEventPublisher) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewWorkflowService(repo, nil, testLogger(), validator.New(), publisher)
	return svc, repo, publisher
}

func seedApplication(repo *mockRepository, status models.ApplicationStatus) *models.ScholarshipApplication {
	app := &models.ScholarshipApplication{
		StudentID:   "stu-1",
		SchemeID:    1,
		InstituteID: "inst-1",
		Status:      status,
	}
	_ = repo.application.Create(context.Background(), nil, app)
	return app
}

func TestDecideAtInstituteApprove(t *testing.T) {
	svc, repo, publisher := newWorkflowFixture()
	app := seedApplication(repo, models.StatusPendingInstituteVerification)

	resp, err := svc.DecideAtInstitute(context.Background(), app.ID, &ReviewDecisionRequest{
		Decision: "APPROVE",
		Remarks:  "all documents verified",
	}, "inst-1")
	if err != nil {
		t.Fatalf("decide failed: %v", err)
	}

	if resp.Status != models.StatusPendingStateVerification {
		t.Errorf("status = %s, want %s", resp.Status, models.StatusPendingStateVerification)
	}
	if !resp.StageRecorded(models.StageInstitute) {
		t.Error("institute audit slot not stamped")
	}
	if resp.InstituteVerifiedBy == nil || *resp.InstituteVerifiedBy != "inst-1" {
		t.Errorf("unexpected verifier: %v", resp.InstituteVerifiedBy)
	}

	stored, _ := repo.application.GetByID(context.Background(), nil, app.ID)
	if stored.Status != models.StatusPendingStateVerification {
		t.Errorf("persisted status = %s", stored.Status)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(published))
	}
	if published[0].Type != events.TypeApplicationStatusChanged {
		t.Errorf("event type = %s", published[0].Type)
	}
}

func TestDecideAtInstituteReject(t *testing.T) {
	svc, repo, _ := newWorkflowFixture()
	app := seedApplication(repo, models.StatusPendingInstituteVerification)

	resp, err := svc.DecideAtInstitute(context.Background(), app.ID, &ReviewDecisionRequest{
		Decision: "REJECT",
		Remarks:  "income certificate missing",
	}, "inst-1")
	if err != nil {
		t.Fatalf("decide failed: %v", err)
	}

	if resp.Status != models.StatusRejectedByInstitute {
		t.Errorf("status = %s, want %s", resp.Status, models.StatusRejectedByInstitute)
	}
	if !resp.Status.IsTerminal() {
		t.Error("rejection should be terminal")
	}
}

func TestDecideRejectRequiresRemarks(t *testing.T) {
	svc, repo, publisher := newWorkflowFixture()
	app := seedApplication(repo, models.StatusPendingInstituteVerification)

	_, err := svc.DecideAtInstitute(context.Background(), app.ID, &ReviewDecisionRequest{
		Decision: "REJECT",
	}, "inst-1")

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}

	stored, _ := repo.application.GetByID(context.Background(), nil, app.ID)
	if stored.Status != models.StatusPendingInstituteVerification {
		t.Errorf("status changed despite invalid request: %s", stored.Status)
	}
	if len(publisher.GetPublishedEvents()) != 0 {
		t.Error("no event should be published for a refused decision")
	}
}

func TestDecideWrongDesk(t *testing.T) {
	svc, repo, _ := newWorkflowFixture()

	// Already past the institute desk
	app := seedApplication(repo, models.StatusPendingStateVerification)

	_, err := svc.DecideAtInstitute(context.Background(), app.ID, &ReviewDecisionRequest{
		Decision: "APPROVE",
	}, "inst-1")

	var terr *TransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if terr.From != models.StatusPendingStateVerification {
		t.Errorf("TransitionError.From = %s", terr.From)
	}
}

func TestDecideTerminalApplication(t *testing.T) {
	svc, repo, _ := newWorkflowFixture()
	app := seedApplication(repo, models.StatusGranted)

	_, err := svc.DecideAtMinistry(context.Background(), app.ID, &ReviewDecisionRequest{
		Decision: "APPROVE",
	}, "ministry-1")

	var terr *TransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
}

func TestDecideAtInstituteWrongInstitute(t *testing.T) {
	svc, repo, _ := newWorkflowFixture()
	app := seedApplication(repo, models.StatusPendingInstituteVerification)

	_, err := svc.DecideAtInstitute(context.Background(), app.ID, &ReviewDecisionRequest{
		Decision: "APPROVE",
	}, "inst-other")

	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestDecideAtStateJurisdiction(t *testing.T) {
	svc, repo, _ := newWorkflowFixture()
	repo.studentProfile.profiles["stu-1"] = &models.StudentProfile{UserID: "stu-1", DomicileState: "Karnataka"}
	repo.user.users["off-ka"] = &models.User{ID: "off-ka", Role: models.RoleStateOfficer, State: "Karnataka"}
	repo.user.users["off-kl"] = &models.User{ID: "off-kl", Role: models.RoleStateOfficer, State: "Kerala"}
	repo.user.users["off-national"] = &models.User{ID: "off-national", Role: models.RoleStateOfficer}

	t.Run("out of jurisdiction", func(t *testing.T) {
		app := seedApplication(repo, models.StatusPendingStateVerification)
		_, err := svc.DecideAtState(context.Background(), app.ID, &ReviewDecisionRequest{Decision: "APPROVE"}, "off-kl")
		if !errors.Is(err, ErrAccessDenied) {
			t.Fatalf("expected ErrAccessDenied, got %v", err)
		}
	})

	t.Run("matching jurisdiction", func(t *testing.T) {
		app := seedApplication(repo, models.StatusPendingStateVerification)
		resp, err := svc.DecideAtState(context.Background(), app.ID, &ReviewDecisionRequest{Decision: "APPROVE"}, "off-ka")
		if err != nil {
			t.Fatalf("decide failed: %v", err)
		}
		if resp.Status != models.StatusPendingMinistryApproval {
			t.Errorf("status = %s", resp.Status)
		}
	})

	t.Run("officer without state sees all applications", func(t *testing.T) {
		app := seedApplication(repo, models.StatusPendingStateVerification)
		if _, err := svc.DecideAtState(context.Background(), app.ID, &ReviewDecisionRequest{Decision: "APPROVE"}, "off-national"); err != nil {
			t.Fatalf("decide failed: %v", err)
		}
	})
}

func TestDecideConcurrentReviewerLoses(t *testing.T) {
	svc, repo, publisher := newWorkflowFixture()
	app := seedApplication(repo, models.StatusPendingInstituteVerification)
	repo.application.staleOnUpdate = true

	_, err := svc.DecideAtInstitute(context.Background(), app.ID, &ReviewDecisionRequest{
		Decision: "APPROVE",
	}, "inst-1")

	if !errors.Is(err, ErrStaleState) {
		t.Fatalf("expected ErrStaleState, got %v", err)
	}
	if len(publisher.GetPublishedEvents()) != 0 {
		t.Error("losing reviewer must not publish an event")
	}
}

func TestDecideStampedButPendingIsStale(t *testing.T) {
	svc, repo, _ := newWorkflowFixture()

	// Slot already written while the status still looks pending: the audit
	// invariant wins and the decision is refused.
	app := seedApplication(repo, models.StatusPendingInstituteVerification)
	stored := repo.application.apps[app.ID]
	when := stored.CreatedAt
	_ = stored.RecordStage(models.StageInstitute, "earlier pass", "inst-1", when)

	_, err := svc.DecideAtInstitute(context.Background(), app.ID, &ReviewDecisionRequest{
		Decision: "APPROVE",
	}, "inst-1")

	if !errors.Is(err, ErrStaleState) {
		t.Fatalf("expected ErrStaleState, got %v", err)
	}
}

func TestDecideAtMinistryGrant(t *testing.T) {
	svc, repo, publisher := newWorkflowFixture()
	app := seedApplication(repo, models.StatusPendingMinistryApproval)

	resp, err := svc.DecideAtMinistry(context.Background(), app.ID, &ReviewDecisionRequest{
		Decision: "APPROVE",
		Remarks:  "sanctioned",
	}, "ministry-1")
	if err != nil {
		t.Fatalf("decide failed: %v", err)
	}

	if resp.Status != models.StatusGranted {
		t.Errorf("status = %s, want GRANTED", resp.Status)
	}
	if !resp.StageRecorded(models.StageMinistry) {
		t.Error("ministry audit slot not stamped")
	}
	if len(resp.NextActions) != 0 {
		t.Errorf("granted application should offer no further actions, got %v", resp.NextActions)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(published))
	}
}

func TestDecideUnknownApplication(t *testing.T) {
	svc, _, _ := newWorkflowFixture()

	_, err := svc.DecideAtInstitute(context.Background(), 999, &ReviewDecisionRequest{
		Decision: "APPROVE",
	}, "inst-1")

	if !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
}

func TestListInstituteQueueDefaults(t *testing.T) {
	svc, repo, _ := newWorkflowFixture()

	if _, err := svc.ListInstituteQueue(context.Background(), "inst-1", repositories.ApplicationFilters{}); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	filters := repo.application.lastFilters
	if filters.InstituteID == nil || *filters.InstituteID != "inst-1" {
		t.Error("queue must be scoped to the institute")
	}
	if filters.Status == nil || *filters.Status != models.StatusPendingInstituteVerification {
		t.Error("queue must default to the pending status")
	}
}

func TestListStateQueueScopedToJurisdiction(t *testing.T) {
	svc, repo, _ := newWorkflowFixture()
	repo.user.users["off-ka"] = &models.User{ID: "off-ka", Role: models.RoleStateOfficer, State: "Karnataka"}
	repo.user.users["off-national"] = &models.User{ID: "off-national", Role: models.RoleStateOfficer}

	if _, err := svc.ListStateQueue(context.Background(), "off-ka", repositories.ApplicationFilters{}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	filters := repo.application.lastFilters
	if filters.DomicileState == nil || *filters.DomicileState != "Karnataka" {
		t.Error("queue must be scoped to the officer's state")
	}
	if filters.Status == nil || *filters.Status != models.StatusPendingStateVerification {
		t.Error("queue must default to the pending status")
	}

	if _, err := svc.ListStateQueue(context.Background(), "off-national", repositories.ApplicationFilters{}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.application.lastFilters.DomicileState != nil {
		t.Error("officer without a state must see the national queue")
	}
}

func TestExportApplicationsPages(t *testing.T) {
	svc, repo, _ := newWorkflowFixture()

	page1 := make([]*models.ScholarshipApplication, 100)
	for i := range page1 {
		page1[i] = &models.ScholarshipApplication{ID: uint(i + 1), StudentID: "stu-1", Status: models.StatusGranted}
	}
	page2 := []*models.ScholarshipApplication{{ID: 101, StudentID: "stu-2", Status: models.StatusGranted}}
	repo.application.listPages = [][]*models.ScholarshipApplication{page1, page2}
	repo.application.listTotal = 101

	data, err := svc.ExportApplications(context.Background(), repositories.ApplicationFilters{})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected workbook bytes")
	}
	if repo.application.listCalls != 2 {
		t.Errorf("expected 2 pages fetched, got %d", repo.application.listCalls)
	}
	if repo.application.lastFilters.Limit != 100 {
		t.Errorf("export must page at the repository cap, got limit %d", repo.application.lastFilters.Limit)
	}
}

func TestGrantRoundTrip(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	v := validator.New()
	appSvc := NewApplicationService(repo, nil, testLogger(), v, publisher, ApplicationConfig{
		DocumentLockAfterVerification: true,
		MaxDocumentSizeBytes:          5 << 20,
	})
	wfSvc := NewWorkflowService(repo, nil, testLogger(), v, publisher)
	seedSubmissionWorld(repo, nil)
	repo.user.users["off-ka"] = &models.User{ID: "off-ka", Role: models.RoleStateOfficer, State: "Karnataka"}

	submitted, err := appSvc.Submit(context.Background(), validSubmitRequest(), "stu-1")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	appliedOn := submitted.ApplicationDate

	approve := &ReviewDecisionRequest{Decision: "APPROVE", Remarks: "checked"}
	if _, err := wfSvc.DecideAtInstitute(context.Background(), submitted.ID, approve, "inst-1"); err != nil {
		t.Fatalf("institute approval failed: %v", err)
	}
	if _, err := wfSvc.DecideAtState(context.Background(), submitted.ID, approve, "off-ka"); err != nil {
		t.Fatalf("state approval failed: %v", err)
	}
	granted, err := wfSvc.DecideAtMinistry(context.Background(), submitted.ID, approve, "ministry-1")
	if err != nil {
		t.Fatalf("ministry grant failed: %v", err)
	}

	if granted.Status != models.StatusGranted {
		t.Fatalf("status = %s, want GRANTED", granted.Status)
	}
	if granted.InstituteVerificationDate == nil || granted.StateVerificationDate == nil || granted.MinistryApprovalDate == nil {
		t.Fatal("all three audit slots must be stamped after a full grant")
	}
	if granted.StateVerificationDate.Before(*granted.InstituteVerificationDate) ||
		granted.MinistryApprovalDate.Before(*granted.StateVerificationDate) {
		t.Error("audit dates must be non-decreasing along the pipeline")
	}
	if !granted.ApplicationDate.Equal(appliedOn) {
		t.Errorf("application date changed during review: %v vs %v", granted.ApplicationDate, appliedOn)
	}

	// No further mutation once terminal
	if _, err := wfSvc.DecideAtMinistry(context.Background(), submitted.ID, approve, "ministry-1"); err == nil {
		t.Error("granted application accepted another decision")
	}
}

func TestRejectionBlocksLaterGrant(t *testing.T) {
	svc, repo, _ := newWorkflowFixture()
	app := seedApplication(repo, models.StatusPendingStateVerification)
	repo.user.users["off-ka"] = &models.User{ID: "off-ka", Role: models.RoleStateOfficer}

	if _, err := svc.DecideAtState(context.Background(), app.ID, &ReviewDecisionRequest{
		Decision: "REJECT",
		Remarks:  "income mismatch",
	}, "off-ka"); err != nil {
		t.Fatalf("state rejection failed: %v", err)
	}

	_, err := svc.DecideAtMinistry(context.Background(), app.ID, &ReviewDecisionRequest{
		Decision: "APPROVE",
		Remarks:  "grant",
	}, "ministry-1")
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransitionError after rejection, got %v", err)
	}
	if te.From != models.StatusRejectedByState {
		t.Errorf("transition error from %s, want REJECTED_BY_STATE", te.From)
	}
}
