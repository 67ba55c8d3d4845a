package models

import (
	"errors"
	"testing"
	"time"
)

func TestApplicationStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from ApplicationStatus
		to   ApplicationStatus
		want bool
	}{
		{"applied to institute queue", StatusApplied, StatusPendingInstituteVerification, true},
		{"institute approve", StatusPendingInstituteVerification, StatusPendingStateVerification, true},
		{"institute reject", StatusPendingInstituteVerification, StatusRejectedByInstitute, true},
		{"state approve", StatusPendingStateVerification, StatusPendingMinistryApproval, true},
		{"state reject", StatusPendingStateVerification, StatusRejectedByState, true},
		{"ministry grant", StatusPendingMinistryApproval, StatusGranted, true},
		{"ministry reject", StatusPendingMinistryApproval, StatusRejectedByMinistry, true},

		{"skip institute desk", StatusPendingInstituteVerification, StatusPendingMinistryApproval, false},
		{"skip to granted", StatusPendingInstituteVerification, StatusGranted, false},
		{"backwards", StatusPendingStateVerification, StatusPendingInstituteVerification, false},
		{"out of terminal reject", StatusRejectedByState, StatusPendingMinistryApproval, false},
		{"out of granted", StatusGranted, StatusPendingMinistryApproval, false},
		{"self loop", StatusPendingStateVerification, StatusPendingStateVerification, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestApplicationStatusIsTerminal(t *testing.T) {
	terminal := []ApplicationStatus{
		StatusRejectedByInstitute,
		StatusRejectedByState,
		StatusRejectedByMinistry,
		StatusGranted,
	}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
		if len(s.Next()) != 0 {
			t.Errorf("expected no transitions out of %s, got %v", s, s.Next())
		}
	}

	live := []ApplicationStatus{
		StatusApplied,
		StatusPendingInstituteVerification,
		StatusPendingStateVerification,
		StatusPendingMinistryApproval,
	}
	for _, s := range live {
		if s.IsTerminal() {
			t.Errorf("expected %s not to be terminal", s)
		}
		if len(s.Next()) == 0 {
			t.Errorf("expected transitions out of %s", s)
		}
	}
}

func TestApplicationStatusValid(t *testing.T) {
	all := []ApplicationStatus{
		StatusApplied,
		StatusPendingInstituteVerification,
		StatusRejectedByInstitute,
		StatusPendingStateVerification,
		StatusRejectedByState,
		StatusPendingMinistryApproval,
		StatusRejectedByMinistry,
		StatusGranted,
	}
	for _, s := range all {
		if !s.Valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}

	if ApplicationStatus("UNDER_REVIEW").Valid() {
		t.Error("expected unknown status to be invalid")
	}
	if ApplicationStatus("").Valid() {
		t.Error("expected empty status to be invalid")
	}
}

func TestRecordStagePopulatesOnce(t *testing.T) {
	app := &ScholarshipApplication{Status: StatusPendingInstituteVerification}
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if app.StageRecorded(StageInstitute) {
		t.Fatal("fresh application should have no institute stamp")
	}

	if err := app.RecordStage(StageInstitute, "documents verified", "inst-1", at); err != nil {
		t.Fatalf("first RecordStage failed: %v", err)
	}

	if !app.StageRecorded(StageInstitute) {
		t.Error("institute stamp not recorded")
	}
	if app.InstituteVerificationDate == nil || !app.InstituteVerificationDate.Equal(at) {
		t.Errorf("unexpected verification date: %v", app.InstituteVerificationDate)
	}
	if app.InstituteVerifiedBy == nil || *app.InstituteVerifiedBy != "inst-1" {
		t.Errorf("unexpected verifier: %v", app.InstituteVerifiedBy)
	}
	if app.InstituteVerificationRemarks == nil || *app.InstituteVerificationRemarks != "documents verified" {
		t.Errorf("unexpected remarks: %v", app.InstituteVerificationRemarks)
	}

	// The slot is write-once: a second stamp must fail and change nothing.
	err := app.RecordStage(StageInstitute, "second attempt", "inst-2", at.Add(time.Hour))
	if !errors.Is(err, ErrStageAlreadyRecorded) {
		t.Fatalf("expected ErrStageAlreadyRecorded, got %v", err)
	}
	if *app.InstituteVerifiedBy != "inst-1" {
		t.Errorf("slot overwritten by second stamp: %s", *app.InstituteVerifiedBy)
	}

	// Other slots stay independent
	if app.StageRecorded(StageState) || app.StageRecorded(StageMinistry) {
		t.Error("unrelated slots should stay empty")
	}
	if err := app.RecordStage(StageState, "", "officer-1", at.Add(time.Hour)); err != nil {
		t.Fatalf("state stamp failed: %v", err)
	}
	if err := app.RecordStage(StageMinistry, "granted", "ministry-1", at.Add(2*time.Hour)); err != nil {
		t.Fatalf("ministry stamp failed: %v", err)
	}
}

func TestRecordStageUnknownStage(t *testing.T) {
	app := &ScholarshipApplication{}
	if err := app.RecordStage(Stage("DISTRICT"), "", "x", time.Now()); err == nil {
		t.Error("expected error for unknown stage")
	}
}

func TestRegistrationStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status RegistrationStatus
		want   bool
	}{
		{RegistrationSubmitted, false},
		{RegistrationStateApproved, false},
		{RegistrationActive, true},
		{RegistrationRejected, true},
	}
	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.want {
			t.Errorf("IsTerminal(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestSchemeOpenAt(t *testing.T) {
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	scheme := &ScholarshipScheme{
		IsActive:             true,
		ApplicationStartDate: start,
		ApplicationEndDate:   end,
	}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before window", start.AddDate(0, 0, -1), false},
		{"first day", start, true},
		{"mid window", time.Date(2026, 5, 15, 10, 30, 0, 0, time.UTC), true},
		{"last day", end.Add(23 * time.Hour), true},
		{"after window", end.AddDate(0, 0, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scheme.OpenAt(tt.at); got != tt.want {
				t.Errorf("OpenAt(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}

	scheme.IsActive = false
	if scheme.OpenAt(start.AddDate(0, 1, 0)) {
		t.Error("inactive scheme should never be open")
	}
}
