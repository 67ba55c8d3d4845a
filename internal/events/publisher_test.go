package events

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nsp-portal/scholarship-service/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewEventEnvelope(t *testing.T) {
	payload := ApplicationSubmittedEvent{
		ApplicationID: 12,
		StudentID:     "stu-1",
		SchemeID:      3,
		InstituteID:   "inst-1",
	}
	before := time.Now().UTC()
	event := NewEvent(TypeApplicationSubmitted, payload)

	if event.ID == "" {
		t.Error("event ID not assigned")
	}
	if event.Type != TypeApplicationSubmitted {
		t.Errorf("type = %q, want %q", event.Type, TypeApplicationSubmitted)
	}
	if event.Source != "scholarship-service" {
		t.Errorf("source = %q", event.Source)
	}
	if event.Version != "1.0" {
		t.Errorf("version = %q", event.Version)
	}
	if event.Timestamp.Before(before) || event.Timestamp.After(time.Now().UTC()) {
		t.Errorf("timestamp %v outside expected window", event.Timestamp)
	}
	got, ok := event.Data.(ApplicationSubmittedEvent)
	if !ok {
		t.Fatalf("data has type %T", event.Data)
	}
	if got.ApplicationID != 12 {
		t.Errorf("payload not carried through: %+v", got)
	}
}

func TestNewEventUniqueIDs(t *testing.T) {
	a := NewEvent(TypeApplicationSubmitted, nil)
	b := NewEvent(TypeApplicationSubmitted, nil)
	if a.ID == b.ID {
		t.Errorf("two events share ID %q", a.ID)
	}
}

func TestMockPublisherRecordsEvents(t *testing.T) {
	publisher := NewMockEventPublisher(testLogger())
	ctx := context.Background()

	first := NewEvent(TypeApplicationStatusChanged, ApplicationStatusChangedEvent{
		ApplicationID: 1,
		FromStatus:    models.StatusPendingInstituteVerification,
		ToStatus:      models.StatusPendingStateVerification,
		ActorRole:     models.RoleInstitute,
	})
	second := NewEvent(TypeRegistrationSubmitted, RegistrationStatusChangedEvent{
		InstituteUserID: "inst-1",
		ToStatus:        models.RegistrationSubmitted,
	})

	if err := publisher.Publish(ctx, first); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if err := publisher.Publish(ctx, second); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	got := publisher.GetPublishedEvents()
	if len(got) != 2 {
		t.Fatalf("recorded %d events, want 2", len(got))
	}
	if got[0].Type != TypeApplicationStatusChanged || got[1].Type != TypeRegistrationSubmitted {
		t.Errorf("events out of order: %q, %q", got[0].Type, got[1].Type)
	}
}

func TestMockPublisherReturnsCopy(t *testing.T) {
	publisher := NewMockEventPublisher(testLogger())
	_ = publisher.Publish(context.Background(), NewEvent(TypeApplicationSubmitted, nil))

	snapshot := publisher.GetPublishedEvents()
	snapshot[0] = nil

	if publisher.GetPublishedEvents()[0] == nil {
		t.Error("caller mutation leaked into the publisher's record")
	}
}

func TestMockPublisherClearEvents(t *testing.T) {
	publisher := NewMockEventPublisher(testLogger())
	_ = publisher.Publish(context.Background(), NewEvent(TypeApplicationSubmitted, nil))

	publisher.ClearEvents()

	if got := publisher.GetPublishedEvents(); len(got) != 0 {
		t.Errorf("expected empty record after clear, got %d events", len(got))
	}
}
