package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/nsp-portal/scholarship-service/internal/models"
)

const (
	eventSource  = "scholarship-service"
	eventVersion = "1.0"
)

// Event types published on the workflow topic.
const (
	TypeApplicationSubmitted      = "application.submitted"
	TypeApplicationStatusChanged  = "application.status_changed"
	TypeRegistrationSubmitted     = "registration.submitted"
	TypeRegistrationStatusChanged = "registration.status_changed"
)

// Event is the envelope every published message uses.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent wraps a payload in a fresh envelope.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// ApplicationStatusChangedEvent announces one workflow transition.
type ApplicationStatusChangedEvent struct {
	ApplicationID uint                     `json:"application_id"`
	StudentID     string                   `json:"student_id"`
	SchemeID      uint                     `json:"scheme_id"`
	FromStatus    models.ApplicationStatus `json:"from_status"`
	ToStatus      models.ApplicationStatus `json:"to_status"`
	ActorID       string                   `json:"actor_id"`
	ActorRole     models.UserRole          `json:"actor_role"`
	Remarks       string                   `json:"remarks,omitempty"`
}

// ApplicationSubmittedEvent announces a brand new application.
type ApplicationSubmittedEvent struct {
	ApplicationID uint   `json:"application_id"`
	StudentID     string `json:"student_id"`
	SchemeID      uint   `json:"scheme_id"`
	InstituteID   string `json:"institute_id"`
}

// RegistrationStatusChangedEvent announces an onboarding transition.
type RegistrationStatusChangedEvent struct {
	InstituteUserID string                    `json:"institute_user_id"`
	InstituteCode   string                    `json:"institute_code"`
	FromStatus      models.RegistrationStatus `json:"from_status"`
	ToStatus        models.RegistrationStatus `json:"to_status"`
	ActorID         string                    `json:"actor_id"`
	Remarks         string                    `json:"remarks,omitempty"`
}
