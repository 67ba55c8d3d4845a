package services

import (
	"errors"
	"fmt"

	"github.com/nsp-portal/scholarship-service/internal/models"
)

// Sentinel errors returned by the service layer. Handlers map them onto
// HTTP status codes.
var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrSchemeNotFound       = errors.New("scheme not found")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrRegistrationNotFound = errors.New("institute registration not found")

	ErrAccessDenied = errors.New("access denied")

	// ErrStaleState means a guarded update lost the race: the record moved
	// to a different status between read and write.
	ErrStaleState = errors.New("record was modified concurrently, re-read and retry")

	ErrSchemeClosed         = errors.New("scheme is not accepting applications")
	ErrDuplicateApplication = errors.New("student already has a live application for this scheme")
	ErrInstituteNotActive   = errors.New("declared institute is not an active participant")
	ErrProfileIncomplete    = errors.New("student profile is missing or incomplete")

	ErrRegistrationTerminal   = errors.New("registration is already in a terminal state")
	ErrInstituteAlreadyActive = errors.New("institute registration is already active")
	ErrRegistrationNotStaged  = errors.New("registration has not passed the state desk yet")
	ErrDuplicateRegistration  = errors.New("institute code is already registered")
	ErrDuplicateProfile       = errors.New("profile already exists for this user")

	ErrDocumentLocked = errors.New("documents cannot change after verification began")
)

// TransitionError reports an attempted move that is not an edge of the
// workflow graph.
type TransitionError struct {
	From models.ApplicationStatus
	To   models.ApplicationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal transition from %s to %s", e.From, e.To)
}

// IsTransitionError reports whether err is an illegal transition.
func IsTransitionError(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}

// IneligibleError carries the individual criteria the student failed.
type IneligibleError struct {
	Reasons []string
}

func (e *IneligibleError) Error() string {
	if len(e.Reasons) == 1 {
		return fmt.Sprintf("student is not eligible: %s", e.Reasons[0])
	}
	return fmt.Sprintf("student is not eligible: %d criteria failed", len(e.Reasons))
}

// IsIneligibleError reports whether err is an eligibility failure.
func IsIneligibleError(err error) bool {
	var ie *IneligibleError
	return errors.As(err, &ie)
}
