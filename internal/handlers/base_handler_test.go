package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nsp-portal/scholarship-service/internal/services"
	"github.com/nsp-portal/scholarship-service/internal/utils"
	"github.com/nsp-portal/scholarship-service/internal/validator"
)

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	return c, w
}

func TestHandleServiceErrorMapping(t *testing.T) {
	h := NewBaseHandler(testLogger())

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation errors", validator.ValidationErrors{{Field: "remarks", Message: "required"}}, http.StatusBadRequest},
		{"ineligible at submission", &services.IneligibleError{Reasons: []string{"category mismatch"}}, http.StatusBadRequest},
		{"scheme closed at submission", services.ErrSchemeClosed, http.StatusBadRequest},
		{"institute not active", services.ErrInstituteNotActive, http.StatusBadRequest},
		{"profile incomplete", services.ErrProfileIncomplete, http.StatusBadRequest},
		{"illegal transition", &services.TransitionError{}, http.StatusConflict},
		{"stale state", services.ErrStaleState, http.StatusConflict},
		{"duplicate application", services.ErrDuplicateApplication, http.StatusConflict},
		{"registration not staged", services.ErrRegistrationNotStaged, http.StatusConflict},
		{"already active", services.ErrInstituteAlreadyActive, http.StatusConflict},
		{"document locked", services.ErrDocumentLocked, http.StatusConflict},
		{"application not found", services.ErrApplicationNotFound, http.StatusNotFound},
		{"access denied", services.ErrAccessDenied, http.StatusForbidden},
		{"unexpected failure", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)
			h.handleServiceError(c, tt.err)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

type recordingLogger struct {
	utils.Logger
	messages []string
}

func (r *recordingLogger) Info(msg string, args ...any) {
	r.messages = append(r.messages, msg)
}

func (r *recordingLogger) With(args ...any) utils.Logger { return r }

func TestLogRequestUsesContextLogger(t *testing.T) {
	scoped := &recordingLogger{Logger: testLogger()}
	fallback := &recordingLogger{Logger: testLogger()}
	h := NewBaseHandler(fallback)

	c, _ := newTestContext(t)
	c.Set("logger", utils.Logger(scoped))
	h.LogRequest(c, "handled")
	if len(scoped.messages) != 1 || scoped.messages[0] != "handled" {
		t.Errorf("request-scoped logger not used: %v", scoped.messages)
	}

	c2, _ := newTestContext(t)
	h.LogRequest(c2, "fallback path")
	if len(fallback.messages) != 1 || fallback.messages[0] != "fallback path" {
		t.Errorf("fallback logger not used: %v", fallback.messages)
	}
}
