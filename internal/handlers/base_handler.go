package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nsp-portal/scholarship-service/internal/models"
	"github.com/nsp-portal/scholarship-service/internal/services"
	"github.com/nsp-portal/scholarship-service/internal/utils"
	"github.com/nsp-portal/scholarship-service/internal/validator"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps successful payloads.
type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries the pieces every resource handler needs.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs with the request-scoped logger when one is present.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.LoggerFromContext(c, h.logger).Info(msg, args...)
}

// parseIDParam reads a positive integer path parameter; on failure it
// writes a 400 and returns 0.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
		})
		return 0
	}
	return uint(id)
}

// requireActor pulls the authenticated identity out of the context.
func (h *BaseHandler) requireActor(c *gin.Context) (string, models.UserRole, bool) {
	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", "", false
	}
	role, err := GetUserRoleFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", "", false
	}
	return actorID, role, true
}

// handleServiceError maps service layer errors onto HTTP status codes.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var transitionError *services.TransitionError
	if errors.As(err, &transitionError) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: transitionError.Error(),
		})
		return
	}

	var ineligible *services.IneligibleError
	if errors.As(err, &ineligible) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Student does not meet the scheme criteria",
			Details: ineligible.Reasons,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrApplicationNotFound),
		errors.Is(err, services.ErrSchemeNotFound),
		errors.Is(err, services.ErrDocumentNotFound),
		errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrRegistrationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrAccessDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
		})
	case errors.Is(err, services.ErrStaleState):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrDuplicateApplication),
		errors.Is(err, services.ErrDuplicateRegistration),
		errors.Is(err, services.ErrDuplicateProfile),
		errors.Is(err, services.ErrRegistrationTerminal),
		errors.Is(err, services.ErrInstituteAlreadyActive),
		errors.Is(err, services.ErrRegistrationNotStaged),
		errors.Is(err, services.ErrDocumentLocked):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrSchemeClosed),
		errors.Is(err, services.ErrInstituteNotActive),
		errors.Is(err, services.ErrProfileIncomplete):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: err.Error(),
		})
	default:
		h.logger.Error("Unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
