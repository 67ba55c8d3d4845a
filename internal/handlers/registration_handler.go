package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nsp-portal/scholarship-service/internal/services"
	"github.com/nsp-portal/scholarship-service/internal/utils"
	"github.com/nsp-portal/scholarship-service/internal/validator"
)

// RegistrationHandler serves institute onboarding: submission by the
// institute, then the state and ministry approval desks.
type RegistrationHandler struct {
	BaseHandler
	registrationService services.RegistrationService
	validator           *validator.Validator
}

func NewRegistrationHandler(
	registrationService services.RegistrationService,
	validator *validator.Validator,
	logger utils.Logger,
) *RegistrationHandler {
	return &RegistrationHandler{
		BaseHandler:         NewBaseHandler(logger),
		registrationService: registrationService,
		validator:           validator,
	}
}

// SubmitRegistration submits the institute's registration
// @Summary Submit registration
// @Description Submits (or resubmits after rejection) the institute's registration
// @Tags registrations
// @Accept json
// @Produce json
// @Param registration body services.InstituteRegistrationRequest true "Registration data"
// @Success 201 {object} services.RegistrationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /institute/registration [post]
func (h *RegistrationHandler) SubmitRegistration(c *gin.Context) {
	var req services.InstituteRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	actorID, _, ok := h.requireActor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Submitting institute registration", "institute_user_id", actorID, "institute_code", req.InstituteCode)

	reg, err := h.registrationService.SubmitRegistration(c.Request.Context(), &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reg)
}

// GetRegistration returns the authenticated institute's registration
// @Summary Get own registration
// @Description Returns the registration record of the authenticated institute
// @Tags registrations
// @Produce json
// @Success 200 {object} services.RegistrationResponse
// @Failure 404 {object} ErrorResponse
// @Router /institute/registration [get]
func (h *RegistrationHandler) GetRegistration(c *gin.Context) {
	actorID, _, ok := h.requireActor(c)
	if !ok {
		return
	}

	reg, err := h.registrationService.GetRegistration(c.Request.Context(), actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reg)
}

// ListPendingForState lists registrations awaiting state approval
// @Summary State registration queue
// @Description Lists submitted registrations in the officer's jurisdiction
// @Tags registrations
// @Produce json
// @Success 200 {object} services.RegistrationListResponse
// @Failure 401 {object} ErrorResponse
// @Router /state/registrations [get]
func (h *RegistrationHandler) ListPendingForState(c *gin.Context) {
	actorID, _, ok := h.requireActor(c)
	if !ok {
		return
	}

	list, err := h.registrationService.ListPendingForState(c.Request.Context(), actorID, parseRegistrationFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// DecideRegistrationAtState records the state officer's registration decision
// @Summary State registration decision
// @Description Approves or rejects an institute registration at the state desk
// @Tags registrations
// @Accept json
// @Produce json
// @Param userId path string true "Institute user ID"
// @Param decision body services.RegistrationDecisionRequest true "Decision"
// @Success 200 {object} services.RegistrationResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /state/registrations/{userId}/decision [post]
func (h *RegistrationHandler) DecideRegistrationAtState(c *gin.Context) {
	h.decideRegistration(c, h.registrationService.DecideAtState)
}

// ListPendingForMinistry lists registrations awaiting ministry activation
// @Summary Ministry registration queue
// @Description Lists state-approved registrations awaiting ministry activation
// @Tags registrations
// @Produce json
// @Success 200 {object} services.RegistrationListResponse
// @Failure 401 {object} ErrorResponse
// @Router /ministry/registrations [get]
func (h *RegistrationHandler) ListPendingForMinistry(c *gin.Context) {
	_, _, ok := h.requireActor(c)
	if !ok {
		return
	}

	list, err := h.registrationService.ListPendingForMinistry(c.Request.Context(), parseRegistrationFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// DecideRegistrationAtMinistry records the ministry's registration decision
// @Summary Ministry registration decision
// @Description Activates or rejects an institute registration at the ministry desk
// @Tags registrations
// @Accept json
// @Produce json
// @Param userId path string true "Institute user ID"
// @Param decision body services.RegistrationDecisionRequest true "Decision"
// @Success 200 {object} services.RegistrationResponse
// @Failure 409 {object} ErrorResponse
// @Router /ministry/registrations/{userId}/decision [post]
func (h *RegistrationHandler) DecideRegistrationAtMinistry(c *gin.Context) {
	h.decideRegistration(c, h.registrationService.DecideAtMinistry)
}

type registrationDecideFunc func(ctx context.Context, instituteUserID string, req *services.RegistrationDecisionRequest, actorID string) (*services.RegistrationResponse, error)

func (h *RegistrationHandler) decideRegistration(c *gin.Context, fn registrationDecideFunc) {
	instituteUserID := c.Param("userId")
	if instituteUserID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing institute user ID",
		})
		return
	}

	var req services.RegistrationDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	actorID, _, ok := h.requireActor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Recording registration decision", "institute_user_id", instituteUserID, "decision", req.Decision)

	reg, err := fn(c.Request.Context(), instituteUserID, &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reg)
}
