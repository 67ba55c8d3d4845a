package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nsp-portal/scholarship-service/internal/services"
	"github.com/nsp-portal/scholarship-service/internal/utils"
	"github.com/nsp-portal/scholarship-service/internal/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WorkflowHandler serves the three review desks: institute verification,
// state verification and ministry approval.
type WorkflowHandler struct {
	BaseHandler
	workflowService    services.WorkflowService
	applicationService services.ApplicationService
	validator          *validator.Validator
}

func NewWorkflowHandler(
	workflowService services.WorkflowService,
	applicationService services.ApplicationService,
	validator *validator.Validator,
	logger utils.Logger,
) *WorkflowHandler {
	return &WorkflowHandler{
		BaseHandler:        NewBaseHandler(logger),
		workflowService:    workflowService,
		applicationService: applicationService,
		validator:          validator,
	}
}

// ListInstituteQueue lists applications pending at the institute desk
// @Summary Institute review queue
// @Description Lists applications pending verification at the authenticated institute
// @Tags workflow
// @Produce json
// @Success 200 {object} services.ApplicationListResponse
// @Failure 401 {object} ErrorResponse
// @Router /institute/applications [get]
func (h *WorkflowHandler) ListInstituteQueue(c *gin.Context) {
	actorID, _, ok := h.requireActor(c)
	if !ok {
		return
	}

	list, err := h.workflowService.ListInstituteQueue(c.Request.Context(), actorID, parseApplicationFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// DecideAtInstitute records the institute's verification decision
// @Summary Institute decision
// @Description Approves or rejects an application at the institute desk
// @Tags workflow
// @Accept json
// @Produce json
// @Param id path uint true "Application ID"
// @Param decision body services.ReviewDecisionRequest true "Decision"
// @Success 200 {object} services.ApplicationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /institute/applications/{id}/decision [post]
func (h *WorkflowHandler) DecideAtInstitute(c *gin.Context) {
	h.decide(c, h.workflowService.DecideAtInstitute)
}

// VerifyDocument marks a document as verified by the institute
// @Summary Verify document
// @Description Marks one of an application's documents as verified
// @Tags workflow
// @Accept json
// @Produce json
// @Param id path uint true "Application ID"
// @Param docId path uint true "Document ID"
// @Param verification body services.VerifyDocumentRequest true "Verification remarks"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /institute/applications/{id}/documents/{docId}/verify [post]
func (h *WorkflowHandler) VerifyDocument(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	docID := h.parseIDParam(c, "docId")
	if docID == 0 {
		return
	}

	var req services.VerifyDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	actorID, role, ok := h.requireActor(c)
	if !ok {
		return
	}

	if err := h.applicationService.VerifyDocument(c.Request.Context(), id, docID, &req, actorID, role); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Document verified"})
}

// ListStateQueue lists applications pending at the state desk
// @Summary State review queue
// @Description Lists applications pending state verification in the officer's jurisdiction
// @Tags workflow
// @Produce json
// @Success 200 {object} services.ApplicationListResponse
// @Failure 401 {object} ErrorResponse
// @Router /state/applications [get]
func (h *WorkflowHandler) ListStateQueue(c *gin.Context) {
	actorID, _, ok := h.requireActor(c)
	if !ok {
		return
	}

	list, err := h.workflowService.ListStateQueue(c.Request.Context(), actorID, parseApplicationFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// DecideAtState records the state officer's decision
// @Summary State decision
// @Description Approves or rejects an application at the state desk
// @Tags workflow
// @Accept json
// @Produce json
// @Param id path uint true "Application ID"
// @Param decision body services.ReviewDecisionRequest true "Decision"
// @Success 200 {object} services.ApplicationResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /state/applications/{id}/decision [post]
func (h *WorkflowHandler) DecideAtState(c *gin.Context) {
	h.decide(c, h.workflowService.DecideAtState)
}

// ListMinistryQueue lists applications pending ministry approval
// @Summary Ministry review queue
// @Description Lists applications pending final ministry approval
// @Tags workflow
// @Produce json
// @Success 200 {object} services.ApplicationListResponse
// @Failure 401 {object} ErrorResponse
// @Router /ministry/applications [get]
func (h *WorkflowHandler) ListMinistryQueue(c *gin.Context) {
	_, _, ok := h.requireActor(c)
	if !ok {
		return
	}

	list, err := h.workflowService.ListMinistryQueue(c.Request.Context(), parseApplicationFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// DecideAtMinistry records the ministry's final decision
// @Summary Ministry decision
// @Description Grants or rejects an application at the ministry desk
// @Tags workflow
// @Accept json
// @Produce json
// @Param id path uint true "Application ID"
// @Param decision body services.ReviewDecisionRequest true "Decision"
// @Success 200 {object} services.ApplicationResponse
// @Failure 409 {object} ErrorResponse
// @Router /ministry/applications/{id}/decision [post]
func (h *WorkflowHandler) DecideAtMinistry(c *gin.Context) {
	h.decide(c, h.workflowService.DecideAtMinistry)
}

// ExportApplications streams the filtered listing as an xlsx workbook
// @Summary Export applications
// @Description Exports the filtered application listing as an Excel workbook
// @Tags workflow
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 401 {object} ErrorResponse
// @Router /ministry/applications/export [get]
func (h *WorkflowHandler) ExportApplications(c *gin.Context) {
	actorID, _, ok := h.requireActor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting applications", "actor_id", actorID)

	data, err := h.workflowService.ExportApplications(c.Request.Context(), parseApplicationFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("applications-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

type decideFunc func(ctx context.Context, applicationID uint, req *services.ReviewDecisionRequest, actorID string) (*services.ApplicationResponse, error)

func (h *WorkflowHandler) decide(c *gin.Context, fn decideFunc) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.ReviewDecisionRequest
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

	h.LogRequest(c, "Recording review decision", "application_id", id, "decision", req.Decision)

	app, err := fn(c.Request.Context(), id, &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}
