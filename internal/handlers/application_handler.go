package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nsp-portal/scholarship-service/internal/services"
	"github.com/nsp-portal/scholarship-service/internal/utils"
	"github.com/nsp-portal/scholarship-service/internal/validator"
)

type ApplicationHandler struct {
	BaseHandler
	applicationService services.ApplicationService
	validator          *validator.Validator
}

func NewApplicationHandler(
	applicationService services.ApplicationService,
	validator *validator.Validator,
	logger utils.Logger,
) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        NewBaseHandler(logger),
		applicationService: applicationService,
		validator:          validator,
	}
}

// SubmitApplication submits a new scholarship application
// @Summary Submit application
// @Description Submits a scholarship application for the authenticated student
// @Tags applications
// @Accept json
// @Produce json
// @Param application body services.SubmitApplicationRequest true "Application data"
// @Success 201 {object} services.ApplicationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /applications [post]
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	var req services.SubmitApplicationRequest
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

	h.LogRequest(c, "Submitting application", "student_id", actorID, "scheme_id", req.SchemeID)

	app, err := h.applicationService.Submit(c.Request.Context(), &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

// GetApplication retrieves an application by ID
// @Summary Get application
// @Description Retrieves an application visible to the authenticated actor
// @Tags applications
// @Accept json
// @Produce json
// @Param id path uint true "Application ID"
// @Success 200 {object} services.ApplicationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /applications/{id} [get]
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	actorID, role, ok := h.requireActor(c)
	if !ok {
		return
	}

	app, err := h.applicationService.GetByID(c.Request.Context(), id, actorID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// ListMyApplications lists the authenticated student's applications
// @Summary List own applications
// @Description Lists applications submitted by the authenticated student
// @Tags applications
// @Accept json
// @Produce json
// @Param status query string false "Status filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} services.ApplicationListResponse
// @Failure 401 {object} ErrorResponse
// @Router /applications [get]
func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	actorID, _, ok := h.requireActor(c)
	if !ok {
		return
	}

	filters := parseApplicationFilters(c)

	list, err := h.applicationService.ListForStudent(c.Request.Context(), actorID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// AttachDocument attaches a supporting document to an application
// @Summary Attach document
// @Description Registers an uploaded document against the student's application
// @Tags applications
// @Accept json
// @Produce json
// @Param id path uint true "Application ID"
// @Param document body services.UploadDocumentRequest true "Document metadata"
// @Success 201 {object} models.ApplicationDocument
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /applications/{id}/documents [post]
func (h *ApplicationHandler) AttachDocument(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UploadDocumentRequest
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

	h.LogRequest(c, "Attaching document", "application_id", id, "document_type", req.DocumentType)

	doc, err := h.applicationService.AttachDocument(c.Request.Context(), id, &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// ListDocuments lists an application's documents
// @Summary List documents
// @Description Lists documents attached to an application visible to the actor
// @Tags applications
// @Accept json
// @Produce json
// @Param id path uint true "Application ID"
// @Success 200 {array} models.ApplicationDocument
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /applications/{id}/documents [get]
func (h *ApplicationHandler) ListDocuments(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	actorID, role, ok := h.requireActor(c)
	if !ok {
		return
	}

	docs, err := h.applicationService.ListDocuments(c.Request.Context(), id, actorID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, docs)
}
