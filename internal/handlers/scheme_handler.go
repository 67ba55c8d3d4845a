package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nsp-portal/scholarship-service/internal/services"
	"github.com/nsp-portal/scholarship-service/internal/utils"
	"github.com/nsp-portal/scholarship-service/internal/validator"
)

type SchemeHandler struct {
	BaseHandler
	schemeService services.SchemeService
	validator     *validator.Validator
}

func NewSchemeHandler(
	schemeService services.SchemeService,
	validator *validator.Validator,
	logger utils.Logger,
) *SchemeHandler {
	return &SchemeHandler{
		BaseHandler:   NewBaseHandler(logger),
		schemeService: schemeService,
		validator:     validator,
	}
}

// CreateScheme creates a scholarship scheme
// @Summary Create scheme
// @Description Creates a new scholarship scheme
// @Tags schemes
// @Accept json
// @Produce json
// @Param scheme body services.CreateSchemeRequest true "Scheme data"
// @Success 201 {object} services.SchemeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /schemes [post]
func (h *SchemeHandler) CreateScheme(c *gin.Context) {
	var req services.CreateSchemeRequest
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

	h.LogRequest(c, "Creating scheme", "scheme_name", req.SchemeName)

	scheme, err := h.schemeService.Create(c.Request.Context(), &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, scheme)
}

// UpdateScheme updates a scholarship scheme
// @Summary Update scheme
// @Description Updates an existing scholarship scheme
// @Tags schemes
// @Accept json
// @Produce json
// @Param id path uint true "Scheme ID"
// @Param scheme body services.UpdateSchemeRequest true "Fields to update"
// @Success 200 {object} services.SchemeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /schemes/{id} [put]
func (h *SchemeHandler) UpdateScheme(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateSchemeRequest
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

	scheme, err := h.schemeService.Update(c.Request.Context(), id, &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, scheme)
}

// GetScheme retrieves a scheme by ID
// @Summary Get scheme
// @Description Retrieves a scholarship scheme by its ID
// @Tags schemes
// @Produce json
// @Param id path uint true "Scheme ID"
// @Success 200 {object} services.SchemeResponse
// @Failure 404 {object} ErrorResponse
// @Router /schemes/{id} [get]
func (h *SchemeHandler) GetScheme(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	scheme, err := h.schemeService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, scheme)
}

// ListSchemes lists schemes with filters
// @Summary List schemes
// @Description Lists scholarship schemes with optional filters
// @Tags schemes
// @Produce json
// @Param is_active query bool false "Active filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} services.SchemeListResponse
// @Router /schemes [get]
func (h *SchemeHandler) ListSchemes(c *gin.Context) {
	list, err := h.schemeService.List(c.Request.Context(), parseSchemeFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// ListOpenSchemes lists schemes currently accepting applications
// @Summary List open schemes
// @Description Lists active schemes whose application window contains today
// @Tags schemes
// @Produce json
// @Success 200 {object} services.SchemeListResponse
// @Router /schemes/open [get]
func (h *SchemeHandler) ListOpenSchemes(c *gin.Context) {
	list, err := h.schemeService.ListOpen(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}
