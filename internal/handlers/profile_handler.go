package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nsp-portal/scholarship-service/internal/services"
	"github.com/nsp-portal/scholarship-service/internal/utils"
	"github.com/nsp-portal/scholarship-service/internal/validator"
)

type ProfileHandler struct {
	BaseHandler
	profileService services.ProfileService
	validator      *validator.Validator
}

func NewProfileHandler(
	profileService services.ProfileService,
	validator *validator.Validator,
	logger utils.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    NewBaseHandler(logger),
		profileService: profileService,
		validator:      validator,
	}
}

// CreateProfile creates the authenticated student's profile
// @Summary Create student profile
// @Description Creates the profile for the authenticated student
// @Tags profiles
// @Accept json
// @Produce json
// @Param profile body services.StudentProfileRequest true "Profile data"
// @Success 201 {object} models.StudentProfile
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /students/profile [post]
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req services.StudentProfileRequest
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

	h.LogRequest(c, "Creating student profile", "user_id", actorID)

	profile, err := h.profileService.CreateStudentProfile(c.Request.Context(), &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// GetProfile returns the authenticated student's profile
// @Summary Get student profile
// @Description Returns the profile of the authenticated student
// @Tags profiles
// @Produce json
// @Success 200 {object} models.StudentProfile
// @Failure 404 {object} ErrorResponse
// @Router /students/profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	actorID, _, ok := h.requireActor(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetStudentProfile(c.Request.Context(), actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile updates the authenticated student's profile
// @Summary Update student profile
// @Description Replaces the profile of the authenticated student
// @Tags profiles
// @Accept json
// @Produce json
// @Param profile body services.StudentProfileRequest true "Profile data"
// @Success 200 {object} models.StudentProfile
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /students/profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req services.StudentProfileRequest
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

	profile, err := h.profileService.UpdateStudentProfile(c.Request.Context(), &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
