package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nsp-portal/scholarship-service/internal/config"
	"github.com/nsp-portal/scholarship-service/internal/models"
	"github.com/nsp-portal/scholarship-service/internal/repositories"
	"github.com/nsp-portal/scholarship-service/internal/services"
	"github.com/nsp-portal/scholarship-service/internal/utils"
	"github.com/nsp-portal/scholarship-service/internal/validator"
)

type HandlerManager struct {
	applicationHandler  *ApplicationHandler
	workflowHandler     *WorkflowHandler
	registrationHandler *RegistrationHandler
	schemeHandler       *SchemeHandler
	profileHandler      *ProfileHandler
	authMiddleware      *CasdoorAuthMiddleware
	serviceManager      services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		applicationHandler:  NewApplicationHandler(serviceManager.Application(), validator, logger),
		workflowHandler:     NewWorkflowHandler(serviceManager.Workflow(), serviceManager.Application(), validator, logger),
		registrationHandler: NewRegistrationHandler(serviceManager.Registration(), validator, logger),
		schemeHandler:       NewSchemeHandler(serviceManager.Scheme(), validator, logger),
		profileHandler:      NewProfileHandler(serviceManager.Profile(), validator, logger),
		authMiddleware:      authMiddleware,
		serviceManager:      serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Student surface
		students := v1.Group("/students")
		students.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent))
		{
			students.POST("/profile", hm.profileHandler.CreateProfile)
			students.GET("/profile", hm.profileHandler.GetProfile)
			students.PUT("/profile", hm.profileHandler.UpdateProfile)
		}

		applications := v1.Group("/applications")
		{
			applications.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.applicationHandler.SubmitApplication)
			applications.GET("", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.applicationHandler.ListMyApplications)
			applications.POST("/:id/documents", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.applicationHandler.AttachDocument)

			// Snapshot and documents - every authenticated role; the service
			// enforces per-role visibility.
			applications.GET("/:id", hm.applicationHandler.GetApplication)
			applications.GET("/:id/documents", hm.applicationHandler.ListDocuments)
		}

		// Institute surface
		institute := v1.Group("/institute")
		institute.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleInstitute))
		{
			institute.POST("/registration", hm.registrationHandler.SubmitRegistration)
			institute.GET("/registration", hm.registrationHandler.GetRegistration)

			institute.GET("/applications", hm.workflowHandler.ListInstituteQueue)
			institute.POST("/applications/:id/decision", hm.workflowHandler.DecideAtInstitute)
			institute.POST("/applications/:id/documents/:docId/verify", hm.workflowHandler.VerifyDocument)
		}

		// State officer surface
		state := v1.Group("/state")
		state.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleStateOfficer))
		{
			state.GET("/applications", hm.workflowHandler.ListStateQueue)
			state.POST("/applications/:id/decision", hm.workflowHandler.DecideAtState)

			state.GET("/registrations", hm.registrationHandler.ListPendingForState)
			state.POST("/registrations/:userId/decision", hm.registrationHandler.DecideRegistrationAtState)
		}

		// Ministry surface
		ministry := v1.Group("/ministry")
		ministry.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleMinistry))
		{
			ministry.GET("/applications", hm.workflowHandler.ListMinistryQueue)
			ministry.GET("/applications/export", hm.workflowHandler.ExportApplications)
			ministry.POST("/applications/:id/decision", hm.workflowHandler.DecideAtMinistry)

			ministry.GET("/registrations", hm.registrationHandler.ListPendingForMinistry)
			ministry.POST("/registrations/:userId/decision", hm.registrationHandler.DecideRegistrationAtMinistry)
		}

		// Scheme catalog
		schemes := v1.Group("/schemes")
		{
			schemes.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleMinistry), hm.schemeHandler.CreateScheme)
			schemes.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleMinistry), hm.schemeHandler.UpdateScheme)

			// Browsing is open to all authenticated users
			schemes.GET("", hm.schemeHandler.ListSchemes)
			schemes.GET("/open", hm.schemeHandler.ListOpenSchemes)
			schemes.GET("/:id", hm.schemeHandler.GetScheme)
		}
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
