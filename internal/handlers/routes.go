package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pharmaport/portal-backend/internal/config"
	"github.com/pharmaport/portal-backend/internal/docs"
	"github.com/pharmaport/portal-backend/internal/draft"
	"github.com/pharmaport/portal-backend/internal/middleware"
	"github.com/pharmaport/portal-backend/internal/models"
	"github.com/pharmaport/portal-backend/internal/submit"
)

// Deps carries the wired collaborators for route setup.
type Deps struct {
	Persist   draft.Persistence
	Documents *docs.Cache
	Pipeline  *submit.Pipeline
	Checklist *config.DocumentChecklist
	Accounts  middleware.AccountSource
}

func SetupRoutes(router *gin.Engine, deps Deps) {
	logrus.Info("Setting up routes...")

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "pharmaport-portal",
		})
	})

	registrationHandler := NewRegistrationHandler(deps.Persist, deps.Documents, deps.Pipeline, deps.Checklist)
	statusHandler := NewStatusHandler()

	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware())
	{
		// Registration wizard: any authenticated applicant, no lifecycle
		// status required yet.
		registration := protected.Group("/registration")
		{
			registration.GET("/draft", registrationHandler.GetDraft)
			registration.DELETE("/draft", registrationHandler.Abandon)
			registration.PUT("/steps/:step", registrationHandler.SaveStep)
			registration.POST("/navigation", registrationHandler.Navigate)
			registration.GET("/documents", registrationHandler.ListDocuments)
			registration.POST("/documents/:slot", registrationHandler.UploadDocument)
			registration.DELETE("/documents/:slot", registrationHandler.RemoveDocument)
			registration.POST("/submit", registrationHandler.Submit)
		}

		// Approved-only vendor area.
		vendor := protected.Group("/vendor")
		{
			vendor.GET("/dashboard",
				middleware.LifecycleGuard(deps.Accounts, models.RoleVendor, models.StatusApproved),
				statusHandler.Dashboard)

			// Terminal status pages require their own exact status, so a
			// vendor whose live status moved on is bounced out rather than
			// shown a stale page.
			status := vendor.Group("/status")
			{
				status.GET("/pending",
					middleware.LifecycleGuard(deps.Accounts, models.RoleVendor, models.StatusPending),
					statusHandler.PendingPage)
				status.GET("/rejected",
					middleware.LifecycleGuard(deps.Accounts, models.RoleVendor, models.StatusRejected),
					statusHandler.RejectedPage)
				status.GET("/suspended",
					middleware.LifecycleGuard(deps.Accounts, models.RoleVendor, models.StatusSuspended),
					statusHandler.SuspendedPage)
			}
		}

		// Admin console area.
		admin := protected.Group("/admin")
		admin.Use(middleware.LifecycleGuard(deps.Accounts, models.RoleAdmin, ""))
		{
			admin.GET("/dashboard", statusHandler.AdminDashboard)
		}
	}
}
