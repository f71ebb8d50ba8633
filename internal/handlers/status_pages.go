package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharmaport/portal-backend/internal/models"
	"github.com/pharmaport/portal-backend/utils"
)

// StatusHandler serves the three terminal status pages and the approved-only
// dashboard. Each sits behind a lifecycle guard requiring its exact status,
// so the handler can assume the account in context already matched.
type StatusHandler struct{}

func NewStatusHandler() *StatusHandler {
	return &StatusHandler{}
}

func accountFromContext(c *gin.Context) *models.VendorAccount {
	if v, ok := c.Get("account"); ok {
		if account, ok := v.(*models.VendorAccount); ok {
			return account
		}
	}
	return nil
}

// PendingPage explains that the application is still under review.
func (h *StatusHandler) PendingPage(c *gin.Context) {
	c.JSON(http.StatusOK, utils.SuccessResponse("Application pending", gin.H{
		"status":  models.StatusPending,
		"message": "Your application is under review. We will email you once a decision is made.",
	}))
}

// RejectedPage explains the rejection, carrying the server's reason.
func (h *StatusHandler) RejectedPage(c *gin.Context) {
	account := accountFromContext(c)
	c.JSON(http.StatusOK, utils.SuccessResponse("Application rejected", gin.H{
		"status":  models.StatusRejected,
		"reason":  account.StatusReason(),
		"message": "Your application was not approved. Contact support if you believe this is an error.",
	}))
}

// SuspendedPage explains the suspension, carrying the server's reason.
func (h *StatusHandler) SuspendedPage(c *gin.Context) {
	account := accountFromContext(c)
	c.JSON(http.StatusOK, utils.SuccessResponse("Account suspended", gin.H{
		"status":  models.StatusSuspended,
		"reason":  account.StatusReason(),
		"message": "Your account is suspended. Orders and listings are paused until reactivation.",
	}))
}

// Dashboard is the approved-only vendor landing view.
func (h *StatusHandler) Dashboard(c *gin.Context) {
	account := accountFromContext(c)
	var vendor models.VendorSummary
	var permissions []string
	if account != nil {
		vendor = account.Summary
		permissions = account.Permissions
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Dashboard", gin.H{
		"status":      models.StatusApproved,
		"vendor":      vendor,
		"permissions": permissions,
	}))
}

// AdminDashboard is the admin console landing view.
func (h *StatusHandler) AdminDashboard(c *gin.Context) {
	account := accountFromContext(c)
	c.JSON(http.StatusOK, utils.SuccessResponse("Admin dashboard", gin.H{
		"role":             models.RoleAdmin,
		"canReviewVendors": account.HasPermission("vendors:review"),
	}))
}
