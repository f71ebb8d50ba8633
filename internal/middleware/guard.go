package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pharmaport/portal-backend/internal/lifecycle"
	"github.com/pharmaport/portal-backend/internal/models"
)

// AccountSource provides the live account state for gate decisions. It must
// hit the registry on every call; status can change server-side between
// navigations, so a cached copy is never acceptable here.
type AccountSource interface {
	CurrentAccount(ctx context.Context, token string) (*models.VendorAccount, error)
}

// LifecycleGuard gates a route group on role and, optionally, an exact
// lifecycle status. Used for both entry points of the gate: general route
// protection (requiredStatus = approved for the vendor dashboard) and the
// terminal status pages (requiredStatus = the page's own status, so a stale
// page bounces out as soon as the live status changes).
func LifecycleGuard(source AccountSource, requiredRole string, requiredStatus models.LifecycleStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetString("token")

		var account *models.VendorAccount
		authenticated := false
		if token != "" {
			fetched, err := source.CurrentAccount(c.Request.Context(), token)
			if err != nil {
				// Unable to establish status: fall through as unauthenticated
				// rather than guessing from stale state.
				logrus.WithError(err).Warn("Failed to fetch account for lifecycle guard")
			} else {
				account = fetched
				authenticated = true
			}
		}

		decision := lifecycle.Decide(lifecycle.Request{
			Authenticated:  authenticated,
			Account:        account,
			RequiredRole:   requiredRole,
			RequiredStatus: requiredStatus,
			Path:           c.Request.URL.Path,
		})

		if decision.Outcome == lifecycle.Render {
			c.Set("account", account)
			c.Next()
			return
		}

		status := http.StatusForbidden
		if decision.Target == lifecycle.LoginPath && decision.Status == "" {
			status = http.StatusUnauthorized
		}

		// A redirect is a control-flow outcome, not a bare denial: it always
		// carries enough state for the destination screen to explain itself.
		c.JSON(status, gin.H{
			"success":  false,
			"redirect": decision.Target,
			"from":     decision.From,
			"status":   decision.Status,
			"reason":   decision.Reason,
			"message":  redirectMessage(decision),
		})
		c.Abort()
	}
}

func redirectMessage(d lifecycle.Decision) string {
	switch d.Target {
	case lifecycle.LoginPath:
		return "Please sign in to continue"
	case lifecycle.PendingPage:
		return "Your application is still under review"
	case lifecycle.RejectedPage:
		return "Your application was not approved"
	case lifecycle.SuspendedPage:
		return "Your account is currently suspended"
	default:
		return "You do not have access to this page"
	}
}
