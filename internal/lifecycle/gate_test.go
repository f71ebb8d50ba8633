package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pharmaport/portal-backend/internal/models"
)

func account(role string, status models.LifecycleStatus) *models.VendorAccount {
	return &models.VendorAccount{ID: "acct-1", Role: role, Status: status}
}

func TestDecideLoadingSuspends(t *testing.T) {
	d := Decide(Request{Loading: true, Path: "/vendor/dashboard"})
	assert.Equal(t, Suspend, d.Outcome)
	assert.Equal(t, "/vendor/dashboard", d.From)
}

func TestDecideUnauthenticated(t *testing.T) {
	d := Decide(Request{Authenticated: false, Path: "/vendor/dashboard"})
	assert.Equal(t, Redirect, d.Outcome)
	assert.Equal(t, LoginPath, d.Target)
	// The original destination rides along so login can return the user.
	assert.Equal(t, "/vendor/dashboard", d.From)
}

func TestDecideMalformedAccountIsLeastPrivilege(t *testing.T) {
	tests := []struct {
		name    string
		account *models.VendorAccount
	}{
		{"nil account", nil},
		{"missing role", &models.VendorAccount{ID: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(Request{Authenticated: true, Account: tt.account, Path: "/p"})
			assert.Equal(t, Redirect, d.Outcome)
			assert.Equal(t, LoginPath, d.Target)
		})
	}
}

func TestDecideRoleMismatch(t *testing.T) {
	d := Decide(Request{
		Authenticated: true,
		Account:       account(models.RoleVendor, models.StatusApproved),
		RequiredRole:  models.RoleAdmin,
		Path:          "/admin/dashboard",
	})
	assert.Equal(t, Redirect, d.Outcome)
	assert.Equal(t, VendorDashboard, d.Target)

	d = Decide(Request{
		Authenticated: true,
		Account:       account(models.RoleAdmin, ""),
		RequiredRole:  models.RoleVendor,
		Path:          "/vendor/dashboard",
	})
	assert.Equal(t, Redirect, d.Outcome)
	assert.Equal(t, AdminDashboard, d.Target)
}

func TestDecideStatusMismatchTable(t *testing.T) {
	tests := []struct {
		status models.LifecycleStatus
		target string
	}{
		{models.StatusPending, PendingPage},
		{models.StatusRejected, RejectedPage},
		{models.StatusSuspended, SuspendedPage},
		{"deactivated", LoginPath}, // unrecognized
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			d := Decide(Request{
				Authenticated:  true,
				Account:        account(models.RoleVendor, tt.status),
				RequiredRole:   models.RoleVendor,
				RequiredStatus: models.StatusApproved,
				Path:           "/vendor/dashboard",
			})
			assert.Equal(t, Redirect, d.Outcome)
			assert.Equal(t, tt.target, d.Target)
			assert.Equal(t, "/vendor/dashboard", d.From)
			assert.Equal(t, tt.status, d.Status)
		})
	}
}

func TestDecideRender(t *testing.T) {
	d := Decide(Request{
		Authenticated:  true,
		Account:        account(models.RoleVendor, models.StatusApproved),
		RequiredRole:   models.RoleVendor,
		RequiredStatus: models.StatusApproved,
		Path:           "/vendor/dashboard",
	})
	assert.Equal(t, Render, d.Outcome)
}

// Every combination of {authenticated, role, status} must resolve to exactly
// one defined outcome with a target drawn from the fixed table.
func TestDecisionTableComplete(t *testing.T) {
	roles := []string{models.RoleVendor, models.RoleAdmin, "other", ""}
	statuses := []models.LifecycleStatus{
		models.StatusPending, models.StatusApproved,
		models.StatusRejected, models.StatusSuspended, "bogus", "",
	}
	validTargets := map[string]bool{
		LoginPath: true, VendorDashboard: true, AdminDashboard: true,
		PendingPage: true, RejectedPage: true, SuspendedPage: true,
	}

	for _, authed := range []bool{true, false} {
		for _, role := range roles {
			for _, status := range statuses {
				d := Decide(Request{
					Authenticated:  authed,
					Account:        account(role, status),
					RequiredRole:   models.RoleVendor,
					RequiredStatus: models.StatusApproved,
					Path:           "/vendor/dashboard",
				})
				switch d.Outcome {
				case Render:
					assert.True(t, authed)
					assert.Equal(t, models.RoleVendor, role)
					assert.Equal(t, models.StatusApproved, status)
				case Redirect:
					assert.True(t, validTargets[d.Target],
						"authed=%v role=%q status=%q redirected to unknown target %q",
						authed, role, status, d.Target)
				default:
					t.Fatalf("authed=%v role=%q status=%q fell through to outcome %v",
						authed, role, status, d.Outcome)
				}
			}
		}
	}
}

// A vendor suspended mid-session must be bounced from the approved-only
// dashboard to the suspended page carrying the server's reason.
func TestSuspendedMidSession(t *testing.T) {
	acct := account(models.RoleVendor, models.StatusSuspended)
	acct.SuspensionReason = "Repeated shipping violations"

	d := Decide(Request{
		Authenticated:  true,
		Account:        acct,
		RequiredRole:   models.RoleVendor,
		RequiredStatus: models.StatusApproved,
		Path:           "/vendor/dashboard",
	})
	assert.Equal(t, Redirect, d.Outcome)
	assert.Equal(t, SuspendedPage, d.Target)
	assert.Equal(t, "Repeated shipping violations", d.Reason)
}

// A reactivated vendor still sitting on the suspended page must be redirected
// away to the dashboard, not rendered in place.
func TestReactivationEscape(t *testing.T) {
	d := Decide(Request{
		Authenticated:  true,
		Account:        account(models.RoleVendor, models.StatusApproved),
		RequiredRole:   models.RoleVendor,
		RequiredStatus: models.StatusSuspended,
		Path:           SuspendedPage,
	})
	assert.Equal(t, Redirect, d.Outcome)
	assert.Equal(t, VendorDashboard, d.Target)
	assert.Equal(t, SuspendedPage, d.From)
}

func TestPathForStatusSharedTable(t *testing.T) {
	assert.Equal(t, PendingPage, PathForStatus(models.StatusPending))
	assert.Equal(t, RejectedPage, PathForStatus(models.StatusRejected))
	assert.Equal(t, SuspendedPage, PathForStatus(models.StatusSuspended))
	assert.Equal(t, VendorDashboard, PathForStatus(models.StatusApproved))
	assert.Equal(t, LoginPath, PathForStatus("unknown"))
}
