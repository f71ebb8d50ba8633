// Package lifecycle decides, for every guarded navigation, whether a screen
// may render or where it must redirect, based purely on the caller's auth
// state and the account's server-assigned lifecycle status. The decision
// function is pure and never panics; anything malformed collapses to the
// least-privileged outcome.
package lifecycle

import "github.com/pharmaport/portal-backend/internal/models"

// Route targets. Both guard variants resolve redirects through the same
// table below, so the targets can never diverge.
const (
	LoginPath       = "/login"
	VendorDashboard = "/vendor/dashboard"
	AdminDashboard  = "/admin/dashboard"
	PendingPage     = "/vendor/status/pending"
	RejectedPage    = "/vendor/status/rejected"
	SuspendedPage   = "/vendor/status/suspended"
)

// statusPath is the single status→destination table shared by the general
// guard and the exact-status guard.
var statusPath = map[models.LifecycleStatus]string{
	models.StatusPending:   PendingPage,
	models.StatusRejected:  RejectedPage,
	models.StatusSuspended: SuspendedPage,
	models.StatusApproved:  VendorDashboard,
}

// PathForStatus resolves a lifecycle status to its destination; unrecognized
// statuses fall back to the login path.
func PathForStatus(s models.LifecycleStatus) string {
	if !models.KnownStatus(s) {
		return LoginPath
	}
	return statusPath[s]
}

// Outcome is the gate's verdict.
type Outcome int

const (
	// Suspend means auth state is still loading; hold the screen and
	// re-evaluate once it settles.
	Suspend Outcome = iota
	Render
	Redirect
)

// Request is everything the gate consults for one navigation.
type Request struct {
	Loading        bool
	Authenticated  bool
	Account        *models.VendorAccount
	RequiredRole   string
	// RequiredStatus gates both variants: approved-only routes, and the
	// terminal status pages themselves, which require their own status and
	// bounce the user out through the shared table the moment the live
	// status changes.
	RequiredStatus models.LifecycleStatus
	Path           string
}

// Decision is the gate's output. Redirects always carry enough state for the
// destination to explain itself.
type Decision struct {
	Outcome Outcome
	Target  string
	From    string
	Status  models.LifecycleStatus
	Reason  string
}

// Decide runs the authorization algorithm in strict order; the first
// matching rule wins.
func Decide(req Request) Decision {
	if req.Loading {
		return Decision{Outcome: Suspend, From: req.Path}
	}

	// A missing or malformed account is treated as unauthenticated.
	if !req.Authenticated || req.Account == nil || req.Account.Role == "" {
		return Decision{Outcome: Redirect, Target: LoginPath, From: req.Path}
	}

	account := req.Account

	if req.RequiredRole != "" && account.Role != req.RequiredRole {
		return Decision{
			Outcome: Redirect,
			Target:  roleDefault(account.Role),
			From:    req.Path,
			Status:  account.Status,
		}
	}

	if req.RequiredStatus != "" && account.Status != req.RequiredStatus {
		return Decision{
			Outcome: Redirect,
			Target:  PathForStatus(account.Status),
			From:    req.Path,
			Status:  account.Status,
			Reason:  account.StatusReason(),
		}
	}

	return Decision{Outcome: Render, From: req.Path, Status: account.Status}
}

func roleDefault(role string) string {
	switch role {
	case models.RoleAdmin:
		return AdminDashboard
	case models.RoleVendor:
		return VendorDashboard
	}
	return LoginPath
}
