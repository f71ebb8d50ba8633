package models

// LifecycleStatus is the server-assigned vendor state controlling portal
// access. Transitions are owned by the marketplace registry; this service
// only ever reads the current value.
type LifecycleStatus string

const (
	StatusPending   LifecycleStatus = "pending"
	StatusApproved  LifecycleStatus = "approved"
	StatusRejected  LifecycleStatus = "rejected"
	StatusSuspended LifecycleStatus = "suspended"
)

// KnownStatus reports whether s is one of the four lifecycle states.
func KnownStatus(s LifecycleStatus) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusSuspended:
		return true
	}
	return false
}

const (
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

// VendorAccount is the registry's view of an account, fetched fresh on every
// guarded navigation.
type VendorAccount struct {
	ID               string          `json:"id"`
	Role             string          `json:"role"`
	Status           LifecycleStatus `json:"status"`
	RejectionReason  string          `json:"rejectionReason,omitempty"`
	SuspensionReason string          `json:"suspensionReason,omitempty"`
	Permissions      []string        `json:"permissions,omitempty"`
	Summary          VendorSummary   `json:"summary"`
}

// AccountFromRecord builds the account view from a raw registry record.
// Registry records arrive in several historical shapes, so the record runs
// through NormalizeVendorSummary here, at the ingestion boundary, and nothing
// downstream does its own field fallbacks.
func AccountFromRecord(raw map[string]interface{}) *VendorAccount {
	summary := NormalizeVendorSummary(raw)
	a := &VendorAccount{
		ID:               summary.ID,
		Role:             str(raw["role"]),
		Status:           summary.Status,
		RejectionReason:  str(raw["rejectionReason"]),
		SuspensionReason: str(raw["suspensionReason"]),
		Summary:          summary,
	}
	if perms, ok := raw["permissions"].([]interface{}); ok {
		for _, p := range perms {
			if flag, ok := p.(string); ok {
				a.Permissions = append(a.Permissions, flag)
			}
		}
	}
	return a
}

// StatusReason returns the explanation attached to the account's current
// terminal state, if any.
func (a *VendorAccount) StatusReason() string {
	if a == nil {
		return ""
	}
	switch a.Status {
	case StatusRejected:
		return a.RejectionReason
	case StatusSuspended:
		return a.SuspensionReason
	}
	return ""
}

// HasPermission checks the capability flag set.
func (a *VendorAccount) HasPermission(flag string) bool {
	if a == nil {
		return false
	}
	for _, p := range a.Permissions {
		if p == flag {
			return true
		}
	}
	return false
}
