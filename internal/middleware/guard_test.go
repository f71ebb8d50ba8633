package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaport/portal-backend/internal/lifecycle"
	"github.com/pharmaport/portal-backend/internal/models"
)

type stubAccounts struct {
	account *models.VendorAccount
	err     error
	fetches int
}

func (s *stubAccounts) CurrentAccount(context.Context, string) (*models.VendorAccount, error) {
	s.fetches++
	return s.account, s.err
}

func guardedRouter(source AccountSource, role string, status models.LifecycleStatus, token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded",
		func(c *gin.Context) { c.Set("token", token) },
		LifecycleGuard(source, role, status),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"rendered": true}) },
	)
	return r
}

func doGet(r *gin.Engine) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestGuardRendersApprovedVendor(t *testing.T) {
	source := &stubAccounts{account: &models.VendorAccount{
		ID: "acct-1", Role: models.RoleVendor, Status: models.StatusApproved,
	}}
	r := guardedRouter(source, models.RoleVendor, models.StatusApproved, "tok")

	w, body := doGet(r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["rendered"])
	assert.Equal(t, 1, source.fetches)
}

func TestGuardRedirectsSuspendedVendorWithReason(t *testing.T) {
	source := &stubAccounts{account: &models.VendorAccount{
		ID:               "acct-1",
		Role:             models.RoleVendor,
		Status:           models.StatusSuspended,
		SuspensionReason: "Chargeback dispute open",
	}}
	r := guardedRouter(source, models.RoleVendor, models.StatusApproved, "tok")

	w, body := doGet(r)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, lifecycle.SuspendedPage, body["redirect"])
	assert.Equal(t, "/guarded", body["from"])
	assert.Equal(t, string(models.StatusSuspended), body["status"])
	assert.Equal(t, "Chargeback dispute open", body["reason"])
	assert.NotEmpty(t, body["message"])
}

func TestGuardMissingTokenRedirectsToLogin(t *testing.T) {
	source := &stubAccounts{}
	r := guardedRouter(source, models.RoleVendor, models.StatusApproved, "")

	w, body := doGet(r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, lifecycle.LoginPath, body["redirect"])
	assert.Zero(t, source.fetches, "no token means no account fetch")
}

func TestGuardFetchFailureIsLeastPrivilege(t *testing.T) {
	source := &stubAccounts{err: errors.New("registry unreachable")}
	r := guardedRouter(source, models.RoleVendor, models.StatusApproved, "tok")

	w, body := doGet(r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, lifecycle.LoginPath, body["redirect"])
}

func TestGuardFetchesFreshStatusEveryRequest(t *testing.T) {
	source := &stubAccounts{account: &models.VendorAccount{
		ID: "acct-1", Role: models.RoleVendor, Status: models.StatusSuspended,
	}}
	// Exact-status guard on the suspended page itself.
	r := guardedRouter(source, models.RoleVendor, models.StatusSuspended, "tok")

	w, _ := doGet(r)
	require.Equal(t, http.StatusOK, w.Code)

	// Reactivated server-side: the very next navigation bounces out to the
	// dashboard instead of rendering the stale suspended page.
	source.account = &models.VendorAccount{
		ID: "acct-1", Role: models.RoleVendor, Status: models.StatusApproved,
	}
	w, body := doGet(r)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, lifecycle.VendorDashboard, body["redirect"])
	assert.Equal(t, 2, source.fetches)
}

func TestGuardRoleMismatch(t *testing.T) {
	source := &stubAccounts{account: &models.VendorAccount{
		ID: "acct-1", Role: models.RoleVendor, Status: models.StatusApproved,
	}}
	r := guardedRouter(source, models.RoleAdmin, "", "tok")

	w, body := doGet(r)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, lifecycle.VendorDashboard, body["redirect"])
}
