package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniapp-io/omniapp-qa/internal/config"
	"github.com/omniapp-io/omniapp-qa/internal/fixtures"
	"github.com/omniapp-io/omniapp-qa/internal/pages"
)

func TestLoginWithValidCredentials(t *testing.T) {
	tc, ctx := startUITest(t)

	dashboard := loginRegular(t, ctx, tc)

	name, err := dashboard.UserName()
	require.NoError(t, err)
	assert.NotEmpty(t, name, "dashboard must greet the signed-in user")
	assert.NotEqual(t, "Guest", name)
}

func TestLoginWithInvalidCredentials(t *testing.T) {
	tc, _ := startUITest(t)
	creds := fixtures.RequireRole(t, tc.Settings(), config.RoleRegular)

	login := pages.NewLoginPage(tc)
	require.NoError(t, login.Load())

	toast, err := login.LoginExpectingError(creds.Email, "definitely-wrong-password", 0)
	require.NoError(t, err, "error toast should appear")
	assert.Contains(t, toast, "Invalid")
	assert.Contains(t, login.CurrentURL(), "/login", "failed login must stay on the login screen")
}

func TestLogoutEndsSession(t *testing.T) {
	tc, ctx := startUITest(t)

	dashboard := loginRegular(t, ctx, tc)
	login, err := dashboard.Logout()
	require.NoError(t, err)

	assert.Contains(t, login.CurrentURL(), "/login")
	assert.True(t, login.IsLoaded(), "login form must be back after logout")
}
