package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniapp-io/omniapp-qa/internal/fixtures"
	"github.com/omniapp-io/omniapp-qa/internal/pages"
)

func TestProfileMatchesAuthIdentity(t *testing.T) {
	tc, ctx := startUITest(t)
	dashboard := loginRegular(t, ctx, tc)

	// The API client shares the session, so /auth/me is the oracle for
	// what the profile screen should display.
	me, err := tc.API().Me(ctx)
	require.NoError(t, err)
	apiEmail := me.Get("email").String()
	require.NotEmpty(t, apiEmail)

	profile, err := dashboard.OpenProfile()
	require.NoError(t, err)

	shownEmail, err := profile.DisplayedEmail()
	require.NoError(t, err)
	assert.Equal(t, apiEmail, shownEmail, "profile and /auth/me must agree on the identity")
}

func TestChangePassword(t *testing.T) {
	tc, ctx := startUITest(t)

	// A throwaway account so the shared test user's password never
	// changes. The fixture deletes the account afterwards.
	user, err := fixtures.NewUser(ctx, tc)
	require.NoError(t, err)

	login := pages.NewLoginPage(tc)
	require.NoError(t, login.Load())
	dashboard, err := login.Login(user.Email, user.Password)
	require.NoError(t, err)

	profile, err := dashboard.OpenProfile()
	require.NoError(t, err)

	next := fixtures.UniqueTitle("Rotated-pw")
	tc.Log().RegisterSecret(next)
	require.NoError(t, profile.ChangePassword(user.Password, next))

	// Old password must stop working; the new one must work.
	_, err = dashboard.Logout()
	require.NoError(t, err)

	login = pages.NewLoginPage(tc)
	require.NoError(t, login.Load())
	toast, err := login.LoginExpectingError(user.Email, user.Password, 0)
	require.NoError(t, err)
	assert.Contains(t, toast, "Invalid")

	_, err = login.Login(user.Email, next)
	require.NoError(t, err, "new password must sign in")

	// Re-authenticate the API client with the rotated password so the
	// account fixture can delete itself at teardown.
	require.NoError(t, tc.API().Login(ctx, user.Email, next))
}

func TestDeleteAccount(t *testing.T) {
	tc, ctx := startUITest(t)

	// A throwaway account again: the flow destroys it, and the queued
	// fixture cleanup treats the already-gone record as cleaned.
	user, err := fixtures.NewUser(ctx, tc)
	require.NoError(t, err)

	login := pages.NewLoginPage(tc)
	require.NoError(t, login.Load())
	dashboard, err := login.Login(user.Email, user.Password)
	require.NoError(t, err)

	profile, err := dashboard.OpenProfile()
	require.NoError(t, err)

	login, err = profile.DeleteAccount(tc.Settings().ConfirmationToken)
	require.NoError(t, err, "deletion must land back on the login screen")

	toast, err := login.LoginExpectingError(user.Email, user.Password, 0)
	require.NoError(t, err)
	assert.Contains(t, toast, "Invalid", "deleted credentials must no longer sign in")
}
