package e2e

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/omniapp-io/omniapp-qa/internal/config"
	"github.com/omniapp-io/omniapp-qa/internal/fixtures"
	"github.com/omniapp-io/omniapp-qa/internal/pages"
	"github.com/omniapp-io/omniapp-qa/internal/suite"
)

// startUITest gates on the environment, applies the marker filter and
// builds a browser-backed context. Teardown is registered on t.
func startUITest(t *testing.T) (*fixtures.TestContext, context.Context) {
	t.Helper()
	if os.Getenv("E2E_TESTS") != "1" {
		t.Skip("set E2E_TESTS=1 to run browser tests")
	}
	suite.Apply(t)

	tc := fixtures.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), tc.Settings().TestTimeout)
	t.Cleanup(cancel)
	return tc, ctx
}

// mustCreds returns the regular user's credentials.
func mustCreds(t *testing.T, tc *fixtures.TestContext) config.Credentials {
	t.Helper()
	return fixtures.RequireRole(t, tc.Settings(), config.RoleRegular)
}

// loginRegular signs in as the regular user and returns the dashboard.
func loginRegular(t *testing.T, ctx context.Context, tc *fixtures.TestContext) *pages.DashboardPage {
	t.Helper()
	fixtures.RequireRole(t, tc.Settings(), config.RoleRegular)
	dashboard, err := fixtures.LoginAs(ctx, tc, config.RoleRegular)
	require.NoError(t, err, "login as regular user")
	return dashboard
}
