package api

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/omniapp-io/omniapp-qa/internal/config"
	"github.com/omniapp-io/omniapp-qa/internal/fixtures"
	"github.com/omniapp-io/omniapp-qa/internal/suite"
)

// startAPITest gates on the environment, applies the marker filter and
// builds a browserless context.
func startAPITest(t *testing.T) (*fixtures.TestContext, context.Context) {
	t.Helper()
	if os.Getenv("E2E_TESTS") != "1" {
		t.Skip("set E2E_TESTS=1 to run API tests")
	}
	suite.Apply(t)

	tc := fixtures.New(t, fixtures.WithoutBrowser())
	ctx, cancel := context.WithTimeout(context.Background(), tc.Settings().TestTimeout)
	t.Cleanup(cancel)
	return tc, ctx
}

// loginRegularAPI authenticates the client as the regular user.
func loginRegularAPI(t *testing.T, ctx context.Context, tc *fixtures.TestContext) config.Credentials {
	t.Helper()
	creds := fixtures.RequireRole(t, tc.Settings(), config.RoleRegular)
	tc.Log().RegisterSecret(creds.Password)
	require.NoError(t, tc.API().Login(ctx, creds.Email, creds.Password))
	return creds
}
