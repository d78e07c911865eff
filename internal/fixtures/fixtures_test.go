package fixtures

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniapp-io/omniapp-qa/internal/browser/browsertest"
	"github.com/omniapp-io/omniapp-qa/internal/config"
	"github.com/omniapp-io/omniapp-qa/internal/pages"
	"github.com/omniapp-io/omniapp-qa/internal/qaerr"
)

var _ pages.Env = (*TestContext)(nil)

func staticSettings(t *testing.T, apiURL string) *config.Settings {
	t.Helper()
	s := config.NewStatic()
	s.FrontendURL = "http://app.test"
	s.APIURL = apiURL
	s.ArtifactDir = t.TempDir()
	s.DefaultTimeout = 400 * time.Millisecond
	s.LoginVia = "ui"
	s.ConfirmationToken = "DELETE"
	return s
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestCleanupStackRunsInReverseOrder(t *testing.T) {
	stack := NewCleanupStack()
	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		stack.Push(name, func(context.Context) qaerr.CleanupStatus {
			order = append(order, name)
			return qaerr.CleanupDeleted
		})
	}

	failed := stack.Run(context.Background(), zerolog.Nop())
	assert.Zero(t, failed)
	assert.Equal(t, []string{"third", "second", "first"}, order)
	assert.Zero(t, stack.Len(), "run drains the stack")
}

func TestCleanupStackIsolatesFailuresAndPanics(t *testing.T) {
	stack := NewCleanupStack()
	var ran []string
	stack.Push("survivor", func(context.Context) qaerr.CleanupStatus {
		ran = append(ran, "survivor")
		return qaerr.CleanupDeleted
	})
	stack.Push("failer", func(context.Context) qaerr.CleanupStatus {
		ran = append(ran, "failer")
		return qaerr.CleanupFailed
	})
	stack.Push("panicker", func(context.Context) qaerr.CleanupStatus {
		ran = append(ran, "panicker")
		panic("boom")
	})

	failed := stack.Run(context.Background(), zerolog.Nop())
	assert.Equal(t, 2, failed)
	assert.Equal(t, []string{"panicker", "failer", "survivor"}, ran,
		"a panicking action must not stop the rest of the stack")
}

func TestNewUserCreatesAndQueuesDeletion(t *testing.T) {
	deletes := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/users":
			writeJSON(w, http.StatusCreated, map[string]string{"id": "u1"})
		case r.Method == http.MethodDelete && r.URL.Path == "/users/u1":
			deletes++
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	tc := New(t, WithSettings(staticSettings(t, server.URL)), WithoutBrowser())

	user, err := NewUser(context.Background(), tc)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Contains(t, user.Email, "@example.com")
	assert.Equal(t, 1, tc.cleanups.Len())

	tc.Close()
	assert.Equal(t, 1, deletes, "closing the context deletes the arranged user")
}

func TestEntityCleanupRunsNewestFirst(t *testing.T) {
	var deleted []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/boards":
			writeJSON(w, http.StatusCreated, map[string]string{"id": "b1"})
		case r.Method == http.MethodPost && r.URL.Path == "/tasks":
			writeJSON(w, http.StatusCreated, map[string]string{"id": "t1"})
		case r.Method == http.MethodDelete:
			deleted = append(deleted, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	tc := New(t, WithSettings(staticSettings(t, server.URL)), WithoutBrowser())
	ctx := context.Background()

	board, err := NewBoard(ctx, tc, "QA Board")
	require.NoError(t, err)
	_, err = NewTask(ctx, tc, board.ID, "Move me", "todo")
	require.NoError(t, err)

	tc.Close()
	assert.Equal(t, []string{"/tasks/t1", "/boards/b1"}, deleted,
		"the task depends on the board, so it goes first")
}

func TestPostCleanupToleratesAlreadyGone(t *testing.T) {
	deletes := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/posts":
			writeJSON(w, http.StatusCreated, map[string]string{"id": "p9"})
		case r.Method == http.MethodDelete && r.URL.Path == "/posts/p9":
			deletes++
			w.WriteHeader(http.StatusNotFound) // test already deleted it
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	tc := New(t, WithSettings(staticSettings(t, server.URL)), WithoutBrowser())

	_, err := NewPost(context.Background(), tc, "Hello, World")
	require.NoError(t, err)

	failed := tc.cleanups.Run(context.Background(), zerolog.Nop())
	assert.Zero(t, failed, "already-gone counts as cleaned")
	assert.Equal(t, 1, deletes)
}

func loginFakeDriver() *browsertest.FakeDriver {
	driver := browsertest.NewFakeDriver()
	driver.Add("input#email", nil)
	driver.Add("input#password", nil)
	driver.Add("button[type='submit']", nil)
	driver.Add("nav.app-nav", nil)
	driver.Add(`[data-testid="user-name"]`, &browsertest.FakeElement{
		Visible: true, Enabled: true, N: 1, Content: "Test User",
	})
	return driver
}

func authStubServer(t *testing.T, logouts *int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/auth/login":
			writeJSON(w, http.StatusOK, map[string]any{
				"access_token":  "tok-access",
				"refresh_token": "tok-refresh",
				"expires_in":    3600,
			})
		case r.Method == http.MethodPost && r.URL.Path == "/auth/logout":
			if logouts != nil {
				*logouts++
			}
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestLoginAsDrivesTheFormAndRedactsThePassword(t *testing.T) {
	server := authStubServer(t, nil)
	settings := staticSettings(t, server.URL)
	settings.SetCredentials(config.RoleRegular, config.Credentials{
		Email:    "test@example.com",
		Password: "sup3r-secret-pw",
	})
	driver := loginFakeDriver()

	tc := New(t, WithSettings(settings), WithDriver(driver))
	dashboard, err := LoginAs(context.Background(), tc, config.RoleRegular)
	require.NoError(t, err)

	assert.Contains(t, driver.NavigatedTo, "http://app.test/login")
	name, err := dashboard.UserName()
	require.NoError(t, err)
	assert.Equal(t, "Test User", name)
	assert.Equal(t, 1, tc.cleanups.Len(), "session teardown is queued")

	logPath := tc.log.Path()
	tc.Close()
	raw, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "sup3r-secret-pw")
}

func TestLoginAsViaAPISeedsTheBrowserSession(t *testing.T) {
	logouts := 0
	server := authStubServer(t, &logouts)

	settings := staticSettings(t, server.URL)
	settings.LoginVia = "api"
	settings.SetCredentials(config.RoleRegular, config.Credentials{
		Email:    "test@example.com",
		Password: "testpassword123",
	})
	driver := browsertest.NewFakeDriver()
	driver.Add("nav.app-nav", nil)
	driver.Add(`[data-testid="user-name"]`, &browsertest.FakeElement{
		Visible: true, Enabled: true, N: 1, Content: "Test User",
	})

	tc := New(t, WithSettings(settings), WithDriver(driver))
	_, err := LoginAs(context.Background(), tc, config.RoleRegular)
	require.NoError(t, err)

	assert.Equal(t, []string{"http://app.test/", "http://app.test/dashboard"}, driver.NavigatedTo)
	assert.True(t, tc.API().Session().Authenticated())

	tc.Close()
	assert.Equal(t, 1, logouts, "teardown invalidates the server session")
	assert.False(t, tc.API().Session().Authenticated())
}

func TestLoginAsUnknownRoleIsAuthenticationError(t *testing.T) {
	tc := New(t, WithSettings(staticSettings(t, "http://127.0.0.1:0")), WithoutBrowser())

	_, err := LoginAs(context.Background(), tc, config.RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, qaerr.KindAuthentication, qaerr.KindOf(err))
}

func TestUniqueGeneratorsDoNotCollide(t *testing.T) {
	assert.NotEqual(t, UniqueEmail(), UniqueEmail())
	a, b := UniqueTitle("QA Post"), UniqueTitle("QA Post")
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "QA Post ")
}
