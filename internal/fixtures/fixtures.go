package fixtures

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/omniapp-io/omniapp-qa/internal/config"
	"github.com/omniapp-io/omniapp-qa/internal/pages"
	"github.com/omniapp-io/omniapp-qa/internal/qaerr"
)

// DefaultPassword is used for throwaway accounts created by fixtures.
const DefaultPassword = "Fixture-Passw0rd!"

// UniqueEmail returns a collision-free address for a throwaway account.
func UniqueEmail() string {
	return fmt.Sprintf("qa-%s@example.com", uuid.NewString()[:8])
}

// UniqueTitle returns a collision-free title with a readable prefix.
func UniqueTitle(prefix string) string {
	return fmt.Sprintf("%s %s", prefix, uuid.NewString()[:8])
}

// RequireRole skips the test when the role has no configured credentials.
func RequireRole(t *testing.T, settings *config.Settings, role config.Role) config.Credentials {
	t.Helper()
	if !settings.HasCredentials(role) {
		t.Skipf("no credentials configured for role %q", role)
	}
	creds, err := settings.Credentials(role)
	if err != nil {
		t.Skipf("credentials for role %q unusable: %v", role, err)
	}
	return creds
}

// LoginAs authenticates the context as a role and lands on the dashboard.
// The route is chosen by settings: "ui" drives the login form, "api" logs
// in over HTTP and seeds the browser session with the token bundle.
// Logout is registered on the cleanup stack either way.
func LoginAs(ctx context.Context, tc *TestContext, role config.Role) (*pages.DashboardPage, error) {
	creds, err := tc.Settings().Credentials(role)
	if err != nil {
		return nil, qaerr.Wrap(qaerr.KindAuthentication, err, "resolve credentials for %s", role)
	}
	tc.Log().RegisterSecret(creds.Password)

	var dashboard *pages.DashboardPage
	err = tc.Step(fmt.Sprintf("login as %s", role), func() error {
		// The API client authenticates in both modes so tests can arrange
		// and assert over HTTP regardless of how the browser signed in.
		if err := tc.API().Login(ctx, creds.Email, creds.Password); err != nil {
			return err
		}
		var err error
		if tc.Settings().LoginVia == "api" {
			dashboard, err = loginViaAPI(tc, creds)
		} else {
			dashboard, err = loginViaUI(tc, creds)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	tc.Cleanup(fmt.Sprintf("session of %s", role), func(ctx context.Context) qaerr.CleanupStatus {
		if err := tc.API().Logout(ctx); err != nil {
			return qaerr.CleanupFailed
		}
		return qaerr.CleanupDeleted
	})
	return dashboard, nil
}

func loginViaUI(tc *TestContext, creds config.Credentials) (*pages.DashboardPage, error) {
	login := pages.NewLoginPage(tc)
	if err := login.Load(); err != nil {
		return nil, err
	}
	return login.Login(creds.Email, creds.Password)
}

// loginViaAPI skips the form: tokens from the HTTP login are injected
// into the browser's storage before the app boots, which is how the
// frontend persists its own session.
func loginViaAPI(tc *TestContext, creds config.Credentials) (*pages.DashboardPage, error) {
	session := tc.API().Session()
	if !session.Authenticated() {
		return nil, qaerr.New(qaerr.KindAuthentication, "api login for %s left no session", creds.Email)
	}
	if tc.Driver() == nil {
		return nil, qaerr.New(qaerr.KindInfrastructure, "api login requested a dashboard but the context has no browser")
	}
	if err := tc.Driver().Navigate(tc.FrontendURL() + "/"); err != nil {
		return nil, err
	}
	script := fmt.Sprintf(
		`localStorage.setItem('access_token', %q); localStorage.setItem('refresh_token', %q);`,
		session.AccessToken, session.RefreshToken)
	if _, err := tc.Driver().Eval(script); err != nil {
		return nil, qaerr.Wrap(qaerr.KindInfrastructure, err, "seed browser session")
	}
	dashboard := pages.NewDashboardPage(tc)
	if err := dashboard.Load(); err != nil {
		return nil, err
	}
	return dashboard, nil
}

// CreatedUser is a throwaway account arranged over the API.
type CreatedUser struct {
	ID       string
	Email    string
	Password string
	Name     string
}

// NewUser registers a fresh account and queues its deletion. Safe against
// the account deleting itself mid-test: already-gone counts as cleaned.
func NewUser(ctx context.Context, tc *TestContext) (*CreatedUser, error) {
	user := &CreatedUser{
		Email:    UniqueEmail(),
		Password: DefaultPassword,
		Name:     UniqueTitle("QA User"),
	}
	tc.Log().RegisterSecret(user.Password)

	record, err := tc.API().CreateUser(ctx, user.Email, user.Password, user.Name)
	if err != nil {
		return nil, err
	}
	user.ID = record.Get("id").String()

	tc.Cleanup("user "+user.Email, func(ctx context.Context) qaerr.CleanupStatus {
		return tc.API().DeleteUser(ctx, user.ID)
	})
	return user, nil
}

// CreatedPost is a feed post arranged over the API.
type CreatedPost struct {
	ID      string
	Content string
}

func NewPost(ctx context.Context, tc *TestContext, content string) (*CreatedPost, error) {
	record, err := tc.API().CreatePost(ctx, content)
	if err != nil {
		return nil, err
	}
	post := &CreatedPost{ID: record.Get("id").String(), Content: content}

	tc.Cleanup("post "+post.ID, func(ctx context.Context) qaerr.CleanupStatus {
		return tc.API().DeletePost(ctx, post.ID)
	})
	return post, nil
}

// CreatedBoard is a kanban board arranged over the API.
type CreatedBoard struct {
	ID   string
	Name string
}

func NewBoard(ctx context.Context, tc *TestContext, name string) (*CreatedBoard, error) {
	record, err := tc.API().CreateBoard(ctx, name)
	if err != nil {
		return nil, err
	}
	board := &CreatedBoard{ID: record.Get("id").String(), Name: name}

	tc.Cleanup("board "+board.ID, func(ctx context.Context) qaerr.CleanupStatus {
		return tc.API().DeleteBoard(ctx, board.ID)
	})
	return board, nil
}

// CreatedTask is a kanban card arranged over the API.
type CreatedTask struct {
	ID     string
	Title  string
	Column string
}

func NewTask(ctx context.Context, tc *TestContext, boardID, title, column string) (*CreatedTask, error) {
	record, err := tc.API().CreateTask(ctx, boardID, title, column)
	if err != nil {
		return nil, err
	}
	task := &CreatedTask{ID: record.Get("id").String(), Title: title, Column: column}

	tc.Cleanup("task "+task.ID, func(ctx context.Context) qaerr.CleanupStatus {
		return tc.API().DeleteTask(ctx, task.ID)
	})
	return task, nil
}

// CreatedArticle is a content draft arranged over the API.
type CreatedArticle struct {
	ID    string
	Title string
}

func NewArticle(ctx context.Context, tc *TestContext, title, body string) (*CreatedArticle, error) {
	record, err := tc.API().CreateArticle(ctx, title, body)
	if err != nil {
		return nil, err
	}
	article := &CreatedArticle{ID: record.Get("id").String(), Title: title}

	tc.Cleanup("article "+article.ID, func(ctx context.Context) qaerr.CleanupStatus {
		return tc.API().DeleteArticle(ctx, article.ID)
	})
	return article, nil
}
