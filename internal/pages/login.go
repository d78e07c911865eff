package pages

import (
	"time"

	"github.com/omniapp-io/omniapp-qa/internal/qaerr"
)

var (
	locLoginEmail    = css("input#email", "login email input")
	locLoginPassword = css("input#password", "login password input")
	locLoginSubmit   = css("button[type='submit']", "login submit button")
)

// LoginPage is the authentication screen.
type LoginPage struct {
	Base
}

func NewLoginPage(env Env) *LoginPage {
	return &LoginPage{Base: newBase(env, "login", "/login",
		[]Locator{locLoginEmail, locLoginPassword, locLoginSubmit})}
}

// Login submits the form and returns the dashboard once it has rendered.
// The password goes through the secret-typing path so it never reaches
// the logs.
func (p *LoginPage) Login(email, password string) (*DashboardPage, error) {
	if err := p.Type(locLoginEmail, email); err != nil {
		return nil, err
	}
	if err := p.TypeSecret(locLoginPassword, password); err != nil {
		return nil, err
	}
	if err := p.Click(locLoginSubmit); err != nil {
		return nil, err
	}
	dashboard := NewDashboardPage(p.env)
	if err := dashboard.WaitLoaded(); err != nil {
		return nil, qaerr.Wrap(qaerr.KindAuthentication, err, "dashboard did not appear after login as %s", email)
	}
	p.env.Log().Logger.Info().Str("email", email).Msg("ui login succeeded")
	return dashboard, nil
}

// LoginExpectingError submits bad credentials and returns the error
// toast text. The caller asserts on the message and that the URL still
// points at the login screen.
func (p *LoginPage) LoginExpectingError(email, password string, toastTimeout time.Duration) (string, error) {
	if err := p.Type(locLoginEmail, email); err != nil {
		return "", err
	}
	if err := p.TypeSecret(locLoginPassword, password); err != nil {
		return "", err
	}
	if err := p.Click(locLoginSubmit); err != nil {
		return "", err
	}
	return p.ErrorToastText(toastTimeout)
}
