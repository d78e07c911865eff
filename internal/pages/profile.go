package pages

var (
	locProfileForm     = css("form#profile-form", "profile form")
	locProfileEmail    = testID("profile-email", "profile email display")
	locProfileName     = testID("profile-name", "profile name display")
	locOldPassword     = css("input#current-password", "current password input")
	locNewPassword     = css("input#new-password", "new password input")
	locConfirmPassword = css("input#confirm-password", "confirm password input")
	locPasswordSave    = testID("password-save", "save password button")
	locDeleteAccount   = testID("delete-account", "delete account button")
	locDeleteConfirmIn = css("input#delete-confirmation", "delete confirmation input")
	locDeleteConfirmGo = testID("delete-confirm", "confirm deletion button")
)

// ProfilePage is the account settings screen.
type ProfilePage struct {
	Base
}

func NewProfilePage(env Env) *ProfilePage {
	return &ProfilePage{Base: newBase(env, "profile", "/profile", []Locator{locProfileForm})}
}

// DisplayedEmail returns the email shown on the profile.
func (p *ProfilePage) DisplayedEmail() (string, error) {
	return p.TextOf(locProfileEmail)
}

// DisplayedName returns the display name shown on the profile.
func (p *ProfilePage) DisplayedName() (string, error) {
	return p.TextOf(locProfileName)
}

// ChangePassword rotates the account password. All three inputs go
// through the secret path.
func (p *ProfilePage) ChangePassword(current, next string) error {
	if err := p.TypeSecret(locOldPassword, current); err != nil {
		return err
	}
	if err := p.TypeSecret(locNewPassword, next); err != nil {
		return err
	}
	if err := p.TypeSecret(locConfirmPassword, next); err != nil {
		return err
	}
	if err := p.Click(locPasswordSave); err != nil {
		return err
	}
	return p.WaitSuccessToast()
}

// DeleteAccount runs the destructive flow. The confirmation string is a
// settings value because the app localizes it. Returns the login page
// the app redirects to.
func (p *ProfilePage) DeleteAccount(confirmation string) (*LoginPage, error) {
	if err := p.Click(locDeleteAccount); err != nil {
		return nil, err
	}
	if err := p.Type(locDeleteConfirmIn, confirmation); err != nil {
		return nil, err
	}
	if err := p.Click(locDeleteConfirmGo); err != nil {
		return nil, err
	}
	next := NewLoginPage(p.env)
	return next, next.WaitLoaded()
}
