package pages

// Application shell navigation. The nav bar is rendered on every
// authenticated screen, but navigation verbs live here because tests
// always start from the dashboard.
var (
	locNavBar        = css("nav.app-nav", "navigation bar")
	locUserName      = testID("user-name", "user name display")
	locNavShop       = css("nav.app-nav a[href='/shop']", "shop nav link")
	locNavCart       = css("nav.app-nav a[href='/cart']", "cart nav link")
	locNavSocial     = css("nav.app-nav a[href='/social']", "social nav link")
	locNavTasks      = css("nav.app-nav a[href='/tasks']", "tasks nav link")
	locNavContent    = css("nav.app-nav a[href='/content']", "content nav link")
	locNavAnalytics  = css("nav.app-nav a[href='/analytics']", "analytics nav link")
	locNavProfile    = css("nav.app-nav a[href='/profile']", "profile nav link")
	locLogoutButton  = testID("logout-button", "logout button")
	locWelcomeBanner = css(".welcome-banner", "welcome banner")
)

// DashboardPage is the landing screen after login.
type DashboardPage struct {
	Base
}

func NewDashboardPage(env Env) *DashboardPage {
	return &DashboardPage{Base: newBase(env, "dashboard", "/dashboard",
		[]Locator{locNavBar, locUserName})}
}

// UserName returns the displayed account name.
func (p *DashboardPage) UserName() (string, error) {
	return p.TextOf(locUserName)
}

// HasWelcomeBanner reports whether the first-visit banner is shown.
func (p *DashboardPage) HasWelcomeBanner() bool {
	return p.IsPresent(locWelcomeBanner)
}

func (p *DashboardPage) OpenShop() (*ShopPage, error) {
	if err := p.Click(locNavShop); err != nil {
		return nil, err
	}
	next := NewShopPage(p.env)
	return next, next.WaitLoaded()
}

func (p *DashboardPage) OpenCart() (*CartPage, error) {
	if err := p.Click(locNavCart); err != nil {
		return nil, err
	}
	next := NewCartPage(p.env)
	return next, next.WaitLoaded()
}

func (p *DashboardPage) OpenSocial() (*SocialPage, error) {
	if err := p.Click(locNavSocial); err != nil {
		return nil, err
	}
	next := NewSocialPage(p.env)
	return next, next.WaitLoaded()
}

func (p *DashboardPage) OpenTasks() (*TasksPage, error) {
	if err := p.Click(locNavTasks); err != nil {
		return nil, err
	}
	next := NewTasksPage(p.env)
	return next, next.WaitLoaded()
}

func (p *DashboardPage) OpenContent() (*ContentPage, error) {
	if err := p.Click(locNavContent); err != nil {
		return nil, err
	}
	next := NewContentPage(p.env)
	return next, next.WaitLoaded()
}

func (p *DashboardPage) OpenAnalytics() (*AnalyticsPage, error) {
	if err := p.Click(locNavAnalytics); err != nil {
		return nil, err
	}
	next := NewAnalyticsPage(p.env)
	return next, next.WaitLoaded()
}

func (p *DashboardPage) OpenProfile() (*ProfilePage, error) {
	if err := p.Click(locNavProfile); err != nil {
		return nil, err
	}
	next := NewProfilePage(p.env)
	return next, next.WaitLoaded()
}

// Logout ends the UI session and returns the login screen.
func (p *DashboardPage) Logout() (*LoginPage, error) {
	if err := p.Click(locLogoutButton); err != nil {
		return nil, err
	}
	next := NewLoginPage(p.env)
	return next, next.WaitLoaded()
}
