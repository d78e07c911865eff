package suite

import "github.com/omniapp-io/omniapp-qa/internal/markers"

// The test inventory. Lives in non-test code so the e2ectl CLI can list
// and filter the suite without compiling the test binaries. A test file
// that forgets its entry still runs; it just ignores marker filters.
var _ = func() struct{} {
	// connectivity
	Register("TestFrontendReachable", "frontend serves the login screen",
		markers.Smoke, markers.Sanity, markers.UI, markers.Critical)

	// auth
	Register("TestLoginWithValidCredentials", "valid login lands on the dashboard",
		markers.Smoke, markers.UI, markers.Critical, markers.Security)
	Register("TestLoginWithInvalidCredentials", "bad password shows an error and stays on login",
		markers.Smoke, markers.UI, markers.High, markers.Security)
	Register("TestLogoutEndsSession", "logout returns to the login screen",
		markers.Regression, markers.UI, markers.Medium, markers.Security)

	// shop
	Register("TestAddProductToCart", "adding a product bumps the cart counter",
		markers.Smoke, markers.UI, markers.Critical)
	Register("TestCartPersistsAcrossSessions", "cart contents survive logout and login",
		markers.Regression, markers.UI, markers.High)
	Register("TestPromoCodeAppliesDiscount", "promo code shows a discount row and lowers the total",
		markers.Regression, markers.UI, markers.Medium)

	// social
	Register("TestCreateAndDeletePost", "posting and deleting round-trips the feed",
		markers.Regression, markers.UI, markers.High)
	Register("TestLikeAndCommentOnPost", "likes and comments update the post card",
		markers.Regression, markers.UI, markers.Medium)

	// tasks
	Register("TestCreateTaskOnBoard", "new task card renders in its column",
		markers.Regression, markers.UI, markers.Medium)
	Register("TestMoveTaskBetweenColumns", "dragging a card moves it between kanban columns",
		markers.Regression, markers.UI, markers.High)
	Register("TestAssignTaskToUser", "assigning a card in the dialog lands on the task record",
		markers.Regression, markers.UI, markers.Medium)

	// content
	Register("TestPublishArticle", "publishing flips a draft's status badge",
		markers.Regression, markers.UI, markers.Medium)

	// analytics
	Register("TestAnalyticsRangeSwitch", "switching the reporting range refreshes the charts",
		markers.Regression, markers.UI, markers.Low)

	// profile
	Register("TestProfileMatchesAuthIdentity", "profile shows the same identity as /auth/me",
		markers.Regression, markers.UI, markers.Medium, markers.Security)
	Register("TestChangePassword", "password rotation works and the old one stops working",
		markers.Regression, markers.UI, markers.High, markers.Security)
	Register("TestDeleteAccount", "account deletion invalidates the credentials",
		markers.Regression, markers.UI, markers.High, markers.Security)

	// api
	Register("TestAPIHealth", "API health endpoint answers",
		markers.Smoke, markers.Sanity, markers.API, markers.Critical)
	Register("TestRegisterLoginAndFetchIdentity", "register, login and /auth/me agree",
		markers.Smoke, markers.API, markers.Critical, markers.Security)
	Register("TestUserLifecycle", "user create, read, update, delete over the API",
		markers.Regression, markers.API, markers.High)
	Register("TestAuthNegativePaths", "unauthenticated and bad-credential calls are rejected",
		markers.Regression, markers.API, markers.High, markers.Security)
	Register("TestErrorResponseShapes", "404 and 409 responses carry the documented shape",
		markers.Regression, markers.API, markers.Medium)
	Register("TestRegisteringDuplicateEmailConflicts", "duplicate registration returns 409",
		markers.Regression, markers.API, markers.Medium)
	Register("TestServerErrorEndpoint", "deliberate 500 endpoint reports infrastructure failure",
		markers.Regression, markers.API, markers.Low)

	return struct{}{}
}()
