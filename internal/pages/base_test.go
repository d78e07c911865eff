package pages

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniapp-io/omniapp-qa/internal/browser"
	"github.com/omniapp-io/omniapp-qa/internal/browser/browsertest"
	"github.com/omniapp-io/omniapp-qa/internal/logging"
	"github.com/omniapp-io/omniapp-qa/internal/qaerr"
)

// fakeEnv satisfies Env on top of the in-memory driver.
type fakeEnv struct {
	driver   *browsertest.FakeDriver
	log      *logging.TestLog
	captures []string
	timeout  time.Duration
}

func newFakeEnv(t *testing.T) *fakeEnv {
	t.Helper()
	tl, err := logging.New(t.TempDir(), t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tl.Close() })
	return &fakeEnv{
		driver:  browsertest.NewFakeDriver(),
		log:     tl,
		timeout: 400 * time.Millisecond,
	}
}

func (e *fakeEnv) Driver() browser.Driver     { return e.driver }
func (e *fakeEnv) Log() *logging.TestLog      { return e.log }
func (e *fakeEnv) FrontendURL() string        { return "http://app.test" }
func (e *fakeEnv) WaitTimeout() time.Duration { return e.timeout }

func (e *fakeEnv) Capture(label string) string {
	e.captures = append(e.captures, label)
	return "/artifacts/" + label + ".png"
}

func testBase(env *fakeEnv, key ...Locator) *Base {
	b := newBase(env, "fixture", "/fixture", key)
	return &b
}

func TestClickRetriesStaleElementsThenSucceeds(t *testing.T) {
	env := newFakeEnv(t)
	el := env.driver.Add("#go", &browsertest.FakeElement{Visible: true, Enabled: true, N: 1})
	el.StaleClicks = 3

	b := testBase(env)
	err := b.Click(css("#go", "go button"))
	require.NoError(t, err)
	assert.Equal(t, 4, el.Clicks, "three stale failures, fourth click lands")
	assert.GreaterOrEqual(t, el.Scrolled, 1)
}

func TestClickSurfacesAfterThreeRetries(t *testing.T) {
	env := newFakeEnv(t)
	el := env.driver.Add("#go", &browsertest.FakeElement{Visible: true, Enabled: true, N: 1})
	el.StaleClicks = 10 // never recovers

	b := testBase(env)
	err := b.Click(css("#go", "go button"))
	require.Error(t, err)
	assert.Equal(t, qaerr.KindInteraction, qaerr.KindOf(err))
	assert.Equal(t, 4, el.Clicks, "at most three retries after the first attempt")
	assert.NotEmpty(t, env.captures, "failed click must capture a screenshot")
}

func TestClickDoesNotRetryNonTransientFailures(t *testing.T) {
	env := newFakeEnv(t)
	el := env.driver.Add("#go", &browsertest.FakeElement{Visible: true, Enabled: true, N: 1})
	el.ClickErr = os.ErrPermission

	b := testBase(env)
	err := b.Click(css("#go", "go button"))
	require.Error(t, err)
	assert.Equal(t, 1, el.Clicks, "a non-transient failure is not retried")
}

func TestWaitVisibleTimeoutIsTypedAndLabeled(t *testing.T) {
	env := newFakeEnv(t)
	env.driver.SetURL("http://app.test/somewhere")

	b := testBase(env)
	_, err := b.WaitVisible(css("#ghost", "ghost element"), 50*time.Millisecond)
	require.Error(t, err)

	var qe *qaerr.Error
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, qaerr.KindTimeout, qe.Kind)
	assert.Equal(t, "ghost element", qe.Label)
	assert.Equal(t, "http://app.test/somewhere", qe.URL)
	assert.NotEmpty(t, qe.Screenshot)
}

func TestWaitClickableRejectsDisabledElement(t *testing.T) {
	env := newFakeEnv(t)
	env.driver.Add("#save", &browsertest.FakeElement{Visible: true, Enabled: false, N: 1})

	b := testBase(env)
	_, err := b.WaitClickable(css("#save", "save button"), 300*time.Millisecond)
	require.Error(t, err)
	assert.True(t, qaerr.IsTimeout(err))
}

func TestWaitInvisibleSucceedsForAbsentElement(t *testing.T) {
	env := newFakeEnv(t)
	b := testBase(env)
	assert.NoError(t, b.WaitInvisible(css("#gone", "vanished panel"), 100*time.Millisecond))
}

func TestTypeSecretNeverReachesLogs(t *testing.T) {
	env := newFakeEnv(t)
	env.driver.Add("#password", &browsertest.FakeElement{Visible: true, Enabled: true, N: 1})

	b := testBase(env)
	require.NoError(t, b.TypeSecret(css("#password", "password input"), "hunter2secret"))
	b.env.Log().Logger.Info().Msg("after typing hunter2secret the flow continues")
	require.NoError(t, env.log.Close())

	raw, err := os.ReadFile(env.log.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hunter2secret")
	assert.NotContains(t, env.log.Tail(), "hunter2secret")
}

func TestTypeClearsBeforeFilling(t *testing.T) {
	env := newFakeEnv(t)
	el := env.driver.Add("#email", &browsertest.FakeElement{Visible: true, Enabled: true, N: 1})

	b := testBase(env)
	require.NoError(t, b.Type(css("#email", "email input"), "test@example.com"))
	assert.Equal(t, 1, el.Cleared)
	assert.Equal(t, []string{"test@example.com"}, el.Filled)
}

func TestTextOfTrimsWhitespace(t *testing.T) {
	env := newFakeEnv(t)
	env.driver.Add(".total", &browsertest.FakeElement{Visible: true, Enabled: true, N: 1, Content: "  $42.00\n"})

	b := testBase(env)
	text, err := b.TextOf(css(".total", "cart total"))
	require.NoError(t, err)
	assert.Equal(t, "$42.00", text)
}

func TestValueOfReadsFormControlNotInnerText(t *testing.T) {
	env := newFakeEnv(t)
	env.driver.Add("#qty", &browsertest.FakeElement{Visible: true, Enabled: true, N: 1, FormValue: " 2 "})

	b := testBase(env)
	value, err := b.ValueOf(css("#qty", "quantity input"))
	require.NoError(t, err)
	assert.Equal(t, "2", value)
}

func TestCartQuantityComesFromInputValue(t *testing.T) {
	env := newFakeEnv(t)
	// Inputs render with empty inner text, only the form value carries
	// the quantity.
	env.driver.Add(`.cart-item:has-text("Laptop Pro") input.item-qty`,
		&browsertest.FakeElement{Visible: true, Enabled: true, N: 1, Content: "", FormValue: "3"})

	cart := NewCartPage(env)
	qty, err := cart.QuantityOf("Laptop Pro")
	require.NoError(t, err)
	assert.Equal(t, 3, qty)
}

func TestIsPresentNeverRaises(t *testing.T) {
	env := newFakeEnv(t)
	b := testBase(env)
	assert.False(t, b.IsPresent(css("#nope", "missing element")))

	env.driver.Add("#yes", &browsertest.FakeElement{Visible: true, Enabled: true, N: 2})
	assert.True(t, b.IsPresent(css("#yes", "present element")))
}

func TestLoadWaitsForAllKeyElements(t *testing.T) {
	env := newFakeEnv(t)
	env.driver.Add("#a", &browsertest.FakeElement{Visible: true, Enabled: true, N: 1})
	env.driver.Add("#b", &browsertest.FakeElement{Visible: true, Enabled: true, N: 1})

	b := testBase(env, css("#a", "header"), css("#b", "table"))
	require.NoError(t, b.Load())
	assert.Equal(t, []string{"http://app.test/fixture"}, env.driver.NavigatedTo)
	assert.True(t, b.IsLoaded())
}

func TestLoadFailsWithTimeoutWhenKeyElementMissing(t *testing.T) {
	env := newFakeEnv(t)
	env.driver.Add("#a", &browsertest.FakeElement{Visible: true, Enabled: true, N: 1})

	b := testBase(env, css("#a", "header"), css("#missing", "table"))
	err := b.Load()
	require.Error(t, err)
	assert.True(t, qaerr.IsTimeout(err))
	assert.False(t, b.IsLoaded())
}

func TestWaitForPollsDomainPredicate(t *testing.T) {
	env := newFakeEnv(t)
	b := testBase(env)

	calls := 0
	err := b.WaitFor("counter reaches three", time.Second, func() bool {
		calls++
		return calls >= 3
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWaitForTimeoutCarriesLabel(t *testing.T) {
	env := newFakeEnv(t)
	b := testBase(env)

	err := b.WaitFor("cart counter reads 2", 50*time.Millisecond, func() bool { return false })
	require.Error(t, err)

	var qe *qaerr.Error
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, qaerr.KindTimeout, qe.Kind)
	assert.Contains(t, qe.Label, "cart counter")
}

func TestLocatorSelectorRendering(t *testing.T) {
	assert.Equal(t, "#login", css("#login", "x").Selector())
	assert.Equal(t, "xpath=//div[@id='a']", xpath("//div[@id='a']", "x").Selector())
	assert.Equal(t, `[data-testid="cart-count"]`, testID("cart-count", "x").Selector())
	assert.Equal(t, "text=Sign in", byText("Sign in", "x").Selector())
}
