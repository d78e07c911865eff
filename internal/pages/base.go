// Package pages holds the page objects for every application screen plus
// the Base primitives they are built from. All DOM interaction in the
// harness goes through Base: explicit waits only, centralized stale
// retry, secret-aware typing, screenshot on failure.
package pages

import (
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/omniapp-io/omniapp-qa/internal/browser"
	"github.com/omniapp-io/omniapp-qa/internal/logging"
	"github.com/omniapp-io/omniapp-qa/internal/qaerr"
)

// Env is what a page object needs from the test context. The context
// type in the fixtures package implements it; the framework's own tests
// substitute a fake.
type Env interface {
	Driver() browser.Driver
	Log() *logging.TestLog
	// Capture takes a screenshot and returns its path, best-effort.
	Capture(label string) string
	FrontendURL() string
	WaitTimeout() time.Duration
}

const (
	pollInterval  = 250 * time.Millisecond
	clickAttempts = 4 // one try plus up to three retries
	retryBackoff  = 250 * time.Millisecond
)

// Shared transient UI of the application shell. Every screen renders the
// same toast and overlay components.
var (
	locToastSuccess   = css(".toast-success", "success toast")
	locToastError     = css(".toast-error", "error toast")
	locLoadingOverlay = css(".loading-overlay", "loading overlay")
)

// Base is embedded by every concrete page object.
type Base struct {
	env  Env
	name string
	path string
	key  []Locator
}

func newBase(env Env, name, path string, key []Locator) Base {
	return Base{env: env, name: name, path: path, key: key}
}

// URL is the absolute address of this screen.
func (b *Base) URL() string { return b.env.FrontendURL() + b.path }

// Name is the screen name used in logs.
func (b *Base) Name() string { return b.name }

// Load navigates to the page and waits until every key element is
// visible. It returns only once IsLoaded would report true, or fails
// with a timeout-kind error.
func (b *Base) Load() error {
	b.env.Log().Logger.Info().Str("page", b.name).Str("url", b.URL()).Msg("loading page")
	if err := b.env.Driver().Navigate(b.URL()); err != nil {
		return err
	}
	for _, loc := range b.key {
		if _, err := b.WaitVisible(loc, 0); err != nil {
			return err
		}
	}
	return nil
}

// WaitLoaded waits for the key elements without navigating, for screens
// reached by an in-app transition rather than a direct load.
func (b *Base) WaitLoaded() error {
	for _, loc := range b.key {
		if _, err := b.WaitVisible(loc, 0); err != nil {
			return err
		}
	}
	return nil
}

// CurrentURL returns the browser's current address.
func (b *Base) CurrentURL() string { return b.env.Driver().URL() }

// IsLoaded reports whether every key element is currently visible.
func (b *Base) IsLoaded() bool {
	for _, loc := range b.key {
		visible, err := b.find(loc).IsVisible()
		if err != nil || !visible {
			return false
		}
	}
	return true
}

func (b *Base) find(loc Locator) browser.Element {
	return b.env.Driver().Find(loc.Selector())
}

func (b *Base) timeout(override time.Duration) time.Duration {
	if override > 0 {
		return override
	}
	if t := b.env.WaitTimeout(); t > 0 {
		return t
	}
	return 10 * time.Second
}

// WaitVisible blocks until the element is visible. A zero timeout means
// the context default.
func (b *Base) WaitVisible(loc Locator, timeout time.Duration) (browser.Element, error) {
	t := b.timeout(timeout)
	el := b.find(loc)
	if err := el.WaitVisible(t); err != nil {
		return nil, b.timeoutErr(loc, err, "element not visible within %s", t)
	}
	return el, nil
}

// WaitClickable blocks until the element is visible and enabled.
func (b *Base) WaitClickable(loc Locator, timeout time.Duration) (browser.Element, error) {
	t := b.timeout(timeout)
	deadline := time.Now().Add(t)
	el, err := b.WaitVisible(loc, t)
	if err != nil {
		return nil, err
	}
	for {
		enabled, err := el.IsEnabled()
		if err == nil && enabled {
			return el, nil
		}
		if time.Now().After(deadline) {
			return nil, b.timeoutErr(loc, err, "element not clickable within %s", t)
		}
		time.Sleep(pollInterval)
	}
}

// WaitInvisible succeeds when the element is absent or hidden.
func (b *Base) WaitInvisible(loc Locator, timeout time.Duration) error {
	t := b.timeout(timeout)
	if err := b.find(loc).WaitHidden(t); err != nil {
		return b.timeoutErr(loc, err, "element still visible after %s", t)
	}
	return nil
}

// Click waits for the element to be clickable, scrolls it into view and
// clicks. Stale or obscured elements are retried up to three times with
// a fixed backoff; the fourth failure is surfaced as an interaction
// error with a screenshot attached.
func (b *Base) Click(loc Locator) error {
	b.env.Log().Logger.Debug().Str("element", loc.Label()).Msg("click")
	err := retry.Do(
		func() error {
			el, err := b.WaitClickable(loc, 0)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			if err := el.ScrollIntoView(); err != nil {
				return err
			}
			return el.Click()
		},
		retry.Attempts(clickAttempts),
		retry.Delay(retryBackoff),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransientInteraction),
	)
	if err != nil {
		if qaerr.IsTimeout(err) {
			return err
		}
		shot := b.env.Capture("click_failed_" + loc.Label())
		return qaerr.Wrap(qaerr.KindInteraction, err, "click failed after retries").
			WithLabel(loc.Label()).
			WithURL(b.env.Driver().URL()).
			WithScreenshot(shot)
	}
	return nil
}

// Type waits for the field, clears it and types text. The value appears
// in the debug log, so never pass passwords here: use TypeSecret.
func (b *Base) Type(loc Locator, text string) error {
	b.env.Log().Logger.Debug().Str("element", loc.Label()).Str("value", text).Msg("type")
	return b.typeValue(loc, text)
}

// TypeSecret types a sensitive value. The value is registered with the
// log redactor before anything is written, so it can never appear in any
// log attachment.
func (b *Base) TypeSecret(loc Locator, secret string) error {
	b.env.Log().RegisterSecret(secret)
	b.env.Log().Logger.Debug().Str("element", loc.Label()).Msg("type secret")
	return b.typeValue(loc, secret)
}

func (b *Base) typeValue(loc Locator, text string) error {
	err := retry.Do(
		func() error {
			el, err := b.WaitVisible(loc, 0)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			if err := el.Clear(); err != nil {
				return err
			}
			return el.Fill(text)
		},
		retry.Attempts(clickAttempts),
		retry.Delay(retryBackoff),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransientInteraction),
	)
	if err != nil {
		if qaerr.IsTimeout(err) {
			return err
		}
		shot := b.env.Capture("type_failed_" + loc.Label())
		return qaerr.Wrap(qaerr.KindInteraction, err, "type failed after retries").
			WithLabel(loc.Label()).
			WithURL(b.env.Driver().URL()).
			WithScreenshot(shot)
	}
	return nil
}

// TextOf waits for the element and returns its trimmed text.
func (b *Base) TextOf(loc Locator) (string, error) {
	el, err := b.WaitVisible(loc, 0)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", qaerr.Wrap(qaerr.KindInteraction, err, "read text").WithLabel(loc.Label())
	}
	return strings.TrimSpace(text), nil
}

// ValueOf waits for a form control and returns its current value. Inputs
// have no inner text, so reading them through TextOf yields nothing.
func (b *Base) ValueOf(loc Locator) (string, error) {
	el, err := b.WaitVisible(loc, 0)
	if err != nil {
		return "", err
	}
	value, err := el.Value()
	if err != nil {
		return "", qaerr.Wrap(qaerr.KindInteraction, err, "read value").WithLabel(loc.Label())
	}
	return strings.TrimSpace(value), nil
}

// ScrollTo brings the element into the viewport.
func (b *Base) ScrollTo(loc Locator) error {
	el, err := b.WaitVisible(loc, 0)
	if err != nil {
		return err
	}
	if err := el.ScrollIntoView(); err != nil {
		return qaerr.Wrap(qaerr.KindInteraction, err, "scroll into view").WithLabel(loc.Label())
	}
	return nil
}

// IsPresent reports whether at least one matching element exists. It
// never raises; lookup errors read as absent.
func (b *Base) IsPresent(loc Locator) bool {
	n, err := b.find(loc).Count()
	return err == nil && n > 0
}

// WaitFor polls a domain predicate until it holds. Label explains what
// is being awaited; this is the only sanctioned non-element wait.
func (b *Base) WaitFor(label string, timeout time.Duration, predicate func() bool) error {
	t := b.timeout(timeout)
	deadline := time.Now().Add(t)
	for {
		if predicate() {
			return nil
		}
		if time.Now().After(deadline) {
			shot := b.env.Capture("wait_failed_" + label)
			return qaerr.New(qaerr.KindTimeout, "condition %q not met within %s", label, t).
				WithLabel(label).
				WithURL(b.env.Driver().URL()).
				WithScreenshot(shot)
		}
		time.Sleep(pollInterval)
	}
}

// WaitSuccessToast waits for the success toast to appear and then clear.
func (b *Base) WaitSuccessToast() error {
	if _, err := b.WaitVisible(locToastSuccess, 0); err != nil {
		return err
	}
	return b.WaitInvisible(locToastSuccess, 0)
}

// ErrorToastText waits for the error toast and returns its text.
func (b *Base) ErrorToastText(timeout time.Duration) (string, error) {
	el, err := b.WaitVisible(locToastError, timeout)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", qaerr.Wrap(qaerr.KindInteraction, err, "read error toast")
	}
	return strings.TrimSpace(text), nil
}

// WaitOverlayGone blocks until the loading overlay has cleared. Pages
// that trigger the overlay call this before returning from a verb.
func (b *Base) WaitOverlayGone() error {
	return b.WaitInvisible(locLoadingOverlay, 0)
}

func (b *Base) timeoutErr(loc Locator, cause error, format string, args ...any) error {
	shot := b.env.Capture("timeout_" + loc.Label())
	return qaerr.Wrap(qaerr.KindTimeout, cause, format, args...).
		WithLabel(loc.Label()).
		WithURL(b.env.Driver().URL()).
		WithScreenshot(shot)
}

func isTransientInteraction(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "stale") ||
		strings.Contains(msg, "detached") ||
		strings.Contains(msg, "not attached") ||
		strings.Contains(msg, "intercepts pointer events") ||
		strings.Contains(msg, "obscure")
}
