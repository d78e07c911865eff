// Package fixtures assembles the per-test context and the reusable
// arrange/teardown building blocks: the logged-in session, created
// entities with registered cleanup, and unique data generators.
package fixtures

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/omniapp-io/omniapp-qa/internal/apiclient"
	"github.com/omniapp-io/omniapp-qa/internal/browser"
	"github.com/omniapp-io/omniapp-qa/internal/config"
	"github.com/omniapp-io/omniapp-qa/internal/logging"
	"github.com/omniapp-io/omniapp-qa/internal/report"
)

// TestContext bundles everything one test needs: settings, logger,
// report, API client, browser driver and the cleanup stack. It implements
// pages.Env so page objects can be built straight from it.
type TestContext struct {
	t        *testing.T
	settings *config.Settings
	log      *logging.TestLog
	rep      *report.Report
	api      *apiclient.Client
	driver   browser.Driver
	shots    *browser.ScreenshotSink
	cleanups *CleanupStack

	noBrowser bool
	closed    bool
}

// Option tunes context construction.
type Option func(*options)

type options struct {
	settings  *config.Settings
	driver    browser.Driver
	noBrowser bool
}

// WithSettings substitutes a preloaded settings bundle, mainly for tests
// that point the API client at a local server.
func WithSettings(s *config.Settings) Option {
	return func(o *options) { o.settings = s }
}

// WithDriver substitutes the browser driver, e.g. the in-memory fake.
func WithDriver(d browser.Driver) Option {
	return func(o *options) { o.driver = d }
}

// WithoutBrowser skips browser startup for API-only tests.
func WithoutBrowser() Option {
	return func(o *options) { o.noBrowser = true }
}

// New builds the context in dependency order: settings, logger, report,
// API client, driver, screenshot sink. Teardown is registered on t and
// runs in reverse order with each step isolated.
func New(t *testing.T, opts ...Option) *TestContext {
	t.Helper()
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	settings := o.settings
	if settings == nil {
		loaded, err := config.Load()
		require.NoError(t, err, "load settings")
		settings = loaded
	}

	log, err := logging.New(settings.ArtifactDir, t.Name())
	require.NoError(t, err, "open test log")

	rep := report.New(settings.ArtifactDir, t.Name())

	tc := &TestContext{
		t:         t,
		settings:  settings,
		log:       log,
		rep:       rep,
		cleanups:  NewCleanupStack(),
		noBrowser: o.noBrowser,
	}

	tc.api = apiclient.New(settings.APIURL, settings.APIKey,
		apiclient.WithLogger(log.Logger),
		apiclient.WithExchangeHook(func(method, url string, status int, reqBody, respBody []byte) {
			rep.AttachHTTP(method, url, status, string(reqBody), string(respBody))
		}),
	)

	switch {
	case o.driver != nil:
		tc.driver = o.driver
	case o.noBrowser:
		// API-only context: no driver, Capture is a no-op.
	default:
		session, err := browser.NewSession(settings, log.Logger)
		require.NoError(t, err, "start browser session")
		tc.driver = session
	}
	if tc.driver != nil {
		tc.shots = browser.NewScreenshotSink(tc.driver, settings.ArtifactDir, t.Name(), log.Logger)
		tc.shots.Attach = func(label, path string) {
			rep.Attach(label, "image/png", path)
		}
	}

	t.Cleanup(tc.Close)
	return tc
}

// Driver returns the browser driver, nil for API-only contexts.
func (tc *TestContext) Driver() browser.Driver { return tc.driver }

// Log returns the per-test log sink.
func (tc *TestContext) Log() *logging.TestLog { return tc.log }

// Capture takes a labeled screenshot, best-effort.
func (tc *TestContext) Capture(label string) string {
	if tc.shots == nil {
		return ""
	}
	return tc.shots.Capture(label)
}

// FrontendURL is the base address of the application UI.
func (tc *TestContext) FrontendURL() string { return tc.settings.FrontendURL }

// WaitTimeout is the default explicit-wait timeout.
func (tc *TestContext) WaitTimeout() time.Duration { return tc.settings.DefaultTimeout }

// Settings returns the immutable settings bundle.
func (tc *TestContext) Settings() *config.Settings { return tc.settings }

// API returns the HTTP client bound to this context.
func (tc *TestContext) API() *apiclient.Client { return tc.api }

// Report returns the event stream collector.
func (tc *TestContext) Report() *report.Report { return tc.rep }

// Step runs fn as a named report step.
func (tc *TestContext) Step(name string, fn func() error) error {
	return tc.rep.Step(name, fn)
}

// Cleanup registers a teardown action on the LIFO stack.
func (tc *TestContext) Cleanup(label string, fn CleanupFunc) {
	tc.cleanups.Push(label, fn)
}

// Close tears the context down in reverse construction order. Every step
// runs even when earlier ones fail; cleanup failures are logged, never
// panicked. Registered once in New via t.Cleanup.
func (tc *TestContext) Close() {
	if tc.closed {
		return
	}
	tc.closed = true

	if tc.t.Failed() {
		tc.Capture("final_state")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if failed := tc.cleanups.Run(ctx, tc.log.Logger); failed > 0 {
		tc.log.Logger.Warn().Int("failed", failed).Msg("cleanup stack finished with failures")
	}

	if tail := tc.log.Tail(); tail != "" {
		tc.rep.AttachText("log tail", tail)
	}

	if tc.driver != nil {
		if err := tc.driver.Close(); err != nil {
			tc.log.Logger.Warn().Err(err).Msg("driver close failed")
		}
	}

	outcome := "passed"
	if tc.t.Failed() {
		outcome = "failed"
		if tc.rep.SawInfrastructureFailure() {
			outcome = "errored"
		}
	}
	if err := tc.rep.Flush(outcome); err != nil {
		tc.log.Logger.Warn().Err(err).Msg("report flush failed")
	}

	_ = tc.log.Close()
}
