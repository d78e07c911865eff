package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"

	"github.com/omniapp-io/omniapp-qa/internal/config"
	"github.com/omniapp-io/omniapp-qa/internal/qaerr"
)

// Session is the Playwright-backed Driver. One session per test; no two
// operations against the same session ever overlap.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	log     zerolog.Logger
}

// NewSession launches a browser per the settings. Teardown order in Close
// is page, context, browser, then the driver process.
func NewSession(settings *config.Settings, log zerolog.Logger) (*Session, error) {
	if os.Getenv("PLAYWRIGHT_PREINSTALLED") != "1" {
		if err := playwright.Install(); err != nil {
			return nil, qaerr.Wrap(qaerr.KindInfrastructure, err, "install playwright browsers")
		}
	}
	pw, err := playwright.Run()
	if err != nil {
		// One explicit driver install retry covers version-drift images.
		_ = playwright.Install()
		pw, err = playwright.Run()
		if err != nil {
			return nil, qaerr.Wrap(qaerr.KindInfrastructure, err, "start playwright")
		}
	}

	s := &Session{pw: pw, log: log}

	var browserType playwright.BrowserType
	switch settings.Browser {
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	default:
		browserType = pw.Chromium
	}

	s.browser, err = browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(settings.Headless),
		SlowMo:   playwright.Float(float64(settings.SlowMo.Milliseconds())),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, qaerr.Wrap(qaerr.KindInfrastructure, err, "launch %s", settings.Browser)
	}

	ctxOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  settings.ViewportW,
			Height: settings.ViewportH,
		},
	}
	if settings.RecordVideo {
		ctxOpts.RecordVideo = &playwright.RecordVideo{
			Dir: filepath.Join(settings.ArtifactDir, "videos"),
		}
	}
	s.context, err = s.browser.NewContext(ctxOpts)
	if err != nil {
		s.Close()
		return nil, qaerr.Wrap(qaerr.KindInfrastructure, err, "create browser context")
	}

	s.page, err = s.context.NewPage()
	if err != nil {
		s.Close()
		return nil, qaerr.Wrap(qaerr.KindInfrastructure, err, "create page")
	}
	s.page.SetDefaultTimeout(float64(settings.DefaultTimeout.Milliseconds()))
	s.page.SetDefaultNavigationTimeout(float64(settings.NavTimeout.Milliseconds()))

	log.Info().
		Str("browser", settings.Browser).
		Bool("headless", settings.Headless).
		Msg("browser session started")
	return s, nil
}

func (s *Session) Navigate(url string) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return qaerr.Wrap(qaerr.KindInfrastructure, err, "navigate to %s", url)
	}
	return nil
}

func (s *Session) URL() string { return s.page.URL() }

func (s *Session) Title() (string, error) { return s.page.Title() }

func (s *Session) Find(selector string) Element {
	return &pwElement{loc: s.page.Locator(selector)}
}

func (s *Session) Eval(script string) (any, error) {
	return s.page.Evaluate(script)
}

func (s *Session) Screenshot() ([]byte, error) {
	return s.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
}

func (s *Session) SetViewport(width, height int) error {
	return s.page.SetViewportSize(width, height)
}

// Close releases every layer, keeping going past individual failures so a
// crashed page cannot leak the driver process.
func (s *Session) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.page != nil {
		keep(s.page.Close())
		s.page = nil
	}
	if s.context != nil {
		keep(s.context.Close())
		s.context = nil
	}
	if s.browser != nil {
		keep(s.browser.Close())
		s.browser = nil
	}
	if s.pw != nil {
		keep(s.pw.Stop())
		s.pw = nil
	}
	if firstErr != nil {
		return fmt.Errorf("close browser session: %w", firstErr)
	}
	return nil
}

type pwElement struct {
	loc playwright.Locator
}

func (e *pwElement) WaitVisible(timeout time.Duration) error {
	return e.loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (e *pwElement) WaitHidden(timeout time.Duration) error {
	return e.loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateHidden,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (e *pwElement) Click() error           { return e.loc.Click() }
func (e *pwElement) Fill(text string) error { return e.loc.Fill(text) }
func (e *pwElement) Clear() error           { return e.loc.Clear() }

func (e *pwElement) Text() (string, error) { return e.loc.First().InnerText() }

func (e *pwElement) Texts() ([]string, error) { return e.loc.AllInnerTexts() }

func (e *pwElement) Value() (string, error) { return e.loc.First().InputValue() }

func (e *pwElement) IsVisible() (bool, error) { return e.loc.IsVisible() }
func (e *pwElement) IsEnabled() (bool, error) { return e.loc.IsEnabled() }
func (e *pwElement) Count() (int, error)      { return e.loc.Count() }

func (e *pwElement) ScrollIntoView() error {
	return e.loc.ScrollIntoViewIfNeeded()
}

func (e *pwElement) DragTo(target Element) error {
	other, ok := target.(*pwElement)
	if !ok {
		return fmt.Errorf("drag target is not a playwright element")
	}
	return e.loc.DragTo(other.loc)
}
