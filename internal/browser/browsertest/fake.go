// Package browsertest provides an in-memory Driver for exercising the
// page and fixture layers without a real browser.
package browsertest

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/omniapp-io/omniapp-qa/internal/browser"
)

// FakeDriver is a scriptable browser.Driver. Selectors map to FakeElement
// values configured by the test; unknown selectors resolve to an absent
// element.
type FakeDriver struct {
	mu       sync.Mutex
	url      string
	title    string
	elements map[string]*FakeElement
	navErr   error

	NavigatedTo []string
	ShotCount   int
}

func NewFakeDriver() *FakeDriver {
	return &FakeDriver{elements: map[string]*FakeElement{}}
}

// Add registers an element under a selector and returns it for tuning.
func (d *FakeDriver) Add(selector string, el *FakeElement) *FakeElement {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el == nil {
		el = &FakeElement{Visible: true, Enabled: true, N: 1}
	}
	d.elements[selector] = el
	return el
}

// SetURL fakes the current address, e.g. after a scripted redirect.
func (d *FakeDriver) SetURL(url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url = url
}

// FailNavigation makes subsequent Navigate calls return err.
func (d *FakeDriver) FailNavigation(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.navErr = err
}

func (d *FakeDriver) Navigate(url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.navErr != nil {
		return d.navErr
	}
	d.url = url
	d.NavigatedTo = append(d.NavigatedTo, url)
	return nil
}

func (d *FakeDriver) URL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url
}

func (d *FakeDriver) Title() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title, nil
}

func (d *FakeDriver) Find(selector string) browser.Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok := d.elements[selector]; ok {
		return el
	}
	// Absent element: never visible, zero count.
	return &FakeElement{absent: true}
}

func (d *FakeDriver) Eval(script string) (any, error) { return nil, nil }

func (d *FakeDriver) Screenshot() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ShotCount++
	return []byte("fake-png"), nil
}

func (d *FakeDriver) SetViewport(width, height int) error { return nil }

func (d *FakeDriver) Close() error { return nil }

// FakeElement is a scriptable browser.Element.
type FakeElement struct {
	mu sync.Mutex

	Visible bool
	Enabled bool
	Content string
	// FormValue is what Value returns, distinct from Content because a
	// real input's inner text is empty.
	FormValue string
	N         int

	// StaleClicks makes the first n Click calls fail with a stale-element
	// error, mimicking a re-rendered DOM node.
	StaleClicks int
	// ClickErr, when set, fails every click.
	ClickErr error
	// VisibleAfter delays visibility until the given number of
	// WaitVisible polls have happened.
	VisibleAfter int

	absent    bool
	waitPolls int
	Clicks    int
	Filled    []string
	Cleared   int
	Scrolled  int
	DraggedTo *FakeElement
}

func (e *FakeElement) WaitVisible(timeout time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.absent {
		return fmt.Errorf("timeout %s exceeded waiting for element", timeout)
	}
	e.waitPolls++
	if e.VisibleAfter > 0 && e.waitPolls <= e.VisibleAfter {
		return fmt.Errorf("timeout %s exceeded waiting for element", timeout)
	}
	if !e.Visible {
		return fmt.Errorf("timeout %s exceeded waiting for element", timeout)
	}
	return nil
}

func (e *FakeElement) WaitHidden(timeout time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.absent || !e.Visible {
		return nil
	}
	return fmt.Errorf("timeout %s exceeded waiting for element to hide", timeout)
}

func (e *FakeElement) Click() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Clicks++
	if e.ClickErr != nil {
		return e.ClickErr
	}
	if e.StaleClicks > 0 && e.Clicks <= e.StaleClicks {
		return fmt.Errorf("element is not attached to the DOM (stale)")
	}
	return nil
}

func (e *FakeElement) Fill(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.absent {
		return fmt.Errorf("element not found")
	}
	e.Filled = append(e.Filled, text)
	e.Content = text
	e.FormValue = text
	return nil
}

func (e *FakeElement) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Cleared++
	e.Content = ""
	e.FormValue = ""
	return nil
}

func (e *FakeElement) Text() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.absent {
		return "", fmt.Errorf("element not found")
	}
	return e.Content, nil
}

func (e *FakeElement) Texts() ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.absent {
		return nil, nil
	}
	out := make([]string, 0, e.N)
	for i := 0; i < e.N; i++ {
		out = append(out, e.Content)
	}
	return out, nil
}

func (e *FakeElement) Value() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.absent {
		return "", fmt.Errorf("element not found")
	}
	return e.FormValue, nil
}

func (e *FakeElement) IsVisible() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.absent && e.Visible, nil
}

func (e *FakeElement) IsEnabled() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Enabled, nil
}

func (e *FakeElement) Count() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.absent {
		return 0, nil
	}
	return e.N, nil
}

func (e *FakeElement) ScrollIntoView() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Scrolled++
	return nil
}

func (e *FakeElement) DragTo(target browser.Element) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ft, ok := target.(*FakeElement); ok {
		e.DraggedTo = ft
		return nil
	}
	return fmt.Errorf("drag target is not a fake element")
}

// IsStaleError mirrors the detection the page layer uses, exposed for
// test readability.
func IsStaleError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "stale")
}
