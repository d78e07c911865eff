// Package browser owns the per-test browser session. The Driver and
// Element interfaces abstract the concrete automation backend so page
// objects can be exercised against a fake in the framework's own tests;
// the production implementation runs on Playwright.
package browser

import "time"

// Driver is the minimal surface the page layer needs from a browser.
type Driver interface {
	// Navigate loads the given absolute URL.
	Navigate(url string) error
	// URL returns the current page address.
	URL() string
	// Title returns the current document title.
	Title() (string, error)
	// Find resolves a selector to an element handle. The handle is lazy;
	// no DOM lookup happens until an operation is invoked on it.
	Find(selector string) Element
	// Eval runs a script in the page and returns its result.
	Eval(script string) (any, error)
	// Screenshot captures the current viewport as PNG bytes.
	Screenshot() ([]byte, error)
	// SetViewport resizes the window.
	SetViewport(width, height int) error
	// Close quits the browser session.
	Close() error
}

// Element is one locatable DOM node (or set of nodes for Count).
type Element interface {
	WaitVisible(timeout time.Duration) error
	WaitHidden(timeout time.Duration) error
	Click() error
	Fill(text string) error
	Clear() error
	Text() (string, error)
	// Texts returns the inner text of every matching node.
	Texts() ([]string, error)
	// Value returns the current value of a form control. Inner text is
	// empty for inputs, so form reads must go through this.
	Value() (string, error)
	IsVisible() (bool, error)
	IsEnabled() (bool, error)
	Count() (int, error)
	ScrollIntoView() error
	// DragTo drags this element onto target, for kanban-style moves.
	DragTo(target Element) error
}
