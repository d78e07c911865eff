// Package qaerr defines the error taxonomy shared by the harness.
// Every failure surfaced to a test carries a Kind so reports can
// distinguish assertion failures from infrastructure problems.
package qaerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a harness failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindTimeout
	KindInteraction
	KindAssertion
	KindInfrastructure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTimeout:
		return "timeout"
	case KindInteraction:
		return "interaction"
	case KindAssertion:
		return "assertion"
	case KindInfrastructure:
		return "infrastructure"
	default:
		return "unknown"
	}
}

// Error is a typed harness failure. Label names the locator or step that
// failed, URL is the page address at failure time, Screenshot the capture
// attached to the report (both optional).
type Error struct {
	Kind       Kind
	Label      string
	URL        string
	Screenshot string
	msg        string
	cause      error
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s: %s", e.Kind, e.msg)
	if e.Label != "" {
		s += fmt.Sprintf(" (element: %s)", e.Label)
	}
	if e.URL != "" {
		s += fmt.Sprintf(" at %s", e.URL)
	}
	if e.cause != nil {
		s += ": " + e.cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.cause }

// WithLabel attaches the human-readable locator label.
func (e *Error) WithLabel(label string) *Error {
	e.Label = label
	return e
}

// WithURL attaches the page URL at failure time.
func (e *Error) WithURL(url string) *Error {
	e.URL = url
	return e
}

// WithScreenshot attaches the path of the capture taken at failure time.
func (e *Error) WithScreenshot(path string) *Error {
	e.Screenshot = path
	return e
}

// KindOf returns the Kind of err, or KindUnknown when err carries none.
func KindOf(err error) Kind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return KindUnknown
}

func IsTimeout(err error) bool        { return KindOf(err) == KindTimeout }
func IsNotFound(err error) bool       { return KindOf(err) == KindNotFound }
func IsInteraction(err error) bool    { return KindOf(err) == KindInteraction }
func IsInfrastructure(err error) bool { return KindOf(err) == KindInfrastructure }

// FromStatus maps an HTTP status code to the matching error kind.
func FromStatus(status int) Kind {
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusUnauthorized:
		return KindAuthentication
	case status == http.StatusForbidden:
		return KindAuthorization
	case status == http.StatusNotFound || status == http.StatusGone:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status >= 500:
		return KindInfrastructure
	default:
		return KindUnknown
	}
}

// CleanupStatus is the explicit outcome of a fixture cleanup call.
// AlreadyGone counts as success so deletion tests do not fail teardown.
type CleanupStatus int

const (
	CleanupDeleted CleanupStatus = iota
	CleanupAlreadyGone
	CleanupFailed
)

func (s CleanupStatus) String() string {
	switch s {
	case CleanupDeleted:
		return "deleted"
	case CleanupAlreadyGone:
		return "already_gone"
	default:
		return "failed"
	}
}

// OK reports whether the cleanup left the resource absent.
func (s CleanupStatus) OK() bool { return s != CleanupFailed }
