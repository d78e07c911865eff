// Package markers implements test selection: the marker vocabulary tests
// tag themselves with, and the boolean expression language used to pick
// a subset at run time, e.g. "smoke and not performance".
package markers

import "sort"

// Marker is one selection tag.
type Marker string

// The marker vocabulary. Suite markers group tests by purpose, priority
// markers by importance, kind markers by the surface they exercise, and
// behavior markers by execution traits.
const (
	Smoke      Marker = "smoke"
	Sanity     Marker = "sanity"
	Regression Marker = "regression"

	Critical Marker = "critical"
	High     Marker = "high"
	Medium   Marker = "medium"
	Low      Marker = "low"

	API Marker = "api"
	UI  Marker = "ui"

	Performance   Marker = "performance"
	Security      Marker = "security"
	Accessibility Marker = "accessibility"
	Visual        Marker = "visual"

	Retry         Marker = "retry"
	Parallel      Marker = "parallel"
	DataDriven    Marker = "data_driven"
	BrowserCompat Marker = "browser_compatibility"
	MobileCompat  Marker = "mobile_compatibility"
)

// Known maps every registered marker to its description, for the CLI.
var Known = map[Marker]string{
	Smoke:         "fast checks of core flows, run on every change",
	Sanity:        "quick verification after a deployment",
	Regression:    "full behavioral coverage",
	Critical:      "failure blocks the release",
	High:          "failure needs same-day attention",
	Medium:        "failure scheduled into the next fix round",
	Low:           "cosmetic or rarely hit",
	API:           "exercises the HTTP API directly",
	UI:            "drives a real browser",
	Performance:   "asserts on timing budgets",
	Security:      "exercises authentication and authorization edges",
	Accessibility: "checks assistive-technology affordances",
	Visual:        "compares rendered appearance",
	Retry:         "known-flaky flow wrapped in retries",
	Parallel:      "safe to run concurrently with any other test",
	DataDriven:    "same flow over a data table",
	BrowserCompat: "runs across browser engines",
	MobileCompat:  "runs against mobile viewports",
}

// IsKnown reports whether m is part of the vocabulary.
func IsKnown(m Marker) bool {
	_, ok := Known[m]
	return ok
}

// All returns the vocabulary sorted by name.
func All() []Marker {
	out := make([]Marker, 0, len(Known))
	for m := range Known {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Set is the marker collection attached to one test.
type Set map[Marker]struct{}

// NewSet builds a set from its members.
func NewSet(ms ...Marker) Set {
	s := make(Set, len(ms))
	for _, m := range ms {
		s[m] = struct{}{}
	}
	return s
}

// Has reports membership by marker name.
func (s Set) Has(name string) bool {
	_, ok := s[Marker(name)]
	return ok
}

// Slice returns the members sorted by name.
func (s Set) Slice() []Marker {
	out := make([]Marker, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Matches evaluates a selection expression against the set. The empty
// expression selects everything.
func (s Set) Matches(expr string) (bool, error) {
	e, err := Parse(expr)
	if err != nil {
		return false, err
	}
	return e.Eval(s.Has), nil
}
