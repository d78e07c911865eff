// Package suite is the test inventory. Every end-to-end and API test
// registers its marker set here, so the runner's skip logic and the CLI's
// listing read the same table.
package suite

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/omniapp-io/omniapp-qa/internal/markers"
)

// Entry is one registered test.
type Entry struct {
	Name        string
	Description string
	Markers     markers.Set
}

var (
	mu       sync.RWMutex
	registry = map[string]Entry{}
)

// Register adds a test to the inventory. Registration happens in package
// var blocks, so a duplicate name is a programmer error and panics.
func Register(name, description string, ms ...markers.Marker) struct{} {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("suite: test %q registered twice", name))
	}
	for _, m := range ms {
		if !markers.IsKnown(m) {
			panic(fmt.Sprintf("suite: test %q uses unknown marker %q", name, m))
		}
	}
	registry[name] = Entry{Name: name, Description: description, Markers: markers.NewSet(ms...)}
	return struct{}{}
}

// Lookup returns the entry for a test name.
func Lookup(name string) (Entry, bool) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := registry[name]
	return e, ok
}

// All returns the inventory sorted by test name.
func All() []Entry {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Entry, 0, len(registry))
	for _, e := range registry {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Filter returns the entries whose markers match the expression.
func Filter(expr string) ([]Entry, error) {
	var out []Entry
	for _, e := range All() {
		ok, err := e.Markers.Matches(expr)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// Apply enforces the E2E_MARKERS selection expression: the test is
// skipped unless its registered marker set matches.
func Apply(t *testing.T) {
	t.Helper()
	skip, reason, err := shouldSkip(t.Name(), os.Getenv("E2E_MARKERS"))
	if err != nil {
		t.Fatalf("invalid E2E_MARKERS expression: %v", err)
	}
	if skip {
		t.Skip(reason)
	}
}

// shouldSkip decides the selection for a test name under an expression.
// Tests missing from the inventory always run, so forgetting to register
// is loud in a filtered run rather than silently excluded.
func shouldSkip(name, expr string) (bool, string, error) {
	if strings.TrimSpace(expr) == "" {
		return false, "", nil
	}
	entry, ok := Lookup(rootName(name))
	if !ok {
		return false, "", nil
	}
	match, err := entry.Markers.Matches(expr)
	if err != nil {
		return false, "", err
	}
	if match {
		return false, "", nil
	}
	return true, fmt.Sprintf("markers %v do not match %q", entry.Markers.Slice(), expr), nil
}

// rootName strips the subtest path so table-driven tests inherit the
// parent's markers.
func rootName(name string) string {
	if i := strings.IndexByte(name, '/'); i >= 0 {
		return name[:i]
	}
	return name
}
