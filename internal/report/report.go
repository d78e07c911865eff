// Package report emits the per-test event stream: step enter/exit plus
// attachments (screenshots, log tails, HTTP exchanges). Events are kept in
// emission order; rendering is the runner's concern. A JSON artifact is
// written per test so any reporter can pick it up.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/omniapp-io/omniapp-qa/internal/qaerr"
)

type EventType string

const (
	EventStepStart  EventType = "step_start"
	EventStepEnd    EventType = "step_end"
	EventAttachment EventType = "attachment"
)

// Attachment points at an artifact on disk, or carries a small inline body.
type Attachment struct {
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	Path      string `json:"path,omitempty"`
	Body      string `json:"body,omitempty"`
}

// Event is one entry in the ordered stream.
type Event struct {
	Time       time.Time   `json:"time"`
	Type       EventType   `json:"type"`
	Step       string      `json:"step,omitempty"`
	Depth      int         `json:"depth"`
	Status     string      `json:"status,omitempty"`
	Error      string      `json:"error,omitempty"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

// Report collects the stream for one test.
type Report struct {
	mu       sync.Mutex
	test     string
	started  time.Time
	dir      string
	depth    int
	events   []Event
	sawInfra bool
}

func New(artifactDir, testName string) *Report {
	return &Report{
		test:    testName,
		started: time.Now(),
		dir:     filepath.Join(artifactDir, "reports"),
	}
}

// Step runs fn as a named report step, emitting enter/exit events. Nested
// Step calls get increasing depth so the stream stays hierarchical.
func (r *Report) Step(name string, fn func() error) error {
	r.mu.Lock()
	depth := r.depth
	r.depth++
	r.events = append(r.events, Event{
		Time: time.Now(), Type: EventStepStart, Step: name, Depth: depth,
	})
	r.mu.Unlock()

	err := fn()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.depth--
	end := Event{Time: time.Now(), Type: EventStepEnd, Step: name, Depth: depth, Status: "passed"}
	if err != nil {
		end.Status = "failed"
		end.Error = err.Error()
		if qaerr.IsInfrastructure(err) {
			r.sawInfra = true
		}
	}
	r.events = append(r.events, end)
	return err
}

// Attach records an artifact that already lives on disk.
func (r *Report) Attach(name, mediaType, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{
		Time: time.Now(), Type: EventAttachment, Depth: r.depth,
		Attachment: &Attachment{Name: name, MediaType: mediaType, Path: path},
	})
}

// AttachText records a small inline artifact such as a log tail.
func (r *Report) AttachText(name, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{
		Time: time.Now(), Type: EventAttachment, Depth: r.depth,
		Attachment: &Attachment{Name: name, MediaType: "text/plain", Body: body},
	})
}

// AttachHTTP records one request/response exchange against the API.
// Bodies are truncated so a verbose endpoint cannot bloat the artifact.
func (r *Report) AttachHTTP(method, url string, status int, reqBody, respBody string) {
	const maxBody = 4096
	body := fmt.Sprintf("%s %s -> %d\n\nrequest:\n%s\n\nresponse:\n%s",
		method, url, status, truncate(reqBody, maxBody), truncate(respBody, maxBody))
	r.AttachText(fmt.Sprintf("http %s %s", method, url), body)
}

// SawInfrastructureFailure reports whether any step failed with an
// infrastructure-kind error. Such failures blame the environment, not
// the application, so the test outcome becomes "errored" rather than
// "failed".
func (r *Report) SawInfrastructureFailure() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sawInfra
}

// Events returns a copy of the stream in emission order.
func (r *Report) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

type artifact struct {
	Test     string    `json:"test"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Outcome  string    `json:"outcome"`
	Events   []Event   `json:"events"`
}

// Flush writes the JSON artifact for this test. Outcome is "passed",
// "failed" or "errored" as decided by the caller.
func (r *Report) Flush(outcome string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	doc := artifact{
		Test:     r.test,
		Started:  r.started,
		Finished: time.Now(),
		Outcome:  outcome,
		Events:   r.events,
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	name := strings.NewReplacer("/", "_", " ", "_").Replace(r.test) + ".json"
	return os.WriteFile(filepath.Join(r.dir, name), raw, 0o644)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
