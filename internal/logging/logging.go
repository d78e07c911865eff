// Package logging provides the per-test structured log stream. Each test
// owns its own sink: a log file under the artifact dir plus an in-memory
// tail that gets attached to the report. Registered secrets are masked in
// every line before it reaches any writer.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const tailLines = 200

// TestLog is one test's log sink.
type TestLog struct {
	Logger zerolog.Logger

	file     *os.File
	path     string
	redactor *redactor
	tail     *tailBuffer
}

// New opens a log sink for testName under artifactDir/logs.
func New(artifactDir, testName string) (*TestLog, error) {
	dir := filepath.Join(artifactDir, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, sanitize(testName)+".log")
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	tl := &TestLog{
		file:     file,
		path:     path,
		redactor: &redactor{},
		tail:     &tailBuffer{max: tailLines},
	}
	out := &redactWriter{
		redactor: tl.redactor,
		targets:  []io.Writer{file, tl.tail},
	}
	tl.Logger = zerolog.New(out).With().
		Timestamp().
		Str("test", testName).
		Logger()
	return tl, nil
}

// Discard returns a sink that writes nowhere, for helpers that need a
// logger before the real one exists.
func Discard() *TestLog {
	tl := &TestLog{
		redactor: &redactor{},
		tail:     &tailBuffer{max: tailLines},
	}
	tl.Logger = zerolog.New(io.Discard)
	return tl
}

// Path returns the log file location, empty for a discard sink.
func (l *TestLog) Path() string { return l.path }

// RegisterSecret masks value in all subsequent log output. Values shorter
// than four characters are ignored to avoid masking noise.
func (l *TestLog) RegisterSecret(value string) {
	l.redactor.add(value)
}

// Tail returns the buffered tail of the stream for report attachment.
func (l *TestLog) Tail() string {
	return l.tail.String()
}

// Close flushes and closes the underlying file.
func (l *TestLog) Close() error {
	if l.file == nil {
		return nil
	}
	if err := l.file.Sync(); err != nil {
		_ = l.file.Close()
		return err
	}
	return l.file.Close()
}

func sanitize(name string) string {
	r := strings.NewReplacer("/", "_", " ", "_", ":", "_", "\\", "_")
	return r.Replace(name)
}

type redactor struct {
	mu      sync.RWMutex
	secrets []string
}

func (r *redactor) add(value string) {
	if len(value) < 4 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.secrets = append(r.secrets, value)
}

func (r *redactor) apply(line []byte) []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.secrets) == 0 {
		return line
	}
	s := string(line)
	for _, secret := range r.secrets {
		s = strings.ReplaceAll(s, secret, "[redacted]")
	}
	return []byte(s)
}

// redactWriter masks secrets, then fans each line out to all targets.
type redactWriter struct {
	mu       sync.Mutex
	redactor *redactor
	targets  []io.Writer
}

func (w *redactWriter) Write(p []byte) (int, error) {
	clean := w.redactor.apply(p)
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range w.targets {
		if _, err := t.Write(clean); err != nil {
			return 0, err
		}
	}
	// Report the original length: redaction may change the byte count and
	// zerolog treats short writes as errors.
	return len(p), nil
}

type tailBuffer struct {
	mu    sync.Mutex
	lines []string
	max   int
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		b.lines = append(b.lines, line)
	}
	if over := len(b.lines) - b.max; over > 0 {
		b.lines = b.lines[over:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.lines, "\n")
}
