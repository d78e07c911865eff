package fixtures

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/omniapp-io/omniapp-qa/internal/qaerr"
)

// CleanupFunc undoes one arranged resource. AlreadyGone is success: the
// test may legitimately have deleted the resource itself.
type CleanupFunc func(ctx context.Context) qaerr.CleanupStatus

type cleanupEntry struct {
	label string
	fn    CleanupFunc
}

// CleanupStack runs registered teardown actions in reverse registration
// order. A failing or panicking action never stops the rest of the stack.
type CleanupStack struct {
	mu      sync.Mutex
	entries []cleanupEntry
}

func NewCleanupStack() *CleanupStack {
	return &CleanupStack{}
}

// Push registers an action. Label names the resource for the log.
func (s *CleanupStack) Push(label string, fn CleanupFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, cleanupEntry{label: label, fn: fn})
}

// Len reports how many actions are pending.
func (s *CleanupStack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Run executes the stack LIFO and empties it. It returns the number of
// actions that ended in CleanupFailed or panicked.
func (s *CleanupStack) Run(ctx context.Context, log zerolog.Logger) int {
	s.mu.Lock()
	entries := s.entries
	s.entries = nil
	s.mu.Unlock()

	failed := 0
	for i := len(entries) - 1; i >= 0; i-- {
		status := runOne(ctx, entries[i], log)
		switch status {
		case qaerr.CleanupDeleted:
			log.Debug().Str("resource", entries[i].label).Msg("cleanup deleted")
		case qaerr.CleanupAlreadyGone:
			log.Debug().Str("resource", entries[i].label).Msg("cleanup found resource already gone")
		default:
			failed++
			log.Warn().Str("resource", entries[i].label).Msg("cleanup failed")
		}
	}
	return failed
}

func runOne(ctx context.Context, e cleanupEntry, log zerolog.Logger) (status qaerr.CleanupStatus) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("resource", e.label).Any("panic", r).Msg("cleanup panicked")
			status = qaerr.CleanupFailed
		}
	}()
	return e.fn(ctx)
}
