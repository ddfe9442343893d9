// File: services/submission_guard.go
package services

import (
	"errors"
	"sync"

	"cmv-site/logger"
)

// ErrSubmissionInProgress rejects a second submit of the same form while
// the first is still in flight.
var ErrSubmissionInProgress = errors.New("your previous submission is still being processed")

// SubmissionGuard tracks in-flight submissions per visitor and form. A
// visitor can have one submission of each form in flight at a time.
type SubmissionGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewSubmissionGuard creates an empty guard.
func NewSubmissionGuard() *SubmissionGuard {
	return &SubmissionGuard{inFlight: make(map[string]struct{})}
}

func guardKey(visitor, form string) string { return visitor + "|" + form }

// TryAcquire marks (visitor, form) as in flight. It returns false when a
// submission is already in flight.
func (g *SubmissionGuard) TryAcquire(visitor, form string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := guardKey(visitor, form)
	if _, busy := g.inFlight[key]; busy {
		logger.Warn.Printf("SubmissionGuard: duplicate %s submit from %s rejected", form, visitor)
		return false
	}
	g.inFlight[key] = struct{}{}
	return true
}

// Release clears the in-flight mark. Releasing an idle pair is a no-op.
func (g *SubmissionGuard) Release(visitor, form string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, guardKey(visitor, form))
}

// InFlight reports whether (visitor, form) is currently submitting.
func (g *SubmissionGuard) InFlight(visitor, form string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inFlight[guardKey(visitor, form)]
	return busy
}
