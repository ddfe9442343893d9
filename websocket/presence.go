// file: websocket/presence.go
package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"cmv-site/clock"
	"cmv-site/logger"
)

// Display is one entry of the presence listing.
type Display struct {
	ID       string
	LastSeen time.Time
}

// Presence records when each display was last heard from.
type Presence struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time
	clock    clock.Clock
}

// NewPresence uses the system clock.
func NewPresence() *Presence {
	return NewPresenceWithClock(clock.NewSystem())
}

// NewPresenceWithClock is used by tests.
func NewPresenceWithClock(c clock.Clock) *Presence {
	return &Presence{lastSeen: make(map[string]time.Time), clock: c}
}

// Touch marks id as active now.
func (p *Presence) Touch(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastSeen[id] = p.clock.Now()
}

// Remove forgets id.
func (p *Presence) Remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.lastSeen, id)
}

// Active lists displays, most recently seen first.
func (p *Presence) Active() []Display {
	p.mu.Lock()
	out := make([]Display, 0, len(p.lastSeen))
	for id, seen := range p.lastSeen {
		out = append(out, Display{ID: id, LastSeen: seen})
	}
	p.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].LastSeen.Equal(out[j].LastSeen) {
			return out[i].ID < out[j].ID
		}
		return out[i].LastSeen.After(out[j].LastSeen)
	})
	return out
}

// Cleanup drops displays not heard from within timeout.
func (p *Presence) Cleanup(timeout time.Duration) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.clock.Now()
	removed := 0
	for id, seen := range p.lastSeen {
		if now.Sub(seen) > timeout {
			logger.Info.Printf("[Presence.Cleanup] Removing inactive display=%s (timeout=%v)", id, timeout)
			delete(p.lastSeen, id)
			removed++
		}
	}
	return removed
}

// Run calls Cleanup every interval until ctx is done.
func (p *Presence) Run(ctx context.Context, interval, timeout time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Cleanup(timeout)
		}
	}
}
