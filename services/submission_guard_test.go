// file: services/submission_guard_test.go
package services

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test concurrent submits from the same visitor: exactly one wins
func TestSubmissionGuard_ConcurrentAcquire(t *testing.T) {
	g := NewSubmissionGuard()

	var wg sync.WaitGroup
	var won int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire("visitor-1", FormDonation) {
				atomic.AddInt32(&won, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), won)
	assert.True(t, g.InFlight("visitor-1", FormDonation))
}

func TestSubmissionGuard_ScopedPerVisitorAndForm(t *testing.T) {
	g := NewSubmissionGuard()

	assert.True(t, g.TryAcquire("v1", FormDonation))
	assert.True(t, g.TryAcquire("v1", FormVolunteer), "other forms are independent")
	assert.True(t, g.TryAcquire("v2", FormDonation), "other visitors are independent")
	assert.False(t, g.TryAcquire("v1", FormDonation))
}

func TestSubmissionGuard_Release(t *testing.T) {
	g := NewSubmissionGuard()
	g.Release("v1", FormDonation) // idle release is harmless

	assert.True(t, g.TryAcquire("v1", FormDonation))
	g.Release("v1", FormDonation)
	assert.False(t, g.InFlight("v1", FormDonation))
	assert.True(t, g.TryAcquire("v1", FormDonation))
}
