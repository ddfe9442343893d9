// file: carousel/player_test.go
package carousel

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects snapshots emitted by a Player.
type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) notify(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func (r *recorder) last() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snaps[len(r.snaps)-1]
}

func newTestPlayer(t *testing.T, n int, interval time.Duration) (*Player, *recorder) {
	t.Helper()
	rec := &recorder{}
	p := NewPlayer(NewEngine(makeSlides(n), Options{Autoplay: true, Interval: interval}), rec.notify)
	p.FrameInterval = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		p.Stop()
		cancel()
	})
	p.Start(ctx)
	return p, rec
}

func TestPlayer_AutoplayAdvances(t *testing.T) {
	p, rec := newTestPlayer(t, 3, 10*time.Millisecond)

	assert.Eventually(t, func() bool { return rec.count() >= 4 }, time.Second, 5*time.Millisecond)

	rec.mu.Lock()
	first := rec.snaps[0]
	second := rec.snaps[1]
	rec.mu.Unlock()
	assert.Equal(t, 0, first.Index, "Start emits the initial snapshot")
	assert.Equal(t, 1, second.Index)
	assert.Equal(t, 3, p.Snapshot().Total)
}

func TestPlayer_StopCancelsTimers(t *testing.T) {
	p, rec := newTestPlayer(t, 3, 5*time.Millisecond)
	require.Eventually(t, func() bool { return rec.count() >= 2 }, time.Second, time.Millisecond)

	p.Stop()
	settled := rec.count()
	time.Sleep(40 * time.Millisecond)

	assert.Equal(t, settled, rec.count(), "no ticks after Stop")
}

func TestPlayer_HoverPausesAndResumes(t *testing.T) {
	p, rec := newTestPlayer(t, 3, 10*time.Millisecond)
	require.NoError(t, p.Handle(Event{Action: ActionResize, Width: 1280}))
	require.NoError(t, p.Handle(Event{Action: ActionPointerEnter}))

	paused := p.Snapshot()
	assert.True(t, paused.Paused)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, paused.Index, p.Snapshot().Index, "index frozen while hovered")

	require.NoError(t, p.Handle(Event{Action: ActionPointerLeave}))
	before := rec.count()
	assert.Eventually(t, func() bool { return rec.count() > before }, time.Second, 5*time.Millisecond)
}

func TestPlayer_MobileNeverPauses(t *testing.T) {
	p, rec := newTestPlayer(t, 3, 10*time.Millisecond)
	require.NoError(t, p.Handle(Event{Action: ActionResize, Width: 375}))
	require.NoError(t, p.Handle(Event{Action: ActionPointerEnter}))

	assert.False(t, p.Snapshot().Paused)
	before := rec.count()
	assert.Eventually(t, func() bool { return rec.count() > before+1 }, time.Second, 5*time.Millisecond)
}

func TestPlayer_SeekIdempotentEmitsOnce(t *testing.T) {
	p, rec := newTestPlayer(t, 4, time.Hour)

	require.NoError(t, p.Handle(Event{Action: ActionSeek, Index: 2}))
	after := rec.count()
	require.NoError(t, p.Handle(Event{Action: ActionSeek, Index: 2}))

	assert.Equal(t, after, rec.count(), "seeking the current slide emits nothing")
	assert.Equal(t, 2, rec.last().Index)
	assert.ErrorIs(t, p.Handle(Event{Action: ActionSeek, Index: 9}), ErrIndexOutOfRange)
}

func TestPlayer_SetSlidesClampsAndBroadcastsSequence(t *testing.T) {
	p, rec := newTestPlayer(t, 5, time.Hour)
	require.NoError(t, p.Handle(Event{Action: ActionSeek, Index: 4}))

	p.SetSlides(makeSlides(2))

	last := rec.last()
	assert.Equal(t, 1, last.Index)
	assert.Equal(t, 2, last.Total)
	assert.Len(t, last.Slides, 2)
}

func TestPlayer_DragMomentumThenAutoplay(t *testing.T) {
	p, _ := newTestPlayer(t, 4, time.Hour)

	require.NoError(t, p.Handle(Event{Action: ActionDragStart, X: 0}))
	require.NoError(t, p.Handle(Event{Action: ActionDragMove, X: -40}))
	require.NoError(t, p.Handle(Event{Action: ActionDragEnd}))

	assert.Eventually(t, func() bool {
		return p.Snapshot().State == StateAutoplaying
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPlayer_UnknownAction(t *testing.T) {
	p, _ := newTestPlayer(t, 2, time.Hour)
	assert.Error(t, p.Handle(Event{Action: "spin"}))
}

func TestPlayer_PendingTickAfterStopIsDropped(t *testing.T) {
	p, rec := newTestPlayer(t, 3, 2*time.Millisecond)

	// hold the lock across several ticks so the loop is parked on it
	p.mu.Lock()
	time.Sleep(20 * time.Millisecond)
	p.stopLocked()
	count, index := rec.count(), p.engine.Index()
	p.mu.Unlock()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, count, rec.count())
	assert.Equal(t, index, p.Snapshot().Index)
}

func TestPlayer_PendingDecayFrameAfterStopIsDropped(t *testing.T) {
	p, rec := newTestPlayer(t, 4, time.Hour)
	require.NoError(t, p.Handle(Event{Action: ActionDragStart, X: 0}))
	require.NoError(t, p.Handle(Event{Action: ActionDragMove, X: -400}))

	p.mu.Lock()
	require.True(t, p.engine.PointerUp(), "release leaves momentum")
	p.startDecayLocked()
	time.Sleep(20 * time.Millisecond)
	p.stopLocked()
	count, angle := rec.count(), p.engine.angle
	p.mu.Unlock()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, count, rec.count())
	assert.Equal(t, angle, p.Snapshot().Angle)
	assert.Equal(t, StateDecaying, p.Snapshot().State)
}
