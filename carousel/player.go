// File: carousel/player.go
package carousel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cmv-site/logger"
	"cmv-site/models"
)

// DefaultFrameInterval paces the momentum animation (about 60 fps).
const DefaultFrameInterval = 16 * time.Millisecond

// Action names an input event delivered to a Player.
type Action string

const (
	ActionPointerEnter Action = "pointerEnter"
	ActionPointerLeave Action = "pointerLeave"
	ActionSeek         Action = "seek"
	ActionNext         Action = "next"
	ActionResize       Action = "resize"
	ActionDragStart    Action = "dragStart"
	ActionDragMove     Action = "dragMove"
	ActionDragEnd      Action = "dragEnd"
)

// Event is one input to the carousel, typically decoded from a client message.
type Event struct {
	Action Action  `json:"action"`
	Index  int     `json:"index,omitempty"`
	X      float64 `json:"x,omitempty"`
	Width  int     `json:"width,omitempty"`
}

// Notifier receives a snapshot after every visible change. It is called with
// the player lock held and must not call back into the Player.
type Notifier func(Snapshot)

// Player owns an Engine and the timers that drive it: the autoplay ticker
// and the momentum frame ticker. Both are cancelled by Stop and restarted
// when the interval or the slide sequence changes.
type Player struct {
	mu            sync.Mutex
	engine        *Engine
	notify        Notifier
	FrameInterval time.Duration

	parent      context.Context
	running     bool
	stopped     bool // set by Stop; ticks already waiting on mu must not act
	generation  int  // bumped on every autoplay restart so stale loops exit
	cancelLoop  context.CancelFunc
	cancelDecay context.CancelFunc
}

// NewPlayer wraps engine. A nil notify discards snapshots.
func NewPlayer(engine *Engine, notify Notifier) *Player {
	if notify == nil {
		notify = func(Snapshot) {}
	}
	return &Player{
		engine:        engine,
		notify:        notify,
		FrameInterval: DefaultFrameInterval,
	}
}

// --------------------- lifecycle ---------------------

// Start begins autoplay. Timers stop when ctx is cancelled or Stop is called.
func (p *Player) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.parent = ctx
	p.running = true
	p.stopped = false
	p.restartLoopLocked()
	p.notify(p.engine.Snapshot())
}

// Stop cancels every timer owned by the player. A tick already waiting for
// the lock exits without touching the engine.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	p.running = false
	p.stopped = true
	p.generation++
	p.stopLoopLocked()
	if p.cancelDecay != nil {
		p.cancelDecay()
		p.cancelDecay = nil
	}
}

// Snapshot returns the current state.
func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine.Snapshot()
}

// SetSlides replaces the sequence and restarts the autoplay timer.
func (p *Player) SetSlides(slides []models.Slide) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.engine.SetSlides(slides)
	p.restartLoopLocked()
	snap := p.engine.Snapshot()
	snap.Slides = copySlides(slides)
	p.notify(snap)
}

// SetOptions changes autoplay settings and restarts the autoplay timer.
func (p *Player) SetOptions(opts Options) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.engine.SetOptions(opts)
	p.restartLoopLocked()
	p.notify(p.engine.Snapshot())
}

// --------------------- input handling ---------------------

// Handle applies one input event in arrival order.
func (p *Player) Handle(ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	changed := true
	switch ev.Action {
	case ActionPointerEnter:
		if changed = p.engine.PointerEnter(); changed {
			p.stopLoopLocked()
		}
	case ActionPointerLeave:
		if changed = p.engine.PointerLeave(); changed {
			p.restartLoopLocked()
		}
	case ActionSeek:
		var err error
		if changed, err = p.engine.Seek(ev.Index); err != nil {
			return err
		}
	case ActionNext:
		p.engine.Advance()
	case ActionResize:
		p.engine.Resize(ev.Width)
		if !p.engine.paused && p.cancelLoop == nil {
			p.restartLoopLocked()
		}
	case ActionDragStart:
		p.engine.PointerDown(ev.X)
	case ActionDragMove:
		changed = p.engine.PointerMove(ev.X)
	case ActionDragEnd:
		if p.engine.PointerUp() {
			p.startDecayLocked()
		}
	default:
		return fmt.Errorf("unknown carousel action %q", ev.Action)
	}

	if changed {
		p.notify(p.engine.Snapshot())
	}
	return nil
}

// --------------------- timers ---------------------

func (p *Player) stopLoopLocked() {
	if p.cancelLoop != nil {
		p.cancelLoop()
		p.cancelLoop = nil
	}
}

// restartLoopLocked cancels the current autoplay loop and, when running and
// not paused, starts a fresh one with the engine's interval.
func (p *Player) restartLoopLocked() {
	p.stopLoopLocked()
	p.generation++
	if !p.running || p.engine.paused || !p.engine.opts.Autoplay {
		return
	}
	ctx, cancel := context.WithCancel(p.parent)
	p.cancelLoop = cancel
	go p.autoplayLoop(ctx, p.generation, p.engine.Interval())
}

func (p *Player) autoplayLoop(ctx context.Context, gen int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Debug.Printf("[carousel.autoplayLoop] started gen=%d interval=%v", gen, interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.mu.Lock()
			if p.generation != gen || !p.running {
				p.mu.Unlock()
				return
			}
			if p.engine.AutoplayDue() {
				p.engine.Advance()
				p.notify(p.engine.Snapshot())
			}
			p.mu.Unlock()
		}
	}
}

func (p *Player) startDecayLocked() {
	if p.cancelDecay != nil {
		p.cancelDecay()
	}
	parent := p.parent
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	p.cancelDecay = cancel

	frame := p.FrameInterval
	if frame <= 0 {
		frame = DefaultFrameInterval
	}
	go func() {
		ticker := time.NewTicker(frame)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.mu.Lock()
				if p.stopped || ctx.Err() != nil {
					p.mu.Unlock()
					return
				}
				more := p.engine.Step()
				p.notify(p.engine.Snapshot())
				p.mu.Unlock()
				if !more {
					return
				}
			}
		}
	}()
}
