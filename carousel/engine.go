// Package carousel implements the image carousel/gallery: slide sequencing,
// autoplay, hover pause, and drag rotation with momentum.
//
// Engine is the pure state machine and has no timers. Player owns an Engine
// and drives it from tickers.
// File: carousel/engine.go
package carousel

import (
	"errors"
	"fmt"
	"math"
	"time"

	"cmv-site/models"
)

// ------------------- constants -------------------

const (
	// DefaultInterval is used when the configured interval is not positive.
	DefaultInterval = 3000 * time.Millisecond
	// MobileBreakpoint is the width (px) below which a viewport is mobile.
	MobileBreakpoint = 768
	// DragSensitivity converts pointer pixels into degrees of rotation.
	DragSensitivity = 0.3
	// DecayFactor multiplies the residual velocity on every frame.
	DecayFactor = 0.95
	// MinVelocity (degrees/frame) ends the decay phase.
	MinVelocity = 0.1
)

// ErrIndexOutOfRange is returned by Seek for an index outside the sequence.
var ErrIndexOutOfRange = errors.New("slide index out of range")

// State is the drag/autoplay state of the 3D rotation.
type State string

const (
	StateIdle        State = "idle"
	StateDragging    State = "dragging"
	StateDecaying    State = "decaying"
	StateAutoplaying State = "autoplaying"
)

// Options configure an Engine.
type Options struct {
	Autoplay bool
	Interval time.Duration
}

// normalized replaces a non-positive interval with DefaultInterval.
func (o Options) normalized() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	return o
}

// Snapshot is the renderable view of an Engine.
type Snapshot struct {
	Index      int            `json:"index"`
	Total      int            `json:"total"`
	Slide      models.Slide   `json:"slide"`
	Slides     []models.Slide `json:"slides,omitempty"`
	Angle      float64        `json:"angle"`
	State      State          `json:"state"`
	Paused     bool           `json:"paused"`
	Mobile     bool           `json:"mobile"`
	Width      int            `json:"width"`
	Autoplay   bool           `json:"autoplay"`
	IntervalMS int64          `json:"intervalMs"`
}

// Engine holds the state of one carousel instance. It is not safe for
// concurrent use; Player serialises access.
type Engine struct {
	slides   []models.Slide
	index    int
	width    int
	mobile   bool
	paused   bool
	opts     Options
	state    State
	angle    float64 // degrees; front slide is round(-angle/step) mod n
	velocity float64 // degrees per frame
	lastX    float64
}

// NewEngine builds an engine positioned on the first slide.
func NewEngine(slides []models.Slide, opts Options) *Engine {
	e := &Engine{opts: opts.normalized()}
	e.slides = copySlides(slides)
	e.state = e.restingState()
	return e
}

// ------------------- queries -------------------

// Len returns the number of slides.
func (e *Engine) Len() int { return len(e.slides) }

// Index returns the current slide index (0 when empty).
func (e *Engine) Index() int { return e.index }

// State returns the rotation state.
func (e *Engine) State() State { return e.state }

// Interval returns the autoplay interval.
func (e *Engine) Interval() time.Duration { return e.opts.Interval }

// Current returns the current slide, or the placeholder and false when the
// sequence is empty.
func (e *Engine) Current() (models.Slide, bool) {
	if len(e.slides) == 0 {
		return models.PlaceholderSlide, false
	}
	return e.slides[e.index], true
}

// AutoplayDue reports whether a timer tick should advance the carousel.
func (e *Engine) AutoplayDue() bool {
	return e.opts.Autoplay && e.state == StateAutoplaying && !e.paused && len(e.slides) > 1
}

// Snapshot captures the renderable state.
func (e *Engine) Snapshot() Snapshot {
	slide, _ := e.Current()
	return Snapshot{
		Index:      e.index,
		Total:      len(e.slides),
		Slide:      slide,
		Angle:      e.angle,
		State:      e.state,
		Paused:     e.paused,
		Mobile:     e.mobile,
		Width:      e.width,
		Autoplay:   e.opts.Autoplay,
		IntervalMS: e.opts.Interval.Milliseconds(),
	}
}

// ------------------- sequencing -------------------

// Advance moves to the next slide, wrapping to 0. In the 3D variant the
// rotation continues from the current angle.
func (e *Engine) Advance() {
	n := len(e.slides)
	if n == 0 {
		return
	}
	e.index = (e.index + 1) % n
	e.angle -= e.step()
}

// Seek jumps to slide i. It returns false when i is already current.
func (e *Engine) Seek(i int) (bool, error) {
	if i < 0 || i >= len(e.slides) {
		return false, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(e.slides))
	}
	if i == e.index {
		return false, nil
	}
	e.index = i
	e.angle = -float64(i) * e.step()
	return true, nil
}

// SetSlides replaces the sequence, clamping the index to the last valid slide.
func (e *Engine) SetSlides(slides []models.Slide) {
	e.slides = copySlides(slides)
	e.clamp()
	e.angle = -float64(e.index) * e.step()
	if e.state == StateIdle || e.state == StateAutoplaying {
		e.state = e.restingState()
	}
}

// SetOptions changes autoplay settings.
func (e *Engine) SetOptions(opts Options) {
	e.opts = opts.normalized()
	if e.state == StateIdle || e.state == StateAutoplaying {
		e.state = e.restingState()
	}
}

// ------------------- viewport -------------------

// Resize records the container width and recomputes the device class.
// Mobile viewports never stay paused.
func (e *Engine) Resize(width int) {
	if width < 0 {
		width = 0
	}
	e.width = width
	e.mobile = width < MobileBreakpoint
	if e.mobile {
		e.paused = false
	}
	e.clamp()
}

// PointerEnter pauses autoplay on non-mobile devices.
func (e *Engine) PointerEnter() bool {
	if e.mobile || e.paused {
		return false
	}
	e.paused = true
	return true
}

// PointerLeave resumes autoplay.
func (e *Engine) PointerLeave() bool {
	if !e.paused {
		return false
	}
	e.paused = false
	return true
}

// ------------------- drag rotation -------------------

// PointerDown starts a drag at horizontal position x.
func (e *Engine) PointerDown(x float64) {
	if len(e.slides) == 0 {
		return
	}
	e.state = StateDragging
	e.lastX = x
	e.velocity = 0
}

// PointerMove rotates by the horizontal displacement since the last event.
func (e *Engine) PointerMove(x float64) bool {
	if e.state != StateDragging {
		return false
	}
	delta := (x - e.lastX) * DragSensitivity
	e.angle += delta
	e.velocity = delta
	e.lastX = x
	return true
}

// PointerUp releases the drag. It returns true when momentum remains and
// the caller must drive Step until it reports completion.
func (e *Engine) PointerUp() bool {
	if e.state != StateDragging {
		return false
	}
	if math.Abs(e.velocity) >= MinVelocity {
		e.state = StateDecaying
		return true
	}
	e.settle()
	return false
}

// Step applies one frame of momentum. It returns false once decay is over.
func (e *Engine) Step() bool {
	if e.state != StateDecaying {
		return false
	}
	e.angle += e.velocity
	e.velocity *= DecayFactor
	if math.Abs(e.velocity) < MinVelocity {
		e.settle()
		return false
	}
	return true
}

// FrontIndex is the slide facing the viewer at the current angle.
func (e *Engine) FrontIndex() int {
	n := len(e.slides)
	if n == 0 {
		return 0
	}
	i := int(math.Round(-e.angle/e.step())) % n
	if i < 0 {
		i += n
	}
	return i
}

// ------------------- internals -------------------

// settle ends a drag or decay on the slide facing the viewer and returns to
// autoplay from the released angle.
func (e *Engine) settle() {
	e.velocity = 0
	e.index = e.FrontIndex()
	e.state = e.restingState()
}

func (e *Engine) restingState() State {
	if e.opts.Autoplay && len(e.slides) > 0 {
		return StateAutoplaying
	}
	return StateIdle
}

func (e *Engine) clamp() {
	n := len(e.slides)
	switch {
	case n == 0:
		e.index = 0
	case e.index >= n:
		e.index = n - 1
	case e.index < 0:
		e.index = 0
	}
}

func (e *Engine) step() float64 {
	if len(e.slides) == 0 {
		return 360
	}
	return 360 / float64(len(e.slides))
}

func copySlides(in []models.Slide) []models.Slide {
	out := make([]models.Slide, len(in))
	copy(out, in)
	return out
}
