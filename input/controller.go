package input

import (
	"context"
	"time"

	"go.uber.org/zap"

	"midi-clock/clock"
)

// Tuning holds the timing constants for debounce and auto-repeat.
type Tuning struct {
	RepeatDelay    time.Duration // hold time before coarse adjust starts repeating
	RepeatInterval time.Duration // repeat rate once repeating
	Debounce       time.Duration // dead-time between transport toggles
	HoldTimeout    time.Duration // a held direction with no fresh event is considered released
}

// DefaultTuning returns the stock timing constants.
func DefaultTuning() Tuning {
	return Tuning{
		RepeatDelay:    400 * time.Millisecond,
		RepeatInterval: 100 * time.Millisecond,
		Debounce:       100 * time.Millisecond,
		HoldTimeout:    250 * time.Millisecond,
	}
}

const noDirection Direction = -1

// Controller translates joystick events into transport mutations.
//
// Up/Down adjust the tempo by 1.0 and auto-repeat while held. Left/Right
// adjust by 0.1 exactly once per event. Press toggles run/stop with a
// debounce so one physical press cannot register twice. All tempo writes
// go through the transport's clamp.
type Controller struct {
	transport *clock.Transport
	source    Source
	tuning    Tuning
	log       *zap.Logger

	held       Direction
	heldSince  time.Time
	lastSeen   time.Time
	lastRepeat time.Time
	lastToggle time.Time
}

// NewController wires a controller to a transport and an event source.
func NewController(t *clock.Transport, src Source, tuning Tuning, log *zap.Logger) *Controller {
	return &Controller{
		transport: t,
		source:    src,
		tuning:    tuning,
		log:       log,
		held:      noDirection,
	}
}

// Run consumes events until ctx is cancelled or the source closes.
// The poll tick bounds auto-repeat latency; it never blocks indefinitely
// on the source alone. Blocking, run in a goroutine.
func (c *Controller) Run(ctx context.Context) {
	poll := c.tuning.RepeatInterval / 4
	if poll < time.Millisecond {
		poll = time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-c.source.Events():
			if !ok {
				return
			}
			c.handle(ev, time.Now())
		case now := <-ticker.C:
			c.repeat(now)
		}
	}
}

func (c *Controller) handle(ev Event, now time.Time) {
	switch ev.Action {
	case Pressed:
		c.pressed(ev.Dir, now)
	case Held:
		if ev.Dir == c.held {
			c.lastSeen = now
		}
	case Released:
		if ev.Dir == c.held {
			c.held = noDirection
		}
	}
}

func (c *Controller) pressed(dir Direction, now time.Time) {
	switch dir {
	case Up:
		c.adjust(clock.CoarseStep)
		c.hold(Up, now)
	case Down:
		c.adjust(-clock.CoarseStep)
		c.hold(Down, now)
	case Right:
		// Fine adjust is one-shot, never repeats.
		c.adjust(clock.FineStep)
		c.held = noDirection
	case Left:
		c.adjust(-clock.FineStep)
		c.held = noDirection
	case Press:
		if now.Sub(c.lastToggle) < c.tuning.Debounce {
			return
		}
		c.lastToggle = now
		c.held = noDirection
		running := c.transport.Toggle()
		c.log.Info("transport toggled", zap.Bool("running", running))
	}
}

func (c *Controller) hold(dir Direction, now time.Time) {
	c.held = dir
	c.heldSince = now
	c.lastSeen = now
	c.lastRepeat = now
}

// repeat applies the coarse step while a direction stays held.
func (c *Controller) repeat(now time.Time) {
	if c.held != Up && c.held != Down {
		return
	}
	if now.Sub(c.lastSeen) > c.tuning.HoldTimeout {
		// No fresh event for this direction, treat as released.
		c.held = noDirection
		return
	}
	if now.Sub(c.heldSince) < c.tuning.RepeatDelay {
		return
	}
	if now.Sub(c.lastRepeat) < c.tuning.RepeatInterval {
		return
	}
	c.lastRepeat = now
	if c.held == Up {
		c.adjust(clock.CoarseStep)
	} else {
		c.adjust(-clock.CoarseStep)
	}
}

func (c *Controller) adjust(delta float64) {
	bpm := c.transport.AdjustBPM(delta)
	c.log.Debug("tempo adjusted", zap.Float64("bpm", bpm))
}
