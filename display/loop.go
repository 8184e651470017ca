package display

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"midi-clock/clock"
)

// Renderer is the display collaborator. It owns its own hardware; the
// loop only hands it frames.
type Renderer interface {
	SetPixels(Frame) error
	Clear() error
}

// BeatSource reports the current beat within the bar for the beat ramp.
type BeatSource interface {
	BeatPosition() int
}

// DefaultRefresh is the stock display cadence. Deliberately independent
// of the 24-PPQN clock rate.
const DefaultRefresh = 50 * time.Millisecond

// Loop reads the transport at a fixed cadence and renders tempo and run
// state. It only ever reads shared state and never blocks the scheduler.
type Loop struct {
	transport *clock.Transport
	beats     BeatSource
	renderer  Renderer
	refresh   time.Duration
	log       *zap.Logger
}

// NewLoop wires a feedback loop to a renderer. A refresh of 0 uses
// DefaultRefresh.
func NewLoop(t *clock.Transport, beats BeatSource, r Renderer, refresh time.Duration, log *zap.Logger) *Loop {
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	return &Loop{transport: t, beats: beats, renderer: r, refresh: refresh, log: log}
}

// Run refreshes the display until ctx is cancelled, then clears it.
// Unchanged frames are not re-sent. Blocking, run in a goroutine.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.refresh)
	defer ticker.Stop()

	var last Frame
	first := true

	for {
		select {
		case <-ctx.Done():
			if err := l.renderer.Clear(); err != nil {
				l.log.Error("display clear failed", zap.Error(err))
			}
			return
		case <-ticker.C:
			bpm, running := l.transport.Snapshot()
			f := Render(int(math.Round(bpm)), running, l.beats.BeatPosition())
			if !first && f == last {
				continue
			}
			if err := l.renderer.SetPixels(f); err != nil {
				l.log.Error("display update failed", zap.Error(err))
				continue
			}
			last = f
			first = false
		}
	}
}
