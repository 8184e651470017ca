package clock

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Sink receives the raw MIDI bytes the scheduler emits. Sending to zero
// destinations is a valid no-op.
type Sink interface {
	Send(msg []byte)
}

// Scheduler emits one MIDI clock pulse per 1/24 quarter note while the
// transport is running, with Start/Stop messages on the transitions.
//
// It keeps an absolute target time and advances it by the current
// inter-pulse interval each iteration, so timer wake-up jitter does not
// accumulate into drift. When a wake-up comes in grossly late the target
// is resynced to the actual time instead of bursting pulses to catch up.
type Scheduler struct {
	transport *Transport
	sink      Sink
	log       *zap.Logger

	pulses int          // pulses within the current beat
	beat   atomic.Int32 // 0-3, consumed by the display beat ramp

	idlePoll    time.Duration
	overrunWarn time.Duration
}

// NewScheduler wires a scheduler to a transport and an output sink.
func NewScheduler(t *Transport, sink Sink, log *zap.Logger) *Scheduler {
	return &Scheduler{
		transport:   t,
		sink:        sink,
		log:         log,
		idlePoll:    5 * time.Millisecond,
		overrunWarn: 5 * time.Millisecond,
	}
}

// BeatPosition returns the current beat within the bar (0-3).
func (s *Scheduler) BeatPosition() int {
	return int(s.beat.Load())
}

// IntervalSeconds returns the inter-pulse interval for a tempo.
func IntervalSeconds(bpm float64) float64 {
	return 60.0 / (bpm * PPQN)
}

// Interval returns the inter-pulse interval as a duration.
func Interval(bpm float64) time.Duration {
	return time.Duration(IntervalSeconds(bpm) * float64(time.Second))
}

// Run drives the clock until ctx is cancelled. If the transport is
// running at cancellation time a final Stop is emitted so downstream
// devices never see the clock vanish mid-stream. Blocking, run in a
// goroutine.
func (s *Scheduler) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	running := false
	var target time.Time

	for {
		bpm, want := s.transport.Snapshot()

		switch {
		case want && !running:
			s.sink.Send([]byte{MsgStart})
			s.log.Info("clock started", zap.Float64("bpm", bpm))
			s.pulses = 0
			s.beat.Store(0)
			target = time.Now()
			running = true
		case !want && running:
			s.sink.Send([]byte{MsgStop})
			s.log.Info("clock stopped")
			running = false
		}

		if !running {
			// Idle without a tick target so the next start begins
			// from a fresh schedule.
			timer.Reset(s.idlePoll)
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			continue
		}

		if wait := time.Until(target); wait > 0 {
			timer.Reset(wait)
			select {
			case <-ctx.Done():
				s.sink.Send([]byte{MsgStop})
				s.log.Info("clock stopped on shutdown")
				return
			case <-timer.C:
			}
		} else if late := -wait; late > s.overrunWarn {
			// Too late to be timer jitter. Resync instead of
			// bursting pulses to catch up.
			s.log.Warn("clock overrun, resyncing",
				zap.Duration("late", late))
			target = time.Now()
		}

		s.sink.Send([]byte{MsgClock})

		s.pulses++
		if s.pulses >= PPQN {
			s.pulses = 0
			s.beat.Store((s.beat.Load() + 1) % 4)
		}

		// Next target from the live tempo, not the loop-start value.
		target = target.Add(Interval(s.transport.BPM()))
	}
}
