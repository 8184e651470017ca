package clock

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

// recordSink captures every status byte the scheduler emits.
type recordSink struct {
	mu   sync.Mutex
	msgs []byte
}

func (r *recordSink) Send(msg []byte) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg[0])
	r.mu.Unlock()
}

func (r *recordSink) bytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]byte, len(r.msgs))
	copy(out, r.msgs)
	return out
}

// transitions strips clock pulses, leaving the Start/Stop sequence.
func transitions(msgs []byte) []byte {
	var out []byte
	for _, m := range msgs {
		if m != MsgClock {
			out = append(out, m)
		}
	}
	return out
}

func startScheduler(t *testing.T, tr *Transport, sink Sink) (cancel func()) {
	t.Helper()
	ctx, cancelCtx := context.WithCancel(context.Background())
	done := make(chan struct{})
	s := NewScheduler(tr, sink, zap.NewNop())
	go func() {
		s.Run(ctx)
		close(done)
	}()
	return func() {
		cancelCtx()
		<-done
	}
}

func TestIntervalSeconds(t *testing.T) {
	tests := []struct {
		bpm  float64
		want float64
	}{
		{120, 60.0 / (120 * 24)},
		{60, 60.0 / (60 * 24)},
		{300, 60.0 / (300 * 24)},
		{20, 0.125},
		{133.7, 60.0 / (133.7 * 24)},
	}
	for _, tt := range tests {
		if got := IntervalSeconds(tt.bpm); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("IntervalSeconds(%v) = %v, want %v", tt.bpm, got, tt.want)
		}
	}
	wantSec := 60.0 / (120 * 24) * float64(time.Second)
	if got := Interval(120); got != time.Duration(wantSec) {
		t.Errorf("Interval(120) = %v", got)
	}
}

func TestStartBeforeFirstClock(t *testing.T) {
	tr := NewTransport()
	tr.SetBPM(300)
	tr.Toggle()

	sink := &recordSink{}
	stop := startScheduler(t, tr, sink)
	time.Sleep(100 * time.Millisecond)
	tr.Toggle()
	time.Sleep(50 * time.Millisecond)
	stop()

	msgs := sink.bytes()
	if len(msgs) < 3 {
		t.Fatalf("expected start, clocks and stop, got % X", msgs)
	}
	if msgs[0] != MsgStart {
		t.Fatalf("first message = %X, want Start", msgs[0])
	}

	clocks := 0
	stopIdx := -1
	for i, m := range msgs[1:] {
		if m == MsgClock {
			clocks++
			if stopIdx >= 0 {
				t.Fatalf("clock pulse at %d after Stop at %d", i+1, stopIdx)
			}
		}
		if m == MsgStop {
			stopIdx = i + 1
		}
	}
	if clocks < 2 {
		t.Errorf("expected multiple clock pulses at 300 BPM over 100ms, got %d", clocks)
	}
	if stopIdx < 0 {
		t.Error("no Stop message after toggling off")
	}
	if got := transitions(msgs); len(got) != 2 {
		t.Errorf("transitions = % X, want exactly one Start and one Stop", got)
	}
}

func TestToggleSequence(t *testing.T) {
	tr := NewTransport()
	tr.SetBPM(300)

	sink := &recordSink{}
	stop := startScheduler(t, tr, sink)

	tr.Toggle() // run
	time.Sleep(40 * time.Millisecond)
	tr.Toggle() // stop
	time.Sleep(30 * time.Millisecond)
	tr.Toggle() // run again
	time.Sleep(40 * time.Millisecond)
	stop() // shutdown while running must emit a final Stop

	msgs := sink.bytes()
	want := []byte{MsgStart, MsgStop, MsgStart, MsgStop}
	got := transitions(msgs)
	if len(got) != len(want) {
		t.Fatalf("transitions = % X, want % X", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("transitions = % X, want % X", got, want)
		}
	}

	// No clock pulses while stopped: everything between the first Stop
	// and the second Start must be empty.
	inStopped := false
	for _, m := range msgs {
		switch m {
		case MsgStop:
			inStopped = true
		case MsgStart:
			inStopped = false
		case MsgClock:
			if inStopped {
				t.Fatal("clock pulse emitted while stopped")
			}
		}
	}
}

func TestStoppedSchedulerIsSilent(t *testing.T) {
	tr := NewTransport()
	sink := &recordSink{}
	stop := startScheduler(t, tr, sink)
	time.Sleep(50 * time.Millisecond)
	stop()

	if msgs := sink.bytes(); len(msgs) != 0 {
		t.Errorf("stopped scheduler emitted % X", msgs)
	}
}

func TestPulseSpacingTracksTempo(t *testing.T) {
	tr := NewTransport()
	tr.SetBPM(60) // 41.6ms per pulse
	tr.Toggle()

	sink := &recordSink{}
	stop := startScheduler(t, tr, sink)
	time.Sleep(150 * time.Millisecond)
	slow := len(sink.bytes())
	tr.SetBPM(300) // 8.3ms per pulse
	time.Sleep(150 * time.Millisecond)
	stop()

	fast := len(sink.bytes()) - slow - 1 // minus the shutdown Stop
	// Same wall time, 5x the tempo: expect clearly more pulses, with
	// wide margins for scheduler noise.
	if fast <= slow {
		t.Errorf("pulse count did not rise with tempo: slow window %d, fast window %d", slow, fast)
	}
}

func TestBeatPositionFollowsPulseCount(t *testing.T) {
	tr := NewTransport()
	tr.SetBPM(300)
	tr.Toggle()

	sink := &recordSink{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s := NewScheduler(tr, sink, zap.NewNop())
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// ~30 pulses at 300 BPM, enough to cross one beat boundary.
	time.Sleep(250 * time.Millisecond)
	cancel()
	<-done

	clocks := 0
	for _, m := range sink.bytes() {
		if m == MsgClock {
			clocks++
		}
	}
	if clocks < PPQN {
		t.Fatalf("expected at least %d pulses, got %d", PPQN, clocks)
	}
	if got, want := s.BeatPosition(), (clocks/PPQN)%4; got != want {
		t.Errorf("BeatPosition() = %d, want %d after %d pulses", got, want, clocks)
	}
}
