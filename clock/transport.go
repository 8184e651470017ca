package clock

import "sync"

const (
	// PPQN is the MIDI-standard clock resolution.
	PPQN = 24

	MinBPM     = 20.0
	MaxBPM     = 300.0
	DefaultBPM = 120.0

	// Tempo adjustment steps for the joystick.
	CoarseStep = 1.0
	FineStep   = 0.1
)

// Transport is the single source of truth for tempo and run/stop state.
// It is read by the scheduler and display loop and written by the input
// controller. Critical sections are a float and a bool, so one mutex
// covers everything.
type Transport struct {
	mu      sync.Mutex
	bpm     float64
	running bool
}

// NewTransport returns a stopped transport at the default tempo.
func NewTransport() *Transport {
	return &Transport{bpm: DefaultBPM}
}

// BPM returns the current tempo.
func (t *Transport) BPM() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bpm
}

// Running reports whether the transport is running.
func (t *Transport) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Snapshot returns tempo and run state from a single lock acquisition.
func (t *Transport) Snapshot() (bpm float64, running bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bpm, t.running
}

// SetBPM sets the tempo, clamped to [MinBPM, MaxBPM], and returns the
// value actually stored.
func (t *Transport) SetBPM(bpm float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bpm = clampBPM(bpm)
	return t.bpm
}

// AdjustBPM applies a delta to the tempo, clamped, and returns the new
// value. Out-of-range results are not an error, just clamped.
func (t *Transport) AdjustBPM(delta float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bpm = clampBPM(t.bpm + delta)
	return t.bpm
}

// Toggle flips between running and stopped and returns the new state.
// The scheduler picks up the edge and emits Start/Stop.
func (t *Transport) Toggle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = !t.running
	return t.running
}

func clampBPM(v float64) float64 {
	if v < MinBPM {
		return MinBPM
	}
	if v > MaxBPM {
		return MaxBPM
	}
	return v
}
