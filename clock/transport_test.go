package clock

import (
	"math"
	"testing"
)

func TestNewTransportDefaults(t *testing.T) {
	tr := NewTransport()
	if bpm := tr.BPM(); bpm != DefaultBPM {
		t.Errorf("default BPM = %v, want %v", bpm, DefaultBPM)
	}
	if tr.Running() {
		t.Error("new transport should be stopped")
	}
}

func TestAdjustBPMClamps(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		delta float64
		want  float64
	}{
		{"coarse up", 120, CoarseStep, 121},
		{"coarse down", 120, -CoarseStep, 119},
		{"fine up", 120, FineStep, 120.1},
		{"fine down", 120, -FineStep, 119.9},
		{"clamp high", 299.5, CoarseStep, MaxBPM},
		{"clamp low", 20.5, -CoarseStep, MinBPM},
		{"at max stays", MaxBPM, CoarseStep, MaxBPM},
		{"at min stays", MinBPM, -FineStep, MinBPM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTransport()
			tr.SetBPM(tt.start)
			got := tr.AdjustBPM(tt.delta)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AdjustBPM(%v) from %v = %v, want %v", tt.delta, tt.start, got, tt.want)
			}
		})
	}
}

func TestClampHoldsOverAnySequence(t *testing.T) {
	deltas := []float64{
		CoarseStep, CoarseStep, -FineStep, 500, -1000,
		FineStep, -CoarseStep, 250, 250, -0.3,
	}

	tr := NewTransport()
	for i, d := range deltas {
		got := tr.AdjustBPM(d)
		if got < MinBPM || got > MaxBPM {
			t.Fatalf("after delta %d (%v): BPM = %v outside [%v, %v]", i, d, got, MinBPM, MaxBPM)
		}
	}
}

func TestSetBPMClamps(t *testing.T) {
	tr := NewTransport()
	if got := tr.SetBPM(1000); got != MaxBPM {
		t.Errorf("SetBPM(1000) = %v, want %v", got, MaxBPM)
	}
	if got := tr.SetBPM(1); got != MinBPM {
		t.Errorf("SetBPM(1) = %v, want %v", got, MinBPM)
	}
}

func TestToggle(t *testing.T) {
	tr := NewTransport()
	if !tr.Toggle() {
		t.Error("first toggle should report running")
	}
	if tr.Toggle() {
		t.Error("second toggle should report stopped")
	}
	bpm, running := tr.Snapshot()
	if running {
		t.Error("snapshot should report stopped")
	}
	if bpm != DefaultBPM {
		t.Errorf("toggling should not touch tempo, got %v", bpm)
	}
}
