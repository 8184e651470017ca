package tui

import (
	"sync"

	"midi-clock/display"
	"midi-clock/input"
)

// Screen is a display.Renderer that hands frames to the bubbletea model.
type Screen struct {
	mu      sync.Mutex
	frame   display.Frame
	updates chan struct{}
}

// NewScreen returns an empty screen.
func NewScreen() *Screen {
	return &Screen{updates: make(chan struct{}, 1)}
}

// SetPixels stores the latest frame and nudges the UI.
func (s *Screen) SetPixels(f display.Frame) error {
	s.mu.Lock()
	s.frame = f
	s.mu.Unlock()
	s.notify()
	return nil
}

// Clear blanks the screen.
func (s *Screen) Clear() error {
	return s.SetPixels(display.Frame{})
}

// Frame returns the most recent frame.
func (s *Screen) Frame() display.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

func (s *Screen) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// Keys is an input.Source fed from terminal key presses. Terminals only
// report presses (auto-repeat arrives as more presses), so no Released
// events are ever emitted; the controller's hold timeout covers that.
type Keys struct {
	events chan input.Event
}

// NewKeys returns a keyboard event source.
func NewKeys() *Keys {
	return &Keys{events: make(chan input.Event, 16)}
}

// Events implements input.Source.
func (k *Keys) Events() <-chan input.Event {
	return k.events
}

// Press injects a press event, dropping it if the controller is behind.
func (k *Keys) Press(dir input.Direction) {
	select {
	case k.events <- input.Event{Dir: dir, Action: input.Pressed}:
	default:
	}
}
