package input

// Direction is a joystick direction or the center press.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
	Press
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case Press:
		return "press"
	}
	return "unknown"
}

// Action is what happened to a direction.
type Action int

const (
	Pressed Action = iota
	Released
	Held
)

// Event is one discrete joystick event.
type Event struct {
	Dir    Direction
	Action Action
}

// Source delivers joystick events. Implementations: the Sense HAT evdev
// device and the TUI keyboard. Sources that cannot observe releases
// (terminal keyboards) just emit Pressed/Held; the controller falls back
// to a hold timeout.
type Source interface {
	Events() <-chan Event
}
