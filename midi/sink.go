package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
	"go.uber.org/zap"
)

// Port is one opened MIDI output destination.
type Port struct {
	Name string
	Send func(gomidi.Message) error
}

// Fanout delivers each message to every port it holds. It knows nothing
// about transport state; it is pure fan-out. The port set never changes
// after construction and only the scheduler goroutine sends, so no lock
// is needed.
type Fanout struct {
	ports []Port
	log   *zap.Logger
}

// NewFanout wraps an ordered set of opened ports.
func NewFanout(ports []Port, log *zap.Logger) *Fanout {
	return &Fanout{ports: ports, log: log}
}

// Send delivers msg to every port independently. A failing port is
// logged and skipped; it never suppresses delivery to the rest.
func (f *Fanout) Send(msg []byte) {
	for i := range f.ports {
		if err := f.ports[i].Send(gomidi.Message(msg)); err != nil {
			f.log.Error("MIDI send failed",
				zap.String("port", f.ports[i].Name), zap.Error(err))
		}
	}
}

// Len returns the number of open ports.
func (f *Fanout) Len() int {
	return len(f.ports)
}

// Names returns the open port names in order.
func (f *Fanout) Names() []string {
	names := make([]string, len(f.ports))
	for i, p := range f.ports {
		names[i] = p.Name
	}
	return names
}
