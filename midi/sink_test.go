package midi

import (
	"errors"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
	"go.uber.org/zap"
)

func TestFanoutDeliversToAllPorts(t *testing.T) {
	var got [3][]byte
	ports := make([]Port, 3)
	for i := range ports {
		i := i
		ports[i] = Port{
			Name: "fake",
			Send: func(msg gomidi.Message) error {
				got[i] = append(got[i], msg...)
				return nil
			},
		}
	}

	f := NewFanout(ports, zap.NewNop())
	f.Send([]byte{0xFA})
	f.Send([]byte{0xF8})

	for i := range got {
		want := []byte{0xFA, 0xF8}
		if len(got[i]) != len(want) || got[i][0] != want[0] || got[i][1] != want[1] {
			t.Errorf("port %d received % X, want % X", i, got[i], want)
		}
	}
}

func TestFanoutFailureDoesNotShortCircuit(t *testing.T) {
	var first, last []byte
	ports := []Port{
		{Name: "ok-1", Send: func(msg gomidi.Message) error {
			first = append(first, msg...)
			return nil
		}},
		{Name: "broken", Send: func(msg gomidi.Message) error {
			return errors.New("device unplugged")
		}},
		{Name: "ok-2", Send: func(msg gomidi.Message) error {
			last = append(last, msg...)
			return nil
		}},
	}

	f := NewFanout(ports, zap.NewNop())
	f.Send([]byte{0xF8})

	if len(first) != 1 || len(last) != 1 {
		t.Errorf("delivery suppressed by a failing port: first=% X last=% X", first, last)
	}
}

func TestEmptyFanoutIsNoOp(t *testing.T) {
	f := NewFanout(nil, zap.NewNop())
	f.Send([]byte{0xF8}) // must not panic
	if f.Len() != 0 {
		t.Errorf("Len() = %d, want 0", f.Len())
	}
	if names := f.Names(); len(names) != 0 {
		t.Errorf("Names() = %v, want empty", names)
	}
}

func TestFanoutNamesPreserveOrder(t *testing.T) {
	f := NewFanout([]Port{
		{Name: "a"}, {Name: "b"}, {Name: "c"},
	}, zap.NewNop())
	names := f.Names()
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Errorf("Names() = %v", names)
	}
}
