package midi

import (
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
	"go.uber.org/zap"
)

// DefaultDeviceMatch identifies the known multi-port interface. When any
// output name contains one of these, every matching port is opened.
var DefaultDeviceMatch = []string{"MIDIMATE", "ESI"}

const enumerateTimeout = 3 * time.Second

// selection is the result of the port selection policy.
type selection struct {
	indices  []int
	degraded bool // only a loopback/through port was available
}

// outPorts enumerates output ports with a timeout guard (CoreMIDI can hang).
func outPorts() ([]drivers.Out, error) {
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()

	select {
	case outs := <-ch:
		return outs, nil
	case <-time.After(enumerateTimeout):
		return nil, fmt.Errorf("MIDI port enumeration timed out after %v", enumerateTimeout)
	}
}

// OutputNames returns the names of all available MIDI output ports.
func OutputNames() ([]string, error) {
	outs, err := outPorts()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(outs))
	for i, p := range outs {
		names[i] = p.String()
	}
	return names, nil
}

// Close shuts down the underlying MIDI driver and every port it opened.
func Close() {
	gomidi.CloseDriver()
}

// choosePorts applies the selection policy to a list of port names.
// An explicit override bypasses the policy entirely.
func choosePorts(names, match []string, override []int) (selection, error) {
	if len(override) > 0 {
		for _, idx := range override {
			if idx < 0 || idx >= len(names) {
				return selection{}, fmt.Errorf("invalid MIDI port %d: %d port(s) available", idx, len(names))
			}
		}
		return selection{indices: override}, nil
	}

	var multi []int
	for i, name := range names {
		if matchesAny(name, match) {
			multi = append(multi, i)
		}
	}
	if len(multi) > 0 {
		return selection{indices: multi}, nil
	}

	for i, name := range names {
		if !isThrough(name) {
			return selection{indices: []int{i}}, nil
		}
	}

	if len(names) > 0 {
		// Only loopback-style ports exist. Better than nothing.
		return selection{indices: []int{0}, degraded: true}, nil
	}

	return selection{}, nil
}

func matchesAny(name string, match []string) bool {
	name = strings.ToLower(name)
	for _, m := range match {
		if m != "" && strings.Contains(name, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

func isThrough(name string) bool {
	return strings.Contains(strings.ToLower(name), "midi through")
}

// SelectPorts enumerates outputs, applies the selection policy and opens
// the chosen ports as a fan-out sink. The port set is fixed for the
// process lifetime. An empty result is not an error: the clock then runs
// with no-op sends.
func SelectPorts(match []string, override []int, log *zap.Logger) (*Fanout, error) {
	if len(match) == 0 {
		match = DefaultDeviceMatch
	}

	outs, err := outPorts()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(outs))
	for i, p := range outs {
		names[i] = p.String()
	}

	sel, err := choosePorts(names, match, override)
	if err != nil {
		return nil, err
	}

	switch {
	case len(sel.indices) == 0:
		log.Warn("no MIDI output ports found, clock will run silent")
	case sel.degraded:
		log.Warn("only a loopback port is available", zap.String("port", names[sel.indices[0]]))
	}

	var ports []Port
	for _, idx := range sel.indices {
		send, err := gomidi.SendTo(outs[idx])
		if err != nil {
			if len(override) > 0 {
				return nil, fmt.Errorf("opening MIDI port %q: %w", names[idx], err)
			}
			log.Error("failed to open MIDI port, skipping",
				zap.String("port", names[idx]), zap.Error(err))
			continue
		}
		ports = append(ports, Port{Name: names[idx], Send: send})
		log.Info("opened MIDI output", zap.String("port", names[idx]))
	}

	return NewFanout(ports, log), nil
}
