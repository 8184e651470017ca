//go:build linux

package sensehat

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"midi-clock/input"
)

const joystickName = "Raspberry Pi Sense HAT Joystick"

// evdev event types and key codes reported by the joystick driver.
const (
	evKey = 0x01

	keyEnter = 28
	keyUp    = 103
	keyLeft  = 105
	keyRight = 106
	keyDown  = 108
)

// inputEvent mirrors struct input_event. unix.Timeval matches the kernel
// layout for the build architecture.
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// Joystick reads Sense HAT joystick events from the evdev device and
// exposes them as an input.Source. The kernel's key auto-repeat shows up
// as Held events, which is exactly what the controller's hold tracking
// wants.
type Joystick struct {
	f      *os.File
	events chan input.Event
	log    *zap.Logger
}

// OpenJoystick locates the joystick event device and starts reading it.
func OpenJoystick(log *zap.Logger) (*Joystick, error) {
	dev, err := findJoystick()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", dev, err)
	}

	j := &Joystick{
		f:      f,
		events: make(chan input.Event, 16),
		log:    log,
	}
	go j.readLoop()
	return j, nil
}

func findJoystick() (string, error) {
	entries, _ := filepath.Glob("/sys/class/input/event*")
	for _, entry := range entries {
		name, err := os.ReadFile(filepath.Join(entry, "device", "name"))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(name)) == joystickName {
			return "/dev/input/" + filepath.Base(entry), nil
		}
	}
	return "", fmt.Errorf("joystick device %q not found", joystickName)
}

// Events implements input.Source.
func (j *Joystick) Events() <-chan input.Event {
	return j.events
}

func (j *Joystick) readLoop() {
	defer close(j.events)
	var ev inputEvent
	for {
		if err := binary.Read(j.f, binary.LittleEndian, &ev); err != nil {
			// Closed or unplugged; either way we are done.
			return
		}
		if ev.Type != evKey {
			continue
		}

		var dir input.Direction
		switch ev.Code {
		case keyUp:
			dir = input.Up
		case keyDown:
			dir = input.Down
		case keyLeft:
			dir = input.Left
		case keyRight:
			dir = input.Right
		case keyEnter:
			dir = input.Press
		default:
			continue
		}

		var action input.Action
		switch ev.Value {
		case 0:
			action = input.Released
		case 1:
			action = input.Pressed
		case 2:
			action = input.Held
		default:
			continue
		}

		select {
		case j.events <- input.Event{Dir: dir, Action: action}:
		default:
			j.log.Warn("joystick event dropped", zap.String("dir", dir.String()))
		}
	}
}

// Close stops the read loop and releases the device.
func (j *Joystick) Close() error {
	return j.f.Close()
}
