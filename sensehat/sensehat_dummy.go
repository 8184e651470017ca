//go:build !linux

package sensehat

import (
	"errors"

	"go.uber.org/zap"

	"midi-clock/display"
	"midi-clock/input"
)

var errUnsupported = errors.New("Sense HAT hardware requires linux")

// Framebuffer is unavailable off-device.
type Framebuffer struct{}

func OpenFramebuffer() (*Framebuffer, error) { return nil, errUnsupported }

func (fb *Framebuffer) SetPixels(display.Frame) error { return errUnsupported }

func (fb *Framebuffer) Clear() error { return errUnsupported }

func (fb *Framebuffer) Close() error { return nil }

// Joystick is unavailable off-device.
type Joystick struct{}

func OpenJoystick(*zap.Logger) (*Joystick, error) { return nil, errUnsupported }

func (j *Joystick) Events() <-chan input.Event { return nil }

func (j *Joystick) Close() error { return nil }
