//go:build linux

package sensehat

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"midi-clock/display"
)

// The Sense HAT LED matrix registers as a framebuffer with this name.
const fbName = "RPi-Sense FB"

// frameBytes is 64 pixels of RGB565.
const frameBytes = 64 * 2

// Framebuffer renders frames to the Sense HAT LED matrix via the kernel
// framebuffer device.
type Framebuffer struct {
	f   *os.File
	mem []byte
}

// OpenFramebuffer locates the Sense HAT framebuffer and maps it.
func OpenFramebuffer() (*Framebuffer, error) {
	dev, err := findFramebuffer()
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(dev, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", dev, err)
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, frameBytes,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mapping %s: %w", dev, err)
	}

	return &Framebuffer{f: f, mem: mem}, nil
}

func findFramebuffer() (string, error) {
	entries, _ := filepath.Glob("/sys/class/graphics/fb*")
	for _, entry := range entries {
		name, err := os.ReadFile(filepath.Join(entry, "name"))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(name)) == fbName {
			return "/dev/" + filepath.Base(entry), nil
		}
	}
	return "", fmt.Errorf("Sense HAT framebuffer %q not found", fbName)
}

// SetPixels writes a full frame as RGB565.
func (fb *Framebuffer) SetPixels(f display.Frame) error {
	for i, px := range f {
		binary.LittleEndian.PutUint16(fb.mem[i*2:], rgb565(px))
	}
	return nil
}

// Clear blanks the matrix.
func (fb *Framebuffer) Clear() error {
	for i := range fb.mem {
		fb.mem[i] = 0
	}
	return nil
}

// Close clears the matrix and releases the device.
func (fb *Framebuffer) Close() error {
	fb.Clear()
	if err := unix.Munmap(fb.mem); err != nil {
		fb.f.Close()
		return err
	}
	return fb.f.Close()
}

func rgb565(c display.RGB) uint16 {
	return uint16(c[0]>>3)<<11 | uint16(c[1]>>2)<<5 | uint16(c[2]>>3)
}
