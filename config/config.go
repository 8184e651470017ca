package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"midi-clock/clock"
	"midi-clock/input"
)

// MIDIConfig controls port selection.
type MIDIConfig struct {
	// PortIndices, when set, bypasses the selection policy and opens
	// exactly these ports.
	PortIndices []int `json:"portIndices,omitempty"`
	// DeviceMatch are substrings identifying the multi-port interface.
	DeviceMatch []string `json:"deviceMatch,omitempty"`
}

// InputConfig tunes debounce and auto-repeat.
type InputConfig struct {
	RepeatDelayMS    int `json:"repeatDelayMs,omitempty"`
	RepeatIntervalMS int `json:"repeatIntervalMs,omitempty"`
	DebounceMS       int `json:"debounceMs,omitempty"`
	HoldTimeoutMS    int `json:"holdTimeoutMs,omitempty"`
}

// DisplayConfig tunes the feedback loop.
type DisplayConfig struct {
	RefreshHz int `json:"refreshHz,omitempty"`
}

// Config is the main configuration structure.
type Config struct {
	DefaultBPM float64       `json:"defaultBpm,omitempty"`
	MIDI       MIDIConfig    `json:"midi,omitempty"`
	Input      InputConfig   `json:"input,omitempty"`
	Display    DisplayConfig `json:"display,omitempty"`
	LogPath    string        `json:"logPath,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultBPM: clock.DefaultBPM,
		MIDI: MIDIConfig{
			DeviceMatch: []string{"MIDIMATE", "ESI"},
		},
		Input: InputConfig{
			RepeatDelayMS:    400,
			RepeatIntervalMS: 100,
			DebounceMS:       100,
			HoldTimeoutMS:    250,
		},
		Display: DisplayConfig{
			RefreshHz: 20,
		},
	}
}

// Tuning converts the input section to controller tuning, falling back
// to the defaults for unset fields.
func (c *Config) Tuning() input.Tuning {
	t := input.DefaultTuning()
	if c.Input.RepeatDelayMS > 0 {
		t.RepeatDelay = time.Duration(c.Input.RepeatDelayMS) * time.Millisecond
	}
	if c.Input.RepeatIntervalMS > 0 {
		t.RepeatInterval = time.Duration(c.Input.RepeatIntervalMS) * time.Millisecond
	}
	if c.Input.DebounceMS > 0 {
		t.Debounce = time.Duration(c.Input.DebounceMS) * time.Millisecond
	}
	if c.Input.HoldTimeoutMS > 0 {
		t.HoldTimeout = time.Duration(c.Input.HoldTimeoutMS) * time.Millisecond
	}
	return t
}

// Refresh returns the display cadence, or 0 for the loop's default.
func (c *Config) Refresh() time.Duration {
	if c.Display.RefreshHz <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.Display.RefreshHz)
}

// ConfigDir returns the config directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "midi-clock"), nil
}

// ConfigPath returns the full path to config.json.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
