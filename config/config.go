package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ScaleKind identifies one of the supported scales
type ScaleKind string

const (
	ScaleMajor           ScaleKind = "major"
	ScaleNaturalMinor    ScaleKind = "natural-minor"
	ScaleMinorPentatonic ScaleKind = "minor-pentatonic"
	ScaleMajorPentatonic ScaleKind = "major-pentatonic"
)

// scale tables: semitone offsets from the root, indexed by degree
var scaleSemitones = map[ScaleKind][]int{
	ScaleMajor:           {0, 2, 4, 5, 7, 9, 11},
	ScaleNaturalMinor:    {0, 2, 3, 5, 7, 8, 10},
	ScaleMinorPentatonic: {0, 3, 5, 7, 10},
	ScaleMajorPentatonic: {0, 2, 4, 7, 9},
}

// Semitones returns the scale's ordered semitone-offset table.
func (k ScaleKind) Semitones() []int {
	return scaleSemitones[k]
}

// ParseScale parses a scale name as given on the command line
func ParseScale(s string) (ScaleKind, error) {
	k := ScaleKind(s)
	if _, ok := scaleSemitones[k]; !ok {
		return "", fmt.Errorf("unknown scale %q (want major, natural-minor, minor-pentatonic or major-pentatonic)", s)
	}
	return k, nil
}

// Config holds the validated generation parameters. Immutable once built;
// Validate must pass before any generation work begins.
type Config struct {
	Seed            uint64
	BPM             uint32
	Bars            uint32
	TicksPerQuarter uint16
	RootPitch       uint8 // 0..127
	Scale           ScaleKind
	Channel         uint8 // 0..15
	Program         uint8 // 0..127
}

// Default returns the generation parameters the tool ships with.
func Default() Config {
	return Config{
		Seed:            0xC0FFEE,
		BPM:             120,
		Bars:            16,
		TicksPerQuarter: 480,
		RootPitch:       60, // C4
		Scale:           ScaleMinorPentatonic,
		Channel:         0,
		Program:         0,
	}
}

// Validate checks all parameter ranges. A failure here is a configuration
// error, reported before generation starts.
func (c Config) Validate() error {
	if c.BPM < 1 {
		return fmt.Errorf("bpm must be >= 1, got %d", c.BPM)
	}
	if c.Bars < 1 {
		return fmt.Errorf("bars must be >= 1, got %d", c.Bars)
	}
	if c.TicksPerQuarter == 0 {
		return fmt.Errorf("ticks per quarter must be > 0")
	}
	if c.RootPitch > 127 {
		return fmt.Errorf("root pitch out of MIDI range 0..127: %d", c.RootPitch)
	}
	if _, ok := scaleSemitones[c.Scale]; !ok {
		return fmt.Errorf("unknown scale %q", c.Scale)
	}
	if c.Channel > 15 {
		return fmt.Errorf("channel out of range 0..15: %d", c.Channel)
	}
	if c.Program > 127 {
		return fmt.Errorf("program out of range 0..127: %d", c.Program)
	}
	return nil
}

// Settings are the persisted defaults, loaded before flag parsing so the
// last-used parameters carry over between runs.
type Settings struct {
	BPM             uint32 `json:"bpm,omitempty"`
	Bars            uint32 `json:"bars,omitempty"`
	TicksPerQuarter uint16 `json:"ppqn,omitempty"`
	Root            string `json:"root,omitempty"`
	Scale           string `json:"scale,omitempty"`
	Channel         uint8  `json:"channel"`
	Program         uint8  `json:"program"`
	PortName        string `json:"portName,omitempty"`
}

// DefaultSettings mirrors Default() in flag-friendly form
func DefaultSettings() *Settings {
	return &Settings{
		BPM:             120,
		Bars:            16,
		TicksPerQuarter: 480,
		Root:            "C4",
		Scale:           string(ScaleMinorPentatonic),
	}
}

// Dir returns the config directory path
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "seedgen"), nil
}

func settingsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadSettings reads the settings from disk, or returns defaults if not found
func LoadSettings() (*Settings, error) {
	path, err := settingsPath()
	if err != nil {
		return DefaultSettings(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	s := DefaultSettings()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// Save writes the settings to disk
func (s *Settings) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := settingsPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
