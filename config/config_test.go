package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNote(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint8
		wantErr bool
	}{
		{name: "middle C", input: "C4", want: 60},
		{name: "A below middle C", input: "A3", want: 57},
		{name: "sharp", input: "F#5", want: 78},
		{name: "flat", input: "Db2", want: 37},
		{name: "unicode sharp", input: "C♯4", want: 61},
		{name: "unicode flat", input: "E♭3", want: 51},
		{name: "lowercase letter", input: "g2", want: 43},
		{name: "surrounding whitespace", input: " C4 ", want: 60},
		{name: "lowest note", input: "C-1", want: 0},
		{name: "highest note", input: "G9", want: 127},
		{name: "above range", input: "G#9", wantErr: true},
		{name: "below range", input: "C-2", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "bad letter", input: "H4", wantErr: true},
		{name: "missing octave", input: "C#", wantErr: true},
		{name: "bad octave", input: "Cx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNote(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNoteName(t *testing.T) {
	assert.Equal(t, "C4", NoteName(60))
	assert.Equal(t, "A3", NoteName(57))
	assert.Equal(t, "F#5", NoteName(78))
	assert.Equal(t, "C-1", NoteName(0))
	assert.Equal(t, "G9", NoteName(127))
}

func TestScaleSemitones(t *testing.T) {
	assert.Len(t, ScaleMajor.Semitones(), 7)
	assert.Len(t, ScaleNaturalMinor.Semitones(), 7)
	assert.Len(t, ScaleMinorPentatonic.Semitones(), 5)
	assert.Len(t, ScaleMajorPentatonic.Semitones(), 5)

	assert.Equal(t, []int{0, 3, 5, 7, 10}, ScaleMinorPentatonic.Semitones())
}

func TestParseScale(t *testing.T) {
	k, err := ParseScale("major")
	require.NoError(t, err)
	assert.Equal(t, ScaleMajor, k)

	_, err = ParseScale("phrygian")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Default()
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero bpm", func(c *Config) { c.BPM = 0 }},
		{"zero bars", func(c *Config) { c.Bars = 0 }},
		{"zero ppqn", func(c *Config) { c.TicksPerQuarter = 0 }},
		{"bad scale", func(c *Config) { c.Scale = "chromatic" }},
		{"channel too high", func(c *Config) { c.Channel = 16 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
