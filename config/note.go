package config

import (
	"fmt"
	"strconv"
	"strings"
)

var pitchClasses = map[rune]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// ParseNote converts scientific pitch notation (C4, A3, F#5, Db2) into a
// MIDI note number. Octave -1 maps to pitch 0, so "C4" is 60.
func ParseNote(input string) (uint8, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, fmt.Errorf("empty note")
	}

	runes := []rune(s)
	letter := runes[0]
	pc, ok := pitchClasses[unicodeUpper(letter)]
	if !ok {
		return 0, fmt.Errorf("bad note letter: %c", letter)
	}

	rest := runes[1:]
	if len(rest) > 0 {
		switch rest[0] {
		case '#', '♯':
			pc++
			rest = rest[1:]
		case 'b', 'B', '♭':
			pc--
			rest = rest[1:]
		}
	}

	octaveStr := strings.TrimSpace(string(rest))
	if octaveStr == "" {
		return 0, fmt.Errorf("missing octave, expected like C#4")
	}

	octave, err := strconv.Atoi(octaveStr)
	if err != nil {
		return 0, fmt.Errorf("bad octave: %s", octaveStr)
	}

	midi := (octave+1)*12 + pc
	if midi < 0 || midi > 127 {
		return 0, fmt.Errorf("note out of MIDI range 0..127: %d", midi)
	}
	return uint8(midi), nil
}

// NoteName formats a MIDI note number as scientific pitch notation.
func NoteName(pitch uint8) string {
	octave := int(pitch)/12 - 1
	return fmt.Sprintf("%s%d", noteNames[pitch%12], octave)
}

func unicodeUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
