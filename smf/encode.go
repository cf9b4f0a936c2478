// Package smf renders a generated Sequence as a Standard MIDI File:
// a format-0 container holding one delta-time-encoded track.
package smf

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"seedgen/sequencer"
)

// Same-tick ordering ranks. A note-off always lands before a note-on that
// shares its tick, so a note ending where another starts never overlaps
// on the receiving device.
const (
	orderNoteOff = iota
	orderNoteOn
	orderChannel
	orderMeta
	orderSysEx
)

// trackEvent carries an absolute tick until delta conversion
type trackEvent struct {
	tick  uint32
	order uint8
	raw   []byte // event bytes without the delta prefix
}

func tempoEvent(microsPerQuarter uint32) []byte {
	return []byte{0xFF, 0x51, 0x03,
		byte(microsPerQuarter >> 16), byte(microsPerQuarter >> 8), byte(microsPerQuarter)}
}

func programChange(channel, program uint8) []byte {
	return []byte{0xC0 | channel&0x0F, program & 0x7F}
}

func noteOn(channel, pitch, velocity uint8) []byte {
	return []byte{0x90 | channel&0x0F, pitch & 0x7F, velocity & 0x7F}
}

func noteOff(channel, pitch uint8) []byte {
	return []byte{0x80 | channel&0x0F, pitch & 0x7F, 0}
}

var endOfTrack = []byte{0xFF, 0x2F, 0x00}

// appendVLQ appends v as a variable-length quantity: big-endian 7-bit
// groups, high bit set on all but the last byte.
func appendVLQ(dst []byte, v uint32) []byte {
	var buf [5]byte
	i := len(buf) - 1
	buf[i] = byte(v & 0x7F)
	for v >>= 7; v > 0; v >>= 7 {
		i--
		buf[i] = byte(v&0x7F) | 0x80
	}
	return append(dst, buf[i:]...)
}

// Encode turns seq into a complete single-track SMF byte stream: tempo and
// program-change at tick 0, a note-on/note-off pair per note, end-of-track
// last. Pure function: encoding the same Sequence twice yields identical
// bytes.
func Encode(seq *sequencer.Sequence, channel, program uint8) []byte {
	events := make([]trackEvent, 0, 2+2*len(seq.Notes))
	for _, n := range seq.Notes {
		events = append(events,
			trackEvent{n.StartTick, orderNoteOn, noteOn(channel, n.Pitch, n.Velocity)},
			trackEvent{n.EndTick, orderNoteOff, noteOff(channel, n.Pitch)},
		)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].order < events[j].order
	})

	// tempo and program change lead the track so no note sounds before
	// the tempo and patch are set
	events = append([]trackEvent{
		{0, orderMeta, tempoEvent(sequencer.MicrosPerQuarter(seq.BPM))},
		{0, orderChannel, programChange(channel, program)},
	}, events...)

	var track []byte
	last := uint32(0)
	for _, ev := range events {
		// floored at 0 to tolerate residual ties
		delta := uint32(0)
		if ev.tick > last {
			delta = ev.tick - last
		}
		last = ev.tick
		track = appendVLQ(track, delta)
		track = append(track, ev.raw...)
	}
	track = appendVLQ(track, 0)
	track = append(track, endOfTrack...)

	out := make([]byte, 0, 14+8+len(track))
	out = append(out, 'M', 'T', 'h', 'd')
	out = binary.BigEndian.AppendUint32(out, 6)
	out = binary.BigEndian.AppendUint16(out, 0) // format 0
	out = binary.BigEndian.AppendUint16(out, 1) // single track
	out = binary.BigEndian.AppendUint16(out, seq.TicksPerQuarter)
	out = append(out, 'M', 'T', 'r', 'k')
	out = binary.BigEndian.AppendUint32(out, uint32(len(track)))
	out = append(out, track...)
	return out
}

// WriteFile encodes seq and persists it in a single write, creating the
// parent directory if needed. Nothing touches disk before encoding
// completes, so a failure never leaves a truncated file.
func WriteFile(path string, seq *sequencer.Sequence, channel, program uint8) error {
	data := Encode(seq, channel, program)

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
