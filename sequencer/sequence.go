package sequencer

// NoteEvent is a single generated note. Immutable once produced.
// StartTick <= EndTick <= the owning Sequence's TotalTicks.
type NoteEvent struct {
	Pitch     uint8
	StartTick uint32
	EndTick   uint32
	Velocity  uint8
}

// Sequence is the output of one generation call. Read-only afterward:
// the encoder and the playback loop both consume it as a snapshot.
type Sequence struct {
	Notes           []NoteEvent
	BPM             uint32
	TicksPerQuarter uint16
	TotalTicks      uint32
}

// MicrosPerQuarter converts BPM to microseconds per quarter note.
func MicrosPerQuarter(bpm uint32) uint32 {
	if bpm < 1 {
		bpm = 1
	}
	return 60_000_000 / bpm
}
