package sequencer

import (
	"encoding/binary"
	"math/rand/v2"

	"seedgen/config"
)

// 1/16-note grid, 4/4 assumed
const stepsPerBar = 16

type weighted struct {
	value  int
	weight int
}

// anchor degree weights: root and third favored, indices past the scale's
// range get clamped
var degreeWeights = []weighted{{0, 30}, {1, 15}, {2, 30}, {3, 15}, {4, 10}}

// note length in grid steps
var durationWeights = []weighted{{1, 40}, {2, 30}, {3, 10}, {4, 20}}

// newRNG builds a ChaCha8 stream from a 64-bit seed. The key is expanded
// with splitmix64 so nearby seeds don't share key bytes.
func newRNG(seed uint64) *rand.Rand {
	var key [32]byte
	s := seed
	for i := 0; i < 4; i++ {
		s += 0x9E3779B97F4A7C15
		z := s
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		z ^= z >> 31
		binary.LittleEndian.PutUint64(key[i*8:], z)
	}
	return rand.New(rand.NewChaCha8(key))
}

// weightedChoice draws a uniform integer in [0, totalWeight) and walks the
// cumulative weights. Weights must be positive.
func weightedChoice(r *rand.Rand, items []weighted) int {
	total := 0
	for _, it := range items {
		total += it.weight
	}
	x := r.IntN(total)
	for _, it := range items {
		if x < it.weight {
			return it.value
		}
		x -= it.weight
	}
	return items[len(items)-1].value
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Generate produces the note sequence for cfg. It is deterministic: the
// same Config (seed included) yields the same Sequence on every call. The
// per-step draw order is fixed; reordering draws changes the output for a
// given seed.
func Generate(cfg config.Config) *Sequence {
	r := newRNG(cfg.Seed)
	scale := cfg.Scale.Semitones()
	maxDeg := len(scale)

	stepTicks := uint32(cfg.TicksPerQuarter) / 4
	totalSteps := cfg.Bars * stepsPerBar
	totalTicks := totalSteps * stepTicks

	notes := make([]NoteEvent, 0, totalSteps/2)
	lastDegree := 0

	for step := uint32(0); step < totalSteps; step++ {
		start := step * stepTicks

		// fixed 55% rest density
		if r.IntN(100) < 55 {
			continue
		}

		var anchor int
		if maxDeg >= 3 {
			anchor = weightedChoice(r, degreeWeights)
		} else {
			anchor = r.IntN(maxDeg)
		}
		anchor = clamp(anchor, 0, maxDeg-1)

		// 65% of the time move stepwise from the previous degree instead
		// of jumping to the anchor
		deg := anchor
		if r.IntN(100) < 65 {
			deg = clamp(lastDegree+r.IntN(3)-1, 0, maxDeg-1)
		}
		lastDegree = deg

		semis := scale[deg]
		octaveShift := 0
		switch roll := r.IntN(100); {
		case roll < 10:
			octaveShift = 12
		case roll < 15:
			octaveShift = -12
		}

		// out-of-range pitches are clipped, not rejected
		pitch := clamp(int(cfg.RootPitch)+semis+octaveShift, 0, 127)

		durSteps := uint32(weightedChoice(r, durationWeights))
		end := start + durSteps*stepTicks
		if end > totalTicks {
			end = totalTicks
		}

		vel := r.IntN(40) + 55
		if step%4 == 0 {
			vel += 18 // quarter-note downbeat accent
		}
		if vel > 127 {
			vel = 127
		}

		notes = append(notes, NoteEvent{
			Pitch:     uint8(pitch),
			StartTick: start,
			EndTick:   end,
			Velocity:  uint8(vel),
		})
	}

	return &Sequence{
		Notes:           notes,
		BPM:             cfg.BPM,
		TicksPerQuarter: cfg.TicksPerQuarter,
		TotalTicks:      totalTicks,
	}
}
