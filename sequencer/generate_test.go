package sequencer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seedgen/config"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := config.Default()

	a := Generate(cfg)
	b := Generate(cfg)

	assert.Equal(t, a.Notes, b.Notes)
	assert.Equal(t, a.TotalTicks, b.TotalTicks)
}

func TestGenerateSeedChangesOutput(t *testing.T) {
	cfg := config.Default()
	a := Generate(cfg)

	cfg.Seed = cfg.Seed + 1
	b := Generate(cfg)

	assert.NotEqual(t, a.Notes, b.Notes)
}

func TestGenerateBounds(t *testing.T) {
	for _, scale := range []config.ScaleKind{
		config.ScaleMajor,
		config.ScaleNaturalMinor,
		config.ScaleMinorPentatonic,
		config.ScaleMajorPentatonic,
	} {
		for seed := uint64(0); seed < 25; seed++ {
			cfg := config.Default()
			cfg.Seed = seed
			cfg.Scale = scale
			cfg.RootPitch = 120 // push octave shifts past the top of the range

			seq := Generate(cfg)
			for _, n := range seq.Notes {
				assert.LessOrEqual(t, n.Pitch, uint8(127))
				assert.LessOrEqual(t, n.Velocity, uint8(127))
				assert.LessOrEqual(t, n.StartTick, n.EndTick)
				assert.LessOrEqual(t, n.EndTick, seq.TotalTicks)
			}
		}
	}
}

func TestGenerateGridDimensions(t *testing.T) {
	cfg := config.Default()
	cfg.BPM = 120
	cfg.Bars = 1
	cfg.TicksPerQuarter = 480

	seq := Generate(cfg)

	// 16 steps of 120 ticks each
	assert.Equal(t, uint32(1920), seq.TotalTicks)
	for _, n := range seq.Notes {
		assert.Zero(t, n.StartTick%120, "notes start on the 1/16 grid")
	}
}

func TestGenerateClipsNoteEnds(t *testing.T) {
	// over enough seeds a note near the last step always runs past the
	// end of the bar and must clip to exactly TotalTicks
	clipped := false
	for seed := uint64(0); seed < 100 && !clipped; seed++ {
		cfg := config.Default()
		cfg.Seed = seed
		cfg.Bars = 1

		seq := Generate(cfg)
		for _, n := range seq.Notes {
			require.LessOrEqual(t, n.EndTick, seq.TotalTicks)
			if n.EndTick == seq.TotalTicks && n.StartTick > seq.TotalTicks-4*120 {
				clipped = true
			}
		}
	}
	assert.True(t, clipped, "expected at least one clipped note across 100 seeds")
}

func TestGenerateRestDensity(t *testing.T) {
	cfg := config.Default() // 16 bars = 256 steps, expect ~45% note steps

	seq := Generate(cfg)

	steps := int(cfg.Bars * stepsPerBar)
	assert.Greater(t, len(seq.Notes), steps/5)
	assert.Less(t, len(seq.Notes), steps*7/10)
}

func TestMicrosPerQuarter(t *testing.T) {
	assert.Equal(t, uint32(500_000), MicrosPerQuarter(120))
	// minimal bpm must not divide by zero
	assert.Equal(t, uint32(60_000_000), MicrosPerQuarter(1))
	assert.Equal(t, uint32(60_000_000), MicrosPerQuarter(0))
}

func TestWeightedChoice(t *testing.T) {
	r := newRNG(42)
	items := []weighted{{1, 40}, {2, 30}, {3, 10}, {4, 20}}

	seen := map[int]int{}
	for i := 0; i < 10_000; i++ {
		v := weightedChoice(r, items)
		require.Contains(t, []int{1, 2, 3, 4}, v)
		seen[v]++
	}

	// every entry has weight >= 10/100, so all must show up
	for _, it := range items {
		assert.Greater(t, seen[it.value], 0)
	}
	// the heaviest entry dominates the lightest
	assert.Greater(t, seen[1], seen[3])
}
