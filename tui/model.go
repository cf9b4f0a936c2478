// Package tui is the terminal control surface: a text piano roll over the
// active sequence plus play/stop and regenerate controls. It only reads
// scheduler state once per frame; all mutation goes through the
// scheduler's own methods.
package tui

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"seedgen/config"
	"seedgen/playback"
	"seedgen/sequencer"
)

const rollWidth = 72

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C792EA")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	noteStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	playheadStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6060"))
)

type frameMsg time.Time

// Model drives the piano-roll view at a fixed frame rate
type Model struct {
	cfg      config.Config
	sched    *playback.Scheduler
	portName string // "" when no sink is connected
	quitting bool
}

func NewModel(cfg config.Config, sched *playback.Scheduler, portName string) Model {
	return Model{cfg: cfg, sched: sched, portName: portName}
}

func frame() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return frame()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case " ", "p":
			m.sched.TogglePlay()

		case "r":
			// fresh random seed, same musical parameters
			m.cfg.Seed = rand.Uint64()
			m.sched.SetSequence(sequencer.Generate(m.cfg))
		}

	case frameMsg:
		return m, frame()
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	seq := m.sched.Sequence()
	playing := m.sched.Playing()
	tick := m.sched.CurrentTick()

	playState := "STOP"
	if playing {
		playState = "PLAY"
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render(fmt.Sprintf(
		"seedgen  %s  seed:0x%X  %dbpm  %s  root:%s",
		playState, m.cfg.Seed, seq.BPM, m.cfg.Scale, config.NoteName(m.cfg.RootPitch))))
	out.WriteString("\n")
	if m.portName != "" {
		out.WriteString(dimStyle.Render("out: " + m.portName))
	} else {
		out.WriteString(warnStyle.Render("no MIDI out - playback is silent"))
	}
	out.WriteString("\n\n")
	out.WriteString(renderRoll(seq, playing, tick))
	out.WriteString("\n")
	out.WriteString(dimStyle.Render("space:play/stop  r:regenerate  q:quit"))
	return out.String()
}

// renderRoll draws the sequence as one row per pitch, high notes on top,
// with the playhead column highlighted while playing.
func renderRoll(seq *sequencer.Sequence, playing bool, tick uint32) string {
	if len(seq.Notes) == 0 {
		return dimStyle.Render("(empty sequence)") + "\n"
	}

	lo, hi := pitchRange(seq)
	ticksPerCol := seq.TotalTicks / rollWidth
	if ticksPerCol == 0 {
		ticksPerCol = 1
	}
	playheadCol := int(tick / ticksPerCol)

	var b strings.Builder
	for pitch := hi; ; pitch-- {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%4s ", config.NoteName(pitch))))

		for col := 0; col < rollWidth; col++ {
			colStart := uint32(col) * ticksPerCol
			colEnd := colStart + ticksPerCol

			cell := "·"
			style := dimStyle
			for _, n := range seq.Notes {
				if n.Pitch == pitch && n.StartTick < colEnd && n.EndTick > colStart {
					cell = "█"
					style = noteStyle
					break
				}
			}
			if playing && col == playheadCol {
				style = playheadStyle
				if cell == "·" {
					cell = "|"
				}
			}
			b.WriteString(style.Render(cell))
		}
		b.WriteString("\n")

		if pitch == lo {
			break
		}
	}
	return b.String()
}

// pitchRange pads the used range by two semitones each side, clamped to
// the MIDI range
func pitchRange(seq *sequencer.Sequence) (lo, hi uint8) {
	lo, hi = 127, 0
	for _, n := range seq.Notes {
		if n.Pitch < lo {
			lo = n.Pitch
		}
		if n.Pitch > hi {
			hi = n.Pitch
		}
	}
	if lo >= 2 {
		lo -= 2
	} else {
		lo = 0
	}
	if hi <= 125 {
		hi += 2
	} else {
		hi = 127
	}
	return lo, hi
}
