package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"seedgen/config"
	"seedgen/playback"
	"seedgen/sequencer"
	"seedgen/smf"
	"seedgen/tui"
)

func main() {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
		settings = config.DefaultSettings()
	}

	var (
		out     = flag.String("out", "", "output .mid path (default: out/seeded_<timestamp>_<seed>.mid)")
		seed    = flag.Uint64("seed", 0xC0FFEE, "RNG seed (same seed => same MIDI)")
		bpm     = flag.Uint("bpm", uint(settings.BPM), "tempo in BPM")
		bars    = flag.Uint("bars", uint(settings.Bars), "bars (assumes 4/4)")
		ppqn    = flag.Uint("ppqn", uint(settings.TicksPerQuarter), "ticks per quarter note")
		root    = flag.String("root", settings.Root, "root note in scientific pitch notation (e.g. C4, F#5, Db2)")
		scale   = flag.String("scale", settings.Scale, "scale: major, natural-minor, minor-pentatonic, major-pentatonic")
		channel = flag.Uint("channel", uint(settings.Channel), "MIDI channel (0..15)")
		program = flag.Uint("program", uint(settings.Program), "program (0..127), 0 = acoustic grand piano")
		port    = flag.String("port", settings.PortName, "MIDI output port for playback (substring match)")
		play    = flag.Bool("play", false, "launch the piano-roll player instead of writing a file")
	)
	flag.Parse()

	rootPitch, err := config.ParseNote(*root)
	if err != nil {
		fatalf("invalid -root: %v", err)
	}
	scaleKind, err := config.ParseScale(*scale)
	if err != nil {
		fatalf("invalid -scale: %v", err)
	}
	if *ppqn > 0xFFFF {
		fatalf("invalid -ppqn: out of range 1..65535: %d", *ppqn)
	}
	if *channel > 15 {
		fatalf("invalid -channel: out of range 0..15: %d", *channel)
	}
	if *program > 127 {
		fatalf("invalid -program: out of range 0..127: %d", *program)
	}

	cfg := config.Config{
		Seed:            *seed,
		BPM:             uint32(*bpm),
		Bars:            uint32(*bars),
		TicksPerQuarter: uint16(*ppqn),
		RootPitch:       rootPitch,
		Scale:           scaleKind,
		Channel:         uint8(*channel),
		Program:         uint8(*program),
	}
	if err := cfg.Validate(); err != nil {
		fatalf("invalid configuration: %v", err)
	}

	seq := sequencer.Generate(cfg)

	// remember the last-used parameters as the next run's defaults
	settings.BPM = cfg.BPM
	settings.Bars = cfg.Bars
	settings.TicksPerQuarter = cfg.TicksPerQuarter
	settings.Root = *root
	settings.Scale = string(cfg.Scale)
	settings.Channel = cfg.Channel
	settings.Program = cfg.Program
	settings.PortName = *port
	if err := settings.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: save settings: %v\n", err)
	}

	if *play {
		runPlayer(cfg, seq, *port)
		return
	}

	path := *out
	if path == "" {
		path = defaultOutPath(cfg.Seed)
	}
	if err := smf.WriteFile(path, seq, cfg.Channel, cfg.Program); err != nil {
		fatalf("%v", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%d notes)\n", path, len(seq.Notes))
}

func defaultOutPath(seed uint64) string {
	ts := time.Now().Format("20060102_150405")
	return filepath.Join("out", fmt.Sprintf("seeded_%s_%d.mid", ts, seed))
}

func runPlayer(cfg config.Config, seq *sequencer.Sequence, port string) {
	log := fileLogger()
	defer log.Sync()

	sink, portName, err := playback.OpenSink(port)
	if err != nil {
		// recoverable: the player still runs, just silently
		log.Warn("MIDI output unavailable", zap.Error(err))
		sink = nil
		portName = ""
	} else {
		log.Info("MIDI output connected", zap.String("port", portName))
	}

	sched := playback.NewScheduler(seq, cfg.Channel, sink, log)
	sched.Start()
	defer sched.Close()

	p := tea.NewProgram(tui.NewModel(cfg, sched, portName), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fatalf("tui: %v", err)
	}
}

// fileLogger logs to ~/.config/seedgen/seedgen.log - stdout belongs to the TUI
func fileLogger() *zap.Logger {
	dir, err := config.Dir()
	if err != nil {
		return zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return zap.NewNop()
	}

	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{filepath.Join(dir, "seedgen.log")}
	zcfg.ErrorOutputPaths = zcfg.OutputPaths
	log, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
