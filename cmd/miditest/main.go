package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "note":
		testNote(os.Args[2:])
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI output test")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list          - List all MIDI output ports")
	fmt.Println("  note [name]   - Send a test note to a port (first port if no name)")
}

func listPorts() {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- midi.GetOutPorts()
	}()

	select {
	case outs := <-ch:
		if len(outs) == 0 {
			fmt.Println("  (none)")
			return
		}
		for i, p := range outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

func testNote(args []string) {
	want := ""
	if len(args) > 0 {
		want = strings.ToLower(args[0])
	}

	outs := midi.GetOutPorts()
	var outPort drivers.Out
	for _, p := range outs {
		if want == "" || strings.Contains(strings.ToLower(p.String()), want) {
			outPort = p
			break
		}
	}
	if outPort == nil {
		fmt.Println("No matching MIDI output port")
		return
	}

	fmt.Printf("Using output: %s\n", outPort.String())

	send, err := midi.SendTo(outPort)
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		return
	}

	fmt.Println("Sending middle C...")
	send(midi.NoteOn(0, 60, 100))
	time.Sleep(500 * time.Millisecond)
	send(midi.NoteOff(0, 60))
	fmt.Println("Done")
}
