package playback

import (
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// Sink receives raw 3-byte channel-voice messages [status, pitch, velocity].
type Sink interface {
	Send(msg [3]byte) error
	Close() error
}

// midiSink sends to a gomidi output port
type midiSink struct {
	port drivers.Out
	send func(gomidi.Message) error
}

// OpenSink opens the MIDI output port whose name contains name
// (case-insensitive), or the first available port when name is empty.
// Returns the resolved port name for display.
func OpenSink(name string) (Sink, string, error) {
	ports, err := outPorts()
	if err != nil {
		return nil, "", err
	}
	if len(ports) == 0 {
		return nil, "", fmt.Errorf("no MIDI output ports available")
	}

	var port drivers.Out
	if name == "" {
		port = ports[0]
	} else {
		want := strings.ToLower(name)
		for _, p := range ports {
			if strings.Contains(strings.ToLower(p.String()), want) {
				port = p
				break
			}
		}
		if port == nil {
			return nil, "", fmt.Errorf("no MIDI output port matching %q", name)
		}
	}

	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", port.String(), err)
	}
	return &midiSink{port: port, send: send}, port.String(), nil
}

// outPorts lists output ports with a timeout (CoreMIDI can hang)
func outPorts() ([]drivers.Out, error) {
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()

	select {
	case ports := <-ch:
		return ports, nil
	case <-time.After(3 * time.Second):
		return nil, fmt.Errorf("timed out listing MIDI output ports")
	}
}

func (m *midiSink) Send(msg [3]byte) error {
	return m.send(gomidi.Message(msg[:]))
}

func (m *midiSink) Close() error {
	return m.port.Close()
}
