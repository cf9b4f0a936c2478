// Package playback replays a generated Sequence in real time against a
// MIDI sink on a background loop.
package playback

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"seedgen/sequencer"
)

// recheck interval while stopped
const idlePoll = 50 * time.Millisecond

// Scheduler owns the playback loop. Shared state (playing flag, current
// tick, active sequence) is guarded by mu; the control surface mutates it
// through the exported methods while the loop reads it once per tick.
type Scheduler struct {
	mu      sync.Mutex
	seq     *sequencer.Sequence
	playing bool
	tick    uint32

	channel uint8
	sink    Sink
	log     *zap.Logger

	stop chan struct{}
	done chan struct{}
}

// NewScheduler creates a scheduler over seq. sink may be nil: playback
// then runs silently, which is a non-fatal, session-scoped condition.
func NewScheduler(seq *sequencer.Sequence, channel uint8, sink Sink, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	if sink == nil {
		log.Warn("no MIDI sink available, playback will be silent")
	}
	return &Scheduler{
		seq:     seq,
		channel: channel,
		sink:    sink,
		log:     log,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the playback loop goroutine.
func (s *Scheduler) Start() {
	go s.loop()
}

// Close stops the loop, waits for it to exit and closes the sink.
func (s *Scheduler) Close() error {
	close(s.stop)
	<-s.done
	if s.sink != nil {
		return s.sink.Close()
	}
	return nil
}

// TogglePlay flips the play state and returns the new value. Starting
// playback rewinds to tick 0.
func (s *Scheduler) TogglePlay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = !s.playing
	if s.playing {
		s.tick = 0
	}
	return s.playing
}

// Playing reports whether the loop is emitting.
func (s *Scheduler) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// CurrentTick returns the playhead position.
func (s *Scheduler) CurrentTick() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Sequence returns the active sequence snapshot for rendering.
func (s *Scheduler) Sequence() *sequencer.Sequence {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// SetSequence swaps in a freshly generated sequence. The swap happens
// under the lock so the loop never observes a half-swapped state; playback
// stops and the playhead rewinds.
func (s *Scheduler) SetSequence(seq *sequencer.Sequence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = seq
	s.playing = false
	s.tick = 0
}

func (s *Scheduler) loop() {
	defer close(s.done)

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		s.mu.Lock()
		seq, playing, tick := s.seq, s.playing, s.tick
		s.mu.Unlock()

		if !playing {
			s.sleep(idlePoll)
			continue
		}

		// note-offs first: a note ending on this tick must release before
		// one starting on it sounds
		for _, n := range seq.Notes {
			if n.EndTick == tick {
				s.send([3]byte{0x80 | s.channel, n.Pitch, 0})
			}
		}
		for _, n := range seq.Notes {
			if n.StartTick == tick {
				s.send([3]byte{0x90 | s.channel, n.Pitch, n.Velocity})
			}
		}

		s.mu.Lock()
		if s.seq == seq { // regenerate may have swapped mid-tick
			s.tick++
			if s.tick >= seq.TotalTicks {
				s.tick = 0
			}
		}
		s.mu.Unlock()

		microsPerTick := sequencer.MicrosPerQuarter(seq.BPM) / uint32(seq.TicksPerQuarter)
		s.sleep(time.Duration(microsPerTick) * time.Microsecond)
	}
}

// send is fire-and-forget: sink errors are logged, never retried
func (s *Scheduler) send(msg [3]byte) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Send(msg); err != nil {
		s.log.Debug("sink send failed", zap.Error(err))
	}
}

// sleep waits for d but stays responsive to Close
func (s *Scheduler) sleep(d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-s.stop:
	case <-t.C:
	}
}
