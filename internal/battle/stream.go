package battle

import "fmt"

// Stream is the append-only event sink shared by every component of a run.
// It owns tick/seq numbering so the scheduler stays free of global state.
type Stream struct {
	events []Event
	tick   int
	seq    int
}

func NewStream() *Stream {
	return &Stream{events: make([]Event, 0, 256)}
}

// Tick returns the current global tick (0 before the first StartTick).
func (s *Stream) Tick() int { return s.tick }

// StartTick advances the global clock and resets the per-tick sequence.
func (s *Stream) StartTick() int {
	s.tick++
	s.seq = 0
	return s.tick
}

// Emit appends an event at the current tick. Calling Emit before the first
// StartTick is a programming error, not a runtime condition.
func (s *Stream) Emit(t EventType, actor string, data map[string]any) {
	if s.tick <= 0 {
		panic(fmt.Sprintf("battle: Emit(%s) before StartTick", t))
	}
	s.seq++
	s.events = append(s.events, Event{
		Tick:  s.tick,
		Seq:   s.seq,
		Type:  t,
		Actor: actor,
		Data:  data,
	})
}

// Events returns the ordered stream. The slice is shared; callers must not
// mutate it.
func (s *Stream) Events() []Event { return s.events }

func (s *Stream) Len() int { return len(s.events) }
