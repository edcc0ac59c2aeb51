package report

import (
	"encoding/json"
	"fmt"
	"os"

	"battlesim/internal/battle"
)

// InputFormatError reports an event stream file that fails validation.
type InputFormatError struct {
	msg string
}

func (e *InputFormatError) Error() string { return e.msg }

func formatErr(format string, args ...any) error {
	return &InputFormatError{msg: fmt.Sprintf(format, args...)}
}

// LoadEventStream reads and validates an ordered event stream from a JSON
// array of {tick, seq, type, actor, data} objects. Events must be strictly
// increasing by (tick, seq).
func LoadEventStream(path string) ([]battle.Event, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, formatErr("read %s: %v", path, err)
	}

	var raw []struct {
		Tick  int            `json:"tick"`
		Seq   int            `json:"seq"`
		Type  string         `json:"type"`
		Actor string         `json:"actor"`
		Data  map[string]any `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, formatErr("%s: invalid JSON: %v", path, err)
	}

	events := make([]battle.Event, 0, len(raw))
	lastTick, lastSeq := 0, 0
	for i, item := range raw {
		if item.Tick < 1 {
			return nil, formatErr("event[%d].tick must be >= 1", i)
		}
		if item.Seq < 1 {
			return nil, formatErr("event[%d].seq must be >= 1", i)
		}
		t := battle.EventType(item.Type)
		if !battle.KnownEventType(t) {
			return nil, formatErr("event[%d].type is not a valid event type: %q", i, item.Type)
		}
		if item.Tick < lastTick || (item.Tick == lastTick && item.Seq <= lastSeq) {
			return nil, formatErr(
				"events must be strictly increasing by (tick, seq); event[%d] has (%d, %d) after (%d, %d)",
				i, item.Tick, item.Seq, lastTick, lastSeq)
		}
		lastTick, lastSeq = item.Tick, item.Seq

		events = append(events, battle.Event{
			Tick:  item.Tick,
			Seq:   item.Seq,
			Type:  t,
			Actor: item.Actor,
			Data:  item.Data,
		})
	}
	return events, nil
}

// WriteEventStream dumps the stream as indented JSON.
func WriteEventStream(path string, events []battle.Event) error {
	b, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0644)
}
