package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"battlesim/internal/battle"
)

func writeStreamFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadEventStreamRoundTrip(t *testing.T) {
	events := []battle.Event{
		{Tick: 1, Seq: 1, Type: battle.EventTickStart},
		{Tick: 1, Seq: 2, Type: battle.EventTurnStart, Actor: "Alaric", Data: map[string]any{"turn_counter": 1}},
		{Tick: 1, Seq: 3, Type: battle.EventTurnEnd, Actor: "Alaric", Data: map[string]any{"turn_counter": 1}},
		{Tick: 2, Seq: 1, Type: battle.EventRunComplete, Data: map[string]any{"reason": "max_ticks"}},
	}
	path := filepath.Join(t.TempDir(), "events.json")
	if err := WriteEventStream(path, events); err != nil {
		t.Fatalf("WriteEventStream: %v", err)
	}

	loaded, err := LoadEventStream(path)
	if err != nil {
		t.Fatalf("LoadEventStream: %v", err)
	}
	if len(loaded) != len(events) {
		t.Fatalf("loaded %d events, want %d", len(loaded), len(events))
	}
	for i := range events {
		if loaded[i].Tick != events[i].Tick || loaded[i].Seq != events[i].Seq || loaded[i].Type != events[i].Type {
			t.Fatalf("event[%d] = %+v, want %+v", i, loaded[i], events[i])
		}
	}
}

func TestLoadEventStreamRejectsUnknownType(t *testing.T) {
	path := writeStreamFile(t, `[{"tick":1,"seq":1,"type":"NOT_A_THING"}]`)
	_, err := LoadEventStream(path)
	if err == nil {
		t.Fatalf("expected unknown event type to fail validation")
	}
	var ife *InputFormatError
	if !errors.As(err, &ife) {
		t.Fatalf("expected *InputFormatError, got %T", err)
	}
}

func TestLoadEventStreamRejectsOrderingViolations(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"duplicate", `[{"tick":1,"seq":1,"type":"TICK_START"},{"tick":1,"seq":1,"type":"FILL_COMPLETE"}]`},
		{"seq regression", `[{"tick":1,"seq":2,"type":"TICK_START"},{"tick":1,"seq":1,"type":"FILL_COMPLETE"}]`},
		{"tick regression", `[{"tick":2,"seq":1,"type":"TICK_START"},{"tick":1,"seq":1,"type":"TICK_START"}]`},
		{"zero tick", `[{"tick":0,"seq":1,"type":"TICK_START"}]`},
		{"zero seq", `[{"tick":1,"seq":0,"type":"TICK_START"}]`},
	}
	for _, tc := range cases {
		path := writeStreamFile(t, tc.body)
		if _, err := LoadEventStream(path); err == nil {
			t.Fatalf("%s: expected a validation error", tc.name)
		}
	}
}

func TestLoadEventStreamRejectsInvalidJSON(t *testing.T) {
	path := writeStreamFile(t, `{"not":"an array"}`)
	if _, err := LoadEventStream(path); err == nil {
		t.Fatalf("expected invalid JSON shape to error")
	}
}
