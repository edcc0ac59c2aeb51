package report

import (
	"strings"
	"testing"

	"battlesim/internal/battle"
)

func sampleEvents() []battle.Event {
	var events []battle.Event
	events = append(events, turnSpan(1, 1, "Alaric", 21, 18, "A1")...)
	events = append(events, turnSpan(2, 1, "Boss", 21, 21, "")...)
	return events
}

func TestRenderTextFramesAndShields(t *testing.T) {
	out := RenderText(sampleEvents(), RenderOptions{BossActor: "Boss"})

	if !strings.HasPrefix(out, "Boss Turn #1\n") {
		t.Fatalf("output does not open with the frame header:\n%s", out)
	}
	if !strings.Contains(out, "[21 UP]") || !strings.Contains(out, "[18 UP]") {
		t.Fatalf("output missing shield snapshots:\n%s", out)
	}
	if !strings.Contains(out, "{A1}") {
		t.Fatalf("output missing skill token:\n%s", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("output must end with a newline")
	}
}

func TestRenderTextRowIndices(t *testing.T) {
	start := 1
	out := RenderText(sampleEvents(), RenderOptions{BossActor: "Boss", RowIndexStart: &start})

	if !strings.Contains(out, "  1: ") || !strings.Contains(out, "  2: ") {
		t.Fatalf("expected indexed rows starting at 1:\n%s", out)
	}
	// The caller's start value is not consumed.
	if start != 1 {
		t.Fatalf("RowIndexStart mutated to %d", start)
	}
}

func TestRenderTextEmptyStream(t *testing.T) {
	out := RenderText(nil, RenderOptions{BossActor: "Boss"})
	if !strings.Contains(out, "No complete boss frames") {
		t.Fatalf("unexpected empty-stream output: %q", out)
	}
}

func TestRenderTextAlignsPostColumn(t *testing.T) {
	var events []battle.Event
	events = append(events, turnSpan(1, 1, "Al", 21, 18, "A1")...)
	events = append(events, turnSpan(2, 1, "Belladonna", 18, 15, "A2")...)
	events = append(events, turnSpan(3, 1, "Boss", 15, 15, "")...)

	out := RenderText(events, RenderOptions{BossActor: "Boss"})
	var cols []int
	for _, line := range strings.Split(out, "\n") {
		if idx := strings.LastIndex(line, "["); strings.HasPrefix(line, "  [") && idx > 0 {
			cols = append(cols, idx)
		}
	}
	if len(cols) != 3 {
		t.Fatalf("expected 3 actor rows, got %d:\n%s", len(cols), out)
	}
	if cols[0] != cols[1] || cols[1] != cols[2] {
		t.Fatalf("post column jumps between rows (%v):\n%s", cols, out)
	}
}
