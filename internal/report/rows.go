// Package report derives human-facing views from the battle event stream.
// It consumes the ordered stream only; it never reaches into kernel state.
package report

import "battlesim/internal/battle"

// ShieldSnapshot is the boss shield state carried on a turn boundary event.
type ShieldSnapshot struct {
	Value  int
	Status string // "UP" | "BROKEN"
}

// TurnRow is one actor turn: the TURN_START → TURN_END span with the shield
// PRE/POST snapshots, when present.
type TurnRow struct {
	Actor      string
	PreShield  *ShieldSnapshot
	PostShield *ShieldSnapshot
	Events     []battle.Event
}

// BossTurnFrame groups rows boss-relative: a frame closes when the boss
// completes a turn. Frame indices start at 1.
type BossTurnFrame struct {
	BossTurnIndex int
	Rows          []TurnRow
}

func shieldFromEvent(e battle.Event) *ShieldSnapshot {
	v, okV := e.Data["boss_shield_value"]
	st, okS := e.Data["boss_shield_status"]
	if !okV || !okS {
		return nil
	}
	return &ShieldSnapshot{Value: asInt(v), Status: asString(st)}
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// DeriveTurnRows walks an ordered stream and extracts TURN_START → TURN_END
// spans. Events between the boundaries (inclusive) attach to the row.
func DeriveTurnRows(events []battle.Event) []TurnRow {
	var rows []TurnRow
	var buffer []battle.Event
	actor := ""
	open := false
	var pre *ShieldSnapshot

	for _, e := range events {
		if e.Type == battle.EventTurnStart {
			buffer = []battle.Event{e}
			actor = e.Actor
			open = true
			pre = shieldFromEvent(e)
			continue
		}
		if !open {
			continue
		}
		buffer = append(buffer, e)
		if e.Type == battle.EventTurnEnd && e.Actor == actor {
			rows = append(rows, TurnRow{
				Actor:      actor,
				PreShield:  pre,
				PostShield: shieldFromEvent(e),
				Events:     buffer,
			})
			buffer = nil
			actor = ""
			open = false
			pre = nil
		}
	}
	return rows
}

// GroupRowsIntoBossFrames closes a frame each time the boss actor completes
// a row. Trailing rows after the final boss turn form no frame.
func GroupRowsIntoBossFrames(rows []TurnRow, bossActor string) []BossTurnFrame {
	var frames []BossTurnFrame
	var current []TurnRow

	for _, row := range rows {
		current = append(current, row)
		if row.Actor == bossActor {
			frames = append(frames, BossTurnFrame{
				BossTurnIndex: len(frames) + 1,
				Rows:          current,
			})
			current = nil
		}
	}
	return frames
}

// SkillToken returns the skill id consumed within the row, if any.
func (r TurnRow) SkillToken() string {
	for _, e := range r.Events {
		if e.Type == battle.EventSkillConsumed {
			if id := asString(e.Data["skill_id"]); id != "" {
				return id
			}
		}
	}
	return ""
}
