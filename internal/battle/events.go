package battle

// EventType identifies a record in the battle event stream.
type EventType string

const (
	EventTickStart             EventType = "TICK_START"
	EventFillComplete          EventType = "FILL_COMPLETE"
	EventWinnerSelected        EventType = "WINNER_SELECTED"
	EventResetApplied          EventType = "RESET_APPLIED"
	EventTurnStart             EventType = "TURN_START"
	EventTurnEnd               EventType = "TURN_END"
	EventSkillConsumed         EventType = "SKILL_CONSUMED"
	EventFormChanged           EventType = "FORM_CHANGED"
	EventShieldHit             EventType = "SHIELD_HIT"
	EventEffectApplied         EventType = "EFFECT_APPLIED"
	EventEffectDurationSet     EventType = "EFFECT_DURATION_SET"
	EventEffectDurationChanged EventType = "EFFECT_DURATION_CHANGED"
	EventEffectTriggered       EventType = "EFFECT_TRIGGERED"
	EventEffectExpired         EventType = "EFFECT_EXPIRED"
	EventMasteryProc           EventType = "MASTERY_PROC"
	EventMasteryProcRejected   EventType = "MASTERY_PROC_REJECTED"
	EventRunComplete           EventType = "RUN_COMPLETE"
)

// Event is a single orderable fact emitted during a run.
//
// Tick and Seq are owned by the Stream: consumers must treat (tick, seq) as
// the sole ordering key and must not infer cross-tick meaning from seq.
type Event struct {
	Tick  int            `json:"tick"`
	Seq   int            `json:"seq"`
	Type  EventType      `json:"type"`
	Actor string         `json:"actor,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
}

var knownEventTypes = map[EventType]bool{
	EventTickStart:             true,
	EventFillComplete:          true,
	EventWinnerSelected:        true,
	EventResetApplied:          true,
	EventTurnStart:             true,
	EventTurnEnd:               true,
	EventSkillConsumed:         true,
	EventFormChanged:           true,
	EventShieldHit:             true,
	EventEffectApplied:         true,
	EventEffectDurationSet:     true,
	EventEffectDurationChanged: true,
	EventEffectTriggered:       true,
	EventEffectExpired:         true,
	EventMasteryProc:           true,
	EventMasteryProcRejected:   true,
	EventRunComplete:           true,
}

// KnownEventType reports whether t is part of the event vocabulary.
func KnownEventType(t EventType) bool { return knownEventTypes[t] }
