package battle

import (
	"strings"
	"testing"
)

func newTurnContext(turn int, actor *Actor, actors ...*Actor) TurnContext {
	s := NewStream()
	s.StartTick()
	if len(actors) == 0 {
		actors = []*Actor{actor}
	}
	return TurnContext{
		Turn:   turn,
		Actor:  actor,
		Actors: actors,
		Stream: s,
		Gate:   DefaultFillGate,
	}
}

func eventsOfType(s *Stream, t EventType) []Event {
	var out []Event
	for _, e := range s.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func TestDOTTriggersAtBeginTurn(t *testing.T) {
	mikage := NewActor("Mikage", 100)
	mikage.MaxHP = 100
	mikage.HP = 100
	mikage.AddEffect(&EffectInstance{
		InstanceID:   "fx-poison",
		EffectID:     EffectPoison,
		Kind:         KindDOT,
		PlacedBy:     "Boss",
		Duration:     2,
		TriggerPhase: PhaseBeginTurn,
		Magnitude:    10,
	})

	ctx := newTurnContext(1, mikage)
	expired, err := DurationResolver{}.Resolve(PhaseBeginTurn, ctx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(expired) != 0 {
		t.Fatalf("expected no expirations on first trigger, got %d", len(expired))
	}
	if mikage.HP != 90 {
		t.Fatalf("HP after first trigger = %v, want 90", mikage.HP)
	}
	if got := mikage.FindEffect("fx-poison").Duration; got != 1 {
		t.Fatalf("duration after first trigger = %d, want 1", got)
	}
	if len(eventsOfType(ctx.Stream, EventEffectTriggered)) != 1 {
		t.Fatalf("expected one EFFECT_TRIGGERED event")
	}

	ctx.Turn = 2
	expired, err = DurationResolver{}.Resolve(PhaseBeginTurn, ctx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(expired) != 1 {
		t.Fatalf("expected one expiration on second trigger, got %d", len(expired))
	}
	if mikage.HP != 80 {
		t.Fatalf("HP after second trigger = %v, want 80", mikage.HP)
	}
	if mikage.FindEffect("fx-poison") != nil {
		t.Fatalf("expected poison to be detached after expiry")
	}

	exp := eventsOfType(ctx.Stream, EventEffectExpired)
	if len(exp) != 1 {
		t.Fatalf("expected one EFFECT_EXPIRED event, got %d", len(exp))
	}
	if exp[0].Data["reason"] != "duration" {
		t.Fatalf("reason = %v, want duration", exp[0].Data["reason"])
	}
	if exp[0].Data["phase"] != string(PhaseBeginTurn) {
		t.Fatalf("phase = %v, want %s", exp[0].Data["phase"], PhaseBeginTurn)
	}
}

func TestDOTDamageClampsAtZero(t *testing.T) {
	mikage := NewActor("Mikage", 100)
	mikage.MaxHP = 100
	mikage.HP = 5
	mikage.AddEffect(&EffectInstance{
		InstanceID:   "fx-poison",
		EffectID:     EffectPoison,
		Kind:         KindDOT,
		PlacedBy:     "Boss",
		Duration:     3,
		TriggerPhase: PhaseBeginTurn,
		Magnitude:    10,
	})

	if _, err := (DurationResolver{}).Resolve(PhaseBeginTurn, newTurnContext(1, mikage)); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if mikage.HP != 0 {
		t.Fatalf("HP = %v, want clamp at 0", mikage.HP)
	}
}

func TestEndPhaseDecrementAndExpiry(t *testing.T) {
	mikage := NewActor("Mikage", 100)
	mikage.AddEffect(&EffectInstance{
		InstanceID:   "fx-buff",
		EffectID:     "increase_atk",
		Kind:         KindBuff,
		PlacedBy:     "Mikage",
		Duration:     1,
		TriggerPhase: PhaseEndTurn,
	})

	ctx := newTurnContext(2, mikage)
	expired, err := DurationResolver{}.Resolve(PhaseEndTurn, ctx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(expired) != 1 || expired[0].Effect.InstanceID != "fx-buff" {
		t.Fatalf("expected fx-buff to expire, got %v", expired)
	}
	if len(mikage.Effects) != 0 {
		t.Fatalf("expected no attached effects, got %d", len(mikage.Effects))
	}
}

func TestNoDecrementOnPlacementTurn(t *testing.T) {
	mikage := NewActor("Mikage", 100)
	mikage.AddEffect(&EffectInstance{
		InstanceID:   "fx-buff",
		EffectID:     "increase_atk",
		Kind:         KindBuff,
		PlacedBy:     "Mikage",
		Duration:     1,
		TriggerPhase: PhaseEndTurn,
		AppliedTurn:  3,
	})

	ctx := newTurnContext(3, mikage)
	expired, err := DurationResolver{}.Resolve(PhaseEndTurn, ctx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(expired) != 0 {
		t.Fatalf("expected no expirations on the placement turn, got %d", len(expired))
	}
	if got := mikage.FindEffect("fx-buff").Duration; got != 1 {
		t.Fatalf("duration = %d, want 1 (untouched on placement turn)", got)
	}

	ctx.Turn = 4
	expired, err = DurationResolver{}.Resolve(PhaseEndTurn, ctx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(expired) != 1 {
		t.Fatalf("expected expiry on the following turn, got %d expirations", len(expired))
	}
}

func TestResolverIgnoresOtherPhase(t *testing.T) {
	mikage := NewActor("Mikage", 100)
	mikage.AddEffect(&EffectInstance{
		InstanceID:   "fx-buff",
		EffectID:     "increase_atk",
		Kind:         KindBuff,
		PlacedBy:     "Mikage",
		Duration:     1,
		TriggerPhase: PhaseEndTurn,
	})

	expired, err := DurationResolver{}.Resolve(PhaseBeginTurn, newTurnContext(1, mikage))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(expired) != 0 {
		t.Fatalf("begin-phase pass touched an end-phase instance")
	}
	if got := mikage.FindEffect("fx-buff").Duration; got != 1 {
		t.Fatalf("duration = %d, want 1", got)
	}
}

func TestInjectedResolverExpiresScriptedInstanceFirst(t *testing.T) {
	mikage := NewActor("Mikage", 100)
	mikage.AddEffect(&EffectInstance{
		InstanceID:   "fx-scripted",
		EffectID:     "increase_atk",
		Kind:         KindBuff,
		PlacedBy:     "Mikage",
		Duration:     5,
		TriggerPhase: PhaseEndTurn,
	})
	mikage.AddEffect(&EffectInstance{
		InstanceID:   "fx-natural",
		EffectID:     "increase_def",
		Kind:         KindBuff,
		PlacedBy:     "Mikage",
		Duration:     1,
		TriggerPhase: PhaseEndTurn,
	})

	r := &InjectedResolver{Scripts: []InjectedExpiration{
		{Turn: 1, Phase: PhaseEndTurn, InstanceID: "fx-scripted"},
	}}
	ctx := newTurnContext(1, mikage)
	expired, err := r.Resolve(PhaseEndTurn, ctx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(expired) != 2 {
		t.Fatalf("expected 2 expirations (scripted + natural), got %d", len(expired))
	}
	if expired[0].Effect.InstanceID != "fx-scripted" || expired[1].Effect.InstanceID != "fx-natural" {
		t.Fatalf("expiration order = [%s, %s], want scripted first",
			expired[0].Effect.InstanceID, expired[1].Effect.InstanceID)
	}

	exp := eventsOfType(ctx.Stream, EventEffectExpired)
	if len(exp) != 2 {
		t.Fatalf("expected 2 EFFECT_EXPIRED events, got %d", len(exp))
	}
	if exp[0].Data["reason"] != "injected" || exp[1].Data["reason"] != "duration" {
		t.Fatalf("reasons = [%v, %v], want [injected, duration]", exp[0].Data["reason"], exp[1].Data["reason"])
	}
	if len(mikage.Effects) != 0 {
		t.Fatalf("expected all effects detached, %d remain", len(mikage.Effects))
	}
}

func TestInjectedResolverIgnoresOtherTurns(t *testing.T) {
	mikage := NewActor("Mikage", 100)
	mikage.AddEffect(&EffectInstance{
		InstanceID:   "fx-scripted",
		EffectID:     "increase_atk",
		Kind:         KindBuff,
		PlacedBy:     "Mikage",
		Duration:     5,
		TriggerPhase: PhaseEndTurn,
	})

	r := &InjectedResolver{Scripts: []InjectedExpiration{
		{Turn: 9, Phase: PhaseEndTurn, InstanceID: "fx-scripted"},
	}}
	expired, err := r.Resolve(PhaseEndTurn, newTurnContext(1, mikage))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(expired) != 0 {
		t.Fatalf("script for turn 9 fired on turn 1")
	}
	if got := mikage.FindEffect("fx-scripted").Duration; got != 4 {
		t.Fatalf("duration = %d, want 4 (inner resolver still runs)", got)
	}
}

func TestInjectedResolverRejectsUnknownInstance(t *testing.T) {
	mikage := NewActor("Mikage", 100)
	r := &InjectedResolver{Scripts: []InjectedExpiration{
		{Turn: 1, Phase: PhaseEndTurn, InstanceID: "fx-nonexistent"},
	}}

	_, err := r.Resolve(PhaseEndTurn, newTurnContext(1, mikage))
	if err == nil {
		t.Fatalf("expected an error for a script naming an unattached instance")
	}
	if !strings.Contains(err.Error(), "fx-nonexistent") {
		t.Fatalf("error %q does not name the missing instance", err)
	}
}
