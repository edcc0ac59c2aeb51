package battle

import (
	"errors"
	"fmt"

	"battlesim/internal/config"
)

// SequencePolicy controls scripted skill consumption.
type SequencePolicy string

const (
	// SequenceNone: no scripted skills are consumed.
	SequenceNone SequencePolicy = ""
	// SequenceErrorIfExhausted consumes one token per turn and fails fast
	// when an actor's script runs out.
	SequenceErrorIfExhausted SequencePolicy = "error_if_exhausted"
)

// CooldownPolicy decides whether cooldowns persist across a form swap.
type CooldownPolicy string

const (
	// CooldownShared keeps one cooldown lineage per skill key.
	CooldownShared CooldownPolicy = "shared"
	// CooldownPerForm tracks each form's skills separately.
	CooldownPerForm CooldownPolicy = "per_form"
)

var ErrSequenceExhausted = errors.New("skill sequence exhausted")

// SkillBook resolves scripted skill tokens against the catalog and applies
// their side effects: shield hits, effect placement, duration extension,
// form swaps, extra-turn grants, cooldowns.
type SkillBook struct {
	actors    map[string]config.ActorSkillsDef
	masteries []Mastery
}

func NewSkillBook(cfg *config.SkillsConfig) *SkillBook {
	b := &SkillBook{actors: map[string]config.ActorSkillsDef{}}
	if cfg == nil {
		return b
	}
	for _, a := range cfg.Actors {
		b.actors[a.Name] = a
	}
	for _, m := range cfg.Masteries {
		b.masteries = append(b.masteries, Mastery{ID: m.ID, MeterGain: m.MeterGain})
	}
	return b
}

// Masteries returns the catalog's mastery definitions in declaration order.
func (b *SkillBook) Masteries() []Mastery { return b.masteries }

func (b *SkillBook) lookup(a *Actor, key string) (config.SkillDef, bool, error) {
	def, known := b.actors[a.Name]
	if !known {
		// Unknown actors consume tokens without catalog side effects, so
		// generic rosters work without a full catalog.
		return config.SkillDef{}, false, nil
	}
	if len(def.Forms) > 0 {
		skills, ok := def.Forms[a.Form]
		if !ok {
			return config.SkillDef{}, false, fmt.Errorf("actor %q: unknown form %q", a.Name, a.Form)
		}
		sk, ok := skills[key]
		if !ok {
			return config.SkillDef{}, false, fmt.Errorf("actor %q form %q: unknown skill %q", a.Name, a.Form, key)
		}
		return sk, true, nil
	}
	sk, ok := def.Skills[key]
	if !ok {
		return config.SkillDef{}, false, fmt.Errorf("actor %q: unknown skill %q", a.Name, key)
	}
	return sk, true, nil
}

func cooldownKey(policy CooldownPolicy, form, key string) string {
	if policy == CooldownPerForm && form != "" {
		return form + "/" + key
	}
	return key
}

// ResolveAction consumes the acting actor's next scripted skill, applies its
// side effects, and returns the shield hits it deals plus whether a token was
// consumed at all. A consumed token advances the actor's skill-sequence step
// before anything else resolves.
func (b *SkillBook) ResolveAction(ctx TurnContext, policy SequencePolicy, cdPolicy CooldownPolicy) (int, bool, error) {
	a := ctx.Actor
	if policy != SequenceErrorIfExhausted || len(a.SkillSequence) == 0 {
		return 0, false, nil
	}
	if a.SkillStep >= len(a.SkillSequence) {
		return 0, false, fmt.Errorf("%w: actor %q (len=%d)", ErrSequenceExhausted, a.Name, len(a.SkillSequence))
	}
	key := a.SkillSequence[a.SkillStep]
	a.SkillStep++
	ctx.Stream.Emit(EventSkillConsumed, a.Name, map[string]any{
		"skill_id": key,
		"step":     a.SkillStep,
	})

	def, known, err := b.lookup(a, key)
	if err != nil {
		return 0, true, err
	}
	if !known {
		return 0, true, nil
	}

	if a.CooldownPolicy != "" {
		cdPolicy = a.CooldownPolicy
	}
	ck := cooldownKey(cdPolicy, a.Form, key)
	if a.Cooldowns[ck] > 0 {
		return 0, true, fmt.Errorf("actor %q used skill %q with %d cooldown turns remaining", a.Name, key, a.Cooldowns[ck])
	}
	cd := def.CooldownTurns
	if def.SwapForm != "" && a.MetamorphCooldown > 0 {
		cd = a.MetamorphCooldown
	}
	if cd > 0 {
		a.Cooldowns[ck] = cd
	}

	for _, ap := range def.Applies {
		if err := b.place(ctx, key, ap); err != nil {
			return 0, true, err
		}
	}

	if def.ExtendAllyBuffs > 0 {
		extendAllyBuffs(ctx, key, def.ExtendAllyBuffs)
	}

	if def.SwapForm != "" {
		from := a.Form
		a.Form = def.SwapForm
		ctx.Stream.Emit(EventFormChanged, a.Name, map[string]any{
			"from":            from,
			"to":              a.Form,
			"source_skill_id": key,
		})
	}

	if def.ExtraTurn {
		a.ExtraTurns++
	}

	return def.Hits, true, nil
}

func (b *SkillBook) place(ctx TurnContext, skillID string, ap config.AppliedEffectDef) error {
	a := ctx.Actor
	if ap.Effect == "" || ap.Duration <= 0 {
		return nil
	}

	kind := EffectKind(ap.Kind)
	if ap.Kind == "" {
		kind = KindBuff
	}
	phase := Phase(ap.TriggerPhase)
	if ap.TriggerPhase == "" {
		if kind == KindDOT {
			phase = PhaseBeginTurn
		} else {
			phase = PhaseEndTurn
		}
	}
	switch phase {
	case PhaseBeginTurn, PhaseEndTurn:
	default:
		return fmt.Errorf("skill %q: unknown trigger phase %q", skillID, ap.TriggerPhase)
	}

	var targets []*Actor
	switch ap.Target {
	case "self":
		targets = []*Actor{a}
	case "", "allies":
		for _, t := range ctx.Actors {
			if !t.IsBoss {
				targets = append(targets, t)
			}
		}
	default:
		return fmt.Errorf("skill %q: unknown target %q", skillID, ap.Target)
	}

	for _, target := range targets {
		inst := &EffectInstance{
			InstanceID:   EffectInstanceID(a.Name, skillID, a.SkillStep, target.Name, ap.Effect),
			EffectID:     ap.Effect,
			Kind:         kind,
			PlacedBy:     a.Name,
			Duration:     ap.Duration,
			TriggerPhase: phase,
			Magnitude:    ap.Magnitude,
			AppliedTurn:  ctx.Turn,
		}
		target.AddEffect(inst)

		ctx.Stream.Emit(EventEffectApplied, a.Name, map[string]any{
			"instance_id":     inst.InstanceID,
			"effect_id":       inst.EffectID,
			"effect_kind":     string(inst.Kind),
			"owner":           target.Name,
			"placed_by":       inst.PlacedBy,
			"duration":        inst.Duration,
			"trigger_phase":   string(inst.TriggerPhase),
			"source_skill_id": skillID,
			"source_step":     a.SkillStep,
		})
		ctx.Stream.Emit(EventEffectDurationSet, a.Name, map[string]any{
			"instance_id": inst.InstanceID,
			"effect_id":   inst.EffectID,
			"owner":       target.Name,
			"duration":    inst.Duration,
			"reason":      "initial_application",
			"boundary":    "placement",
		})
	}
	return nil
}

func extendAllyBuffs(ctx TurnContext, skillID string, delta int) {
	a := ctx.Actor
	for _, target := range ctx.Actors {
		if target.IsBoss {
			continue
		}
		for _, e := range target.Effects {
			if e.Kind != KindBuff {
				continue
			}
			old := e.Duration
			e.Duration += delta
			ctx.Stream.Emit(EventEffectDurationChanged, a.Name, map[string]any{
				"instance_id":     e.InstanceID,
				"effect_id":       e.EffectID,
				"owner":           target.Name,
				"placed_by":       e.PlacedBy,
				"old_duration":    old,
				"new_duration":    e.Duration,
				"delta":           delta,
				"source_skill_id": skillID,
			})
		}
	}
}
