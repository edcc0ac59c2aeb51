package battle

import "fmt"

// TurnContext carries the coordinates of the turn being resolved.
type TurnContext struct {
	Turn   int // 1-based turn counter, increments once per TURN_START
	Extra  bool
	Actor  *Actor
	Actors []*Actor
	Stream *Stream
	Gate   float64
}

// Expiration records one effect instance removed during a resolution window,
// with the owner it was detached from.
type Expiration struct {
	Owner  *Actor
	Effect *EffectInstance
}

// ExpirationResolver decides which existing effect instances trigger or
// expire at a phase boundary. It is invoked exactly once per phase per turn.
//
// Implementations may only act on existing instances: a resolver selects
// among real state, it never fabricates expirations. The production resolver
// and any test substitute share identical phase semantics.
type ExpirationResolver interface {
	Resolve(phase Phase, ctx TurnContext) ([]Expiration, error)
}

// DurationResolver is the production resolver: instances whose trigger phase
// matches fire their triggered behavior (DOT damage), decrement, and expire
// at zero. Removal is atomic with the EFFECT_EXPIRED event.
type DurationResolver struct{}

func (DurationResolver) Resolve(phase Phase, ctx TurnContext) ([]Expiration, error) {
	acting := ctx.Actor
	var expired []Expiration

	// Iterate a snapshot so removal does not disturb attachment order.
	attached := make([]*EffectInstance, len(acting.Effects))
	copy(attached, acting.Effects)

	for _, e := range attached {
		if e.TriggerPhase != phase {
			continue
		}
		if e.Kind == KindDOT && e.Magnitude > 0 && acting.MaxHP > 0 {
			acting.HP -= e.Magnitude
			if acting.HP < 0 {
				acting.HP = 0
			}
			ctx.Stream.Emit(EventEffectTriggered, acting.Name, map[string]any{
				"instance_id": e.InstanceID,
				"effect_id":   e.EffectID,
				"amount":      e.Magnitude,
				"phase":       string(phase),
			})
		}
		// An instance placed this turn persists through its placement
		// turn; the first decrement is the next matching boundary.
		if e.AppliedTurn == ctx.Turn {
			continue
		}
		e.Duration--
		if e.Duration > 0 {
			continue
		}
		acting.RemoveEffect(e.InstanceID)
		emitExpired(ctx.Stream, acting, e, phase, "duration")
		expired = append(expired, Expiration{Owner: acting, Effect: e})
	}
	return expired, nil
}

// InjectedResolver is the deterministic test seam: it wraps an inner resolver
// and additionally expires scripted instances at a scripted (turn, phase).
// Scripts select among real attached instances; a script naming an unknown
// instance id is an error, not a fabricated event.
type InjectedResolver struct {
	Inner   ExpirationResolver
	Scripts []InjectedExpiration
}

// InjectedExpiration forces the instance with InstanceID to expire at the
// given turn and phase, regardless of its remaining duration.
type InjectedExpiration struct {
	Turn       int
	Phase      Phase
	InstanceID string
}

func (r *InjectedResolver) Resolve(phase Phase, ctx TurnContext) ([]Expiration, error) {
	var expired []Expiration
	for _, s := range r.Scripts {
		if s.Turn != ctx.Turn || s.Phase != phase {
			continue
		}
		owner, e := findInstance(ctx.Actors, s.InstanceID)
		if e == nil {
			return nil, fmt.Errorf("injected expiration: no attached instance %q (turn=%d, phase=%s)", s.InstanceID, ctx.Turn, phase)
		}
		owner.RemoveEffect(e.InstanceID)
		emitExpired(ctx.Stream, owner, e, phase, "injected")
		expired = append(expired, Expiration{Owner: owner, Effect: e})
	}

	inner := r.Inner
	if inner == nil {
		inner = DurationResolver{}
	}
	rest, err := inner.Resolve(phase, ctx)
	if err != nil {
		return nil, err
	}
	return append(expired, rest...), nil
}

func findInstance(actors []*Actor, instanceID string) (*Actor, *EffectInstance) {
	for _, a := range actors {
		if e := a.FindEffect(instanceID); e != nil {
			return a, e
		}
	}
	return nil, nil
}

func emitExpired(s *Stream, owner *Actor, e *EffectInstance, phase Phase, reason string) {
	s.Emit(EventEffectExpired, owner.Name, map[string]any{
		"instance_id": e.InstanceID,
		"effect_id":   e.EffectID,
		"effect_kind": string(e.Kind),
		"owner":       owner.Name,
		"placed_by":   e.PlacedBy,
		"phase":       string(phase),
		"reason":      reason,
	})
}
