package battle

import "fmt"

// PreconditionError reports malformed actor or effect state. It is fatal:
// the scheduler aborts the run rather than attempt recovery.
type PreconditionError struct {
	Actor      string
	InstanceID string
	Phase      Phase
	Reason     string
}

func (e *PreconditionError) Error() string {
	msg := fmt.Sprintf("precondition violated: %s (actor=%q", e.Reason, e.Actor)
	if e.InstanceID != "" {
		msg += fmt.Sprintf(", instance=%q", e.InstanceID)
	}
	if e.Phase != "" {
		msg += fmt.Sprintf(", phase=%s", e.Phase)
	}
	return msg + ")"
}

// Actor is the per-actor mutable record. Created once at battle setup, never
// destroyed mid-run. The meter and turn state are mutated only by the
// scheduler; effects, cooldowns and form only by skill resolution.
type Actor struct {
	Name    string
	Slot    int // roster position, the stable tie-break order
	Speed   float64
	Faction string

	Form        string
	SpeedByForm map[string]float64

	IsBoss    bool
	Shield    int
	ShieldMax int

	HP    float64
	MaxHP float64

	TurnMeter float64
	// SpeedMultiplier is a direct multiplicative override (1.0 = none),
	// applied on top of effect-derived modifiers.
	SpeedMultiplier float64
	ExtraTurns      int

	Effects []*EffectInstance

	SkillSequence []string
	// SkillStep counts skills consumed by this actor, 1-based after the
	// first consumption. It is the user-facing coordinate for scheduling
	// deterministic requests; never conflate it with tick/seq.
	SkillStep int

	Cooldowns map[string]int
	// MetamorphCooldown overrides the catalog cooldown for form-swap
	// skills, per the roster contract.
	MetamorphCooldown int
	// CooldownPolicy overrides the scheduler default for this actor.
	CooldownPolicy CooldownPolicy
}

func NewActor(name string, speed float64) *Actor {
	return &Actor{
		Name:            name,
		Speed:           speed,
		SpeedMultiplier: 1.0,
		Cooldowns:       map[string]int{},
	}
}

// baseSpeed resolves the speed of the current form.
func (a *Actor) baseSpeed() float64 {
	if a.Form != "" && a.SpeedByForm != nil {
		if s, ok := a.SpeedByForm[a.Form]; ok {
			return s
		}
	}
	return a.Speed
}

// EffectiveSpeed recomputes the fill rate from current state. It is never
// cached: speed changes take hold on the next fill cycle, not retroactively.
func (a *Actor) EffectiveSpeed() float64 {
	return a.baseSpeed() * a.SpeedMultiplier * speedMultiplier(a.Effects)
}

// AddEffect attaches an instance, preserving attachment order.
func (a *Actor) AddEffect(e *EffectInstance) {
	a.Effects = append(a.Effects, e)
}

// RemoveEffect detaches an instance by id, preserving the order of the rest.
// Returns nil if no such instance is attached.
func (a *Actor) RemoveEffect(instanceID string) *EffectInstance {
	for i, e := range a.Effects {
		if e.InstanceID == instanceID {
			a.Effects = append(a.Effects[:i], a.Effects[i+1:]...)
			return e
		}
	}
	return nil
}

// FindEffect returns the attached instance with the given id, or nil.
func (a *Actor) FindEffect(instanceID string) *EffectInstance {
	for _, e := range a.Effects {
		if e.InstanceID == instanceID {
			return e
		}
	}
	return nil
}

// Validate checks the actor's own invariants. Cross-actor uniqueness is
// checked by the scheduler.
func (a *Actor) Validate() error {
	if a.Name == "" {
		return &PreconditionError{Actor: a.Name, Reason: "empty actor name"}
	}
	if a.TurnMeter < 0 {
		return &PreconditionError{Actor: a.Name, Reason: fmt.Sprintf("negative turn meter %v", a.TurnMeter)}
	}
	seen := map[string]bool{}
	for _, e := range a.Effects {
		if e.InstanceID == "" {
			return &PreconditionError{Actor: a.Name, Reason: "effect with empty instance id"}
		}
		if seen[e.InstanceID] {
			return &PreconditionError{Actor: a.Name, InstanceID: e.InstanceID, Reason: "duplicate effect instance id"}
		}
		seen[e.InstanceID] = true
		if e.Duration < 0 {
			return &PreconditionError{Actor: a.Name, InstanceID: e.InstanceID, Reason: fmt.Sprintf("negative duration %d", e.Duration)}
		}
		switch e.TriggerPhase {
		case PhaseBeginTurn, PhaseEndTurn:
		default:
			return &PreconditionError{Actor: a.Name, InstanceID: e.InstanceID, Reason: fmt.Sprintf("unknown trigger phase %q", e.TriggerPhase)}
		}
	}
	return nil
}

// validateActors runs per-actor checks plus the cross-actor invariant that
// an instance id exists on exactly one owner.
func validateActors(actors []*Actor) error {
	owners := map[string]string{}
	for _, a := range actors {
		if err := a.Validate(); err != nil {
			return err
		}
		for _, e := range a.Effects {
			if prev, ok := owners[e.InstanceID]; ok {
				return &PreconditionError{
					Actor:      a.Name,
					InstanceID: e.InstanceID,
					Reason:     fmt.Sprintf("instance also attached to %q", prev),
				}
			}
			owners[e.InstanceID] = a.Name
		}
	}
	return nil
}
