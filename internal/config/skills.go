package config

// SkillsConfig is the skill/mastery catalog. Skill behavior is data-driven:
// the kernel interprets these records, it does not special-case actor names.
type SkillsConfig struct {
	Actors    []ActorSkillsDef `yaml:"actors"`
	Masteries []MasteryDef     `yaml:"masteries"`
}

type ActorSkillsDef struct {
	Name string `yaml:"name"`
	// Forms maps form -> skill key -> definition for form-capable actors.
	Forms map[string]map[string]SkillDef `yaml:"forms"`
	// Skills is the formless variant; mutually exclusive with Forms.
	Skills map[string]SkillDef `yaml:"skills"`
}

type SkillDef struct {
	// Hits dealt to the boss shield when the skill resolves.
	Hits int `yaml:"hits"`
	// ExtraTurn grants the actor an immediate additional turn.
	ExtraTurn bool `yaml:"extra_turn"`
	// SwapForm switches the actor to the named form for the rest of the
	// turn and any granted extra turn.
	SwapForm string `yaml:"swap_form"`
	// CooldownTurns set on use; decremented at the actor's TURN_START.
	CooldownTurns int `yaml:"cooldown_turns"`
	// Applies places effect instances when the skill resolves.
	Applies []AppliedEffectDef `yaml:"applies"`
	// ExtendAllyBuffs adds N turns to every BUFF on every ally.
	ExtendAllyBuffs int `yaml:"extend_ally_buffs"`
}

type AppliedEffectDef struct {
	Effect   string `yaml:"effect"`
	Kind     string `yaml:"kind"`
	Duration int    `yaml:"duration"`
	// Target is "self" or "allies" (all non-boss actors, placer included).
	Target       string  `yaml:"target"`
	Magnitude    float64 `yaml:"magnitude"`
	TriggerPhase string  `yaml:"trigger_phase"`
}

type MasteryDef struct {
	ID string `yaml:"id"`
	// MeterGain is the fraction of the fill gate granted per proc count.
	MeterGain float64 `yaml:"meter_gain"`
}
