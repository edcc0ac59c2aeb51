package config

// BattleConfig is the input roster contract: one boss, a team of champions,
// and run options. Produced by yaml files, consumed by the kernel's roster
// builder.
type BattleConfig struct {
	Boss      ActorDef   `yaml:"boss"`
	Champions []ActorDef `yaml:"champions"`
	Options   OptionsDef `yaml:"options"`
}

type ActorDef struct {
	Name    string  `yaml:"name"`
	Speed   float64 `yaml:"speed"`
	MaxHP   float64 `yaml:"max_hp"`
	Faction string  `yaml:"faction"`

	// Form-capable actors only.
	FormStart   string             `yaml:"form_start"`
	SpeedByForm map[string]float64 `yaml:"speed_by_form"`
	Metamorph   *MetamorphDef      `yaml:"metamorph"`

	// Boss only.
	ShieldMax int `yaml:"shield_max"`

	SkillSequence []string         `yaml:"skill_sequence"`
	ProcRequests  []ProcRequestDef `yaml:"proc_requests"`
}

type MetamorphDef struct {
	CooldownTurns int `yaml:"cooldown_turns"`
	// CooldownPolicy decides whether cooldowns persist across a form swap:
	// "shared" (default) keeps one lineage per skill, "per_form" tracks
	// each form separately.
	CooldownPolicy string `yaml:"cooldown_policy"`
}

// ProcRequestDef keys a deterministic proc expectation by the owning actor's
// own skill-sequence step.
type ProcRequestDef struct {
	Step    int    `yaml:"step"`
	Mastery string `yaml:"mastery"`
	Count   int    `yaml:"count"`
}

type OptionsDef struct {
	SequencePolicy     string `yaml:"sequence_policy"`
	MaxTicks           int    `yaml:"max_ticks"`
	StopAfterBossTurns int    `yaml:"stop_after_boss_turns"`
}
