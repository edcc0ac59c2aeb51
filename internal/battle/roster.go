package battle

import (
	"fmt"

	"battlesim/internal/config"
)

// NewRoster builds the actor list from a battle config: champions in roster
// order, boss last. Roster order is the stable tie-break order for turn
// grants. Returns the actors and the roster's deterministic proc requests.
func NewRoster(cfg *config.BattleConfig) ([]*Actor, []ProcRequest, error) {
	actors := make([]*Actor, 0, len(cfg.Champions)+1)
	var requests []ProcRequest
	names := map[string]bool{}

	add := func(def config.ActorDef, slot int, isBoss bool) error {
		if def.Name == "" {
			return fmt.Errorf("roster slot %d: name is required", slot)
		}
		if names[def.Name] {
			return fmt.Errorf("duplicate actor name %q", def.Name)
		}
		names[def.Name] = true
		if def.Speed < 0 {
			return fmt.Errorf("actor %q: negative speed %v", def.Name, def.Speed)
		}

		a := NewActor(def.Name, def.Speed)
		a.Slot = slot
		a.Faction = def.Faction
		a.MaxHP = def.MaxHP
		a.HP = def.MaxHP
		a.Form = def.FormStart
		if len(def.SpeedByForm) > 0 {
			a.SpeedByForm = make(map[string]float64, len(def.SpeedByForm))
			for k, v := range def.SpeedByForm {
				a.SpeedByForm[k] = v
			}
		}
		if def.Metamorph != nil {
			a.MetamorphCooldown = def.Metamorph.CooldownTurns
			switch def.Metamorph.CooldownPolicy {
			case "", string(CooldownShared):
				a.CooldownPolicy = CooldownShared
			case string(CooldownPerForm):
				a.CooldownPolicy = CooldownPerForm
			default:
				return fmt.Errorf("actor %q: unknown cooldown policy %q", def.Name, def.Metamorph.CooldownPolicy)
			}
		}
		if isBoss {
			a.IsBoss = true
			a.ShieldMax = def.ShieldMax
			a.Shield = def.ShieldMax
		}
		a.SkillSequence = append([]string(nil), def.SkillSequence...)

		for _, pr := range def.ProcRequests {
			if pr.Step <= 0 || pr.Mastery == "" {
				return fmt.Errorf("actor %q: proc request needs a positive step and a mastery id", def.Name)
			}
			requests = append(requests, ProcRequest{
				Holder:  def.Name,
				Mastery: pr.Mastery,
				Step:    pr.Step,
				Count:   pr.Count,
			})
		}

		actors = append(actors, a)
		return nil
	}

	for i, def := range cfg.Champions {
		if err := add(def, i, false); err != nil {
			return nil, nil, err
		}
	}
	if err := add(cfg.Boss, len(cfg.Champions), true); err != nil {
		return nil, nil, err
	}
	return actors, requests, nil
}
