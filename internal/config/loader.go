package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadBattle reads a battle roster file.
func LoadBattle(path string) (*BattleConfig, error) {
	var bc BattleConfig
	if err := loadYAML(path, &bc); err != nil {
		return nil, err
	}
	if bc.Boss.Name == "" {
		return nil, fmt.Errorf("%s: boss.name is required", path)
	}
	return &bc, nil
}

// LoadSkills reads a skill/mastery catalog file.
func LoadSkills(path string) (*SkillsConfig, error) {
	var sc SkillsConfig
	if err := loadYAML(path, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// LoadAll reads the standard catalog layout under dir: battle.yaml and
// skills.yaml.
func LoadAll(dir string) (*BattleConfig, *SkillsConfig, error) {
	bc, err := LoadBattle(filepath.Join(dir, "battle.yaml"))
	if err != nil {
		return nil, nil, err
	}
	sc, err := LoadSkills(filepath.Join(dir, "skills.yaml"))
	if err != nil {
		return nil, nil, err
	}
	return bc, sc, nil
}
