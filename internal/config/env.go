package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds CLI defaults that can be set through the environment.
// Flags override these values.
type EnvConfig struct {
	BattlePath string `env:"BATTLESIM_BATTLE"`
	SkillsPath string `env:"BATTLESIM_SKILLS"`
	Ticks      int    `env:"BATTLESIM_TICKS" envDefault:"50"`
	BossActor  string `env:"BATTLESIM_BOSS_ACTOR"`
	Debug      bool   `env:"BATTLESIM_DEBUG"`
}

// FromEnv loads configuration from environment variables.
func FromEnv() (EnvConfig, error) {
	var c EnvConfig
	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}
