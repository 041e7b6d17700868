package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// SimConfig holds the simulation configuration
type SimConfig struct {
	EffectsFile   string `env:"POTIONS_EFFECTS_FILE"`
	RandomEffects int    `env:"POTIONS_RANDOM_EFFECTS" envDefault:"0"`
	Seed          int64  `env:"POTIONS_SEED" envDefault:"0"`
	Ingredients   int    `env:"POTIONS_INGREDIENTS" envDefault:"60"`
	Forage        int    `env:"POTIONS_FORAGE" envDefault:"1000"`
	Strategies    string `env:"POTIONS_STRATEGIES" envDefault:"random,matching-then-random"`
	JSON          bool   `env:"POTIONS_JSON" envDefault:"false"`
	Locale        string `env:"POTIONS_LOCALE" envDefault:"en"`
	LogLevel      string `env:"POTIONS_LOG_LEVEL" envDefault:"info"`
}

// StrategyNames splits the comma separated strategy list
func (c SimConfig) StrategyNames() []string {
	var out []string
	for _, s := range strings.Split(c.Strategies, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// loadSimConfig resolves configuration from defaults, then environment
// variables, then flags in args. Later sources win.
func loadSimConfig(args []string) (SimConfig, error) {
	var cfg SimConfig
	if err := env.Parse(&cfg); err != nil {
		return SimConfig{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("potions-sim", flag.ContinueOnError)
	fs.StringVar(&cfg.EffectsFile, "effects-file", cfg.EffectsFile, "path to a file of effect rarities (JSON or whitespace separated numbers)")
	fs.IntVar(&cfg.RandomEffects, "random-effects", cfg.RandomEffects, "generate this many effects from rarity tiers instead of reading a file")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed; 0 picks a time based seed")
	fs.IntVar(&cfg.Ingredients, "ingredients", cfg.Ingredients, "number of ingredients to discover")
	fs.IntVar(&cfg.Forage, "forage", cfg.Forage, "number of ingredients to forage")
	fs.StringVar(&cfg.Strategies, "strategies", cfg.Strategies, "comma separated strategies to compare")
	fs.BoolVar(&cfg.JSON, "json", cfg.JSON, "print reports as JSON lines")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale used to format numbers")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return SimConfig{}, err
	}

	if cfg.Ingredients < 0 || cfg.Forage < 0 || cfg.RandomEffects < 0 {
		return SimConfig{}, fmt.Errorf("ingredients, forage and random-effects must be non-negative")
	}
	if len(cfg.StrategyNames()) == 0 {
		return SimConfig{}, fmt.Errorf("at least one strategy is required")
	}
	return cfg, nil
}
