package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/daniacca/potions/internal/instructor"
	"github.com/daniacca/potions/internal/logging"
	"github.com/daniacca/potions/internal/potions"
	"github.com/daniacca/potions/internal/report"
)

type strategyOutcome struct {
	Result instructor.Result `json:"result"`
	Report potions.Report    `json:"report"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := loadSimConfig(args)
	if err != nil {
		return err
	}
	logger := logging.NewWithWriter(cfg.LogLevel, stderr)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Infof("simulation starting: seed=%d", seed)

	catCfg, err := resolveCatalogueConfig(cfg, seed, logger)
	if err != nil {
		return err
	}
	catalogue, err := potions.NewCatalogueFromConfig(catCfg, potions.NewRand(seed))
	if err != nil {
		return fmt.Errorf("building catalogue: %w", err)
	}
	catalogue.SetLogger(logger)

	base := potions.NewAlchemist(catalogue, potions.NewRand(seed+1))
	base.SetID("base")
	base.SetLogger(logger)
	for i := 0; i < cfg.Ingredients; i++ {
		if _, err := base.DiscoverNewIngredient(); err != nil {
			return err
		}
	}
	if err := base.Forage(cfg.Forage); err != nil {
		return err
	}
	logger.Infof("alchemist prepared: ingredients=%d stock=%d", cfg.Ingredients, base.TotalIngredientsRemaining())

	var outcomes []strategyOutcome
	for i, name := range cfg.StrategyNames() {
		strategy, err := instructor.Lookup(name, potions.NewRand(seed+2+int64(i)))
		if err != nil {
			return err
		}
		// Every strategy starts from the same stock and knowledge
		a := base.Clone()
		a.SetID(potions.AlchemistID(strategy.Name()))
		res, err := strategy.Instruct(a)
		if err != nil {
			return fmt.Errorf("running %s: %w", strategy.Name(), err)
		}
		logger.Debugf("strategy finished: name=%s combinations=%d passes=%d", res.Strategy, res.Combinations, res.Passes)
		outcomes = append(outcomes, strategyOutcome{Result: res, Report: a.Report()})
	}

	if cfg.JSON {
		enc := json.NewEncoder(stdout)
		for _, o := range outcomes {
			if err := enc.Encode(o); err != nil {
				return fmt.Errorf("encoding outcome: %w", err)
			}
		}
		return nil
	}

	titles := make([]string, len(outcomes))
	reports := make([]potions.Report, len(outcomes))
	for i, o := range outcomes {
		titles[i] = fmt.Sprintf("Approach %c (%s)", 'A'+rune(i), o.Result.Strategy)
		reports[i] = o.Report
	}
	return report.NewPrinter(cfg.Locale).PrintComparison(stdout, titles, reports)
}

// resolveCatalogueConfig picks the effect rarities: generated tiers when
// requested, then the effects file, then the built-in defaults. An unreadable
// file falls back to the defaults with a warning.
func resolveCatalogueConfig(cfg SimConfig, seed int64, logger *logging.Logger) (potions.CatalogueConfig, error) {
	if cfg.RandomEffects > 0 {
		return potions.GenerateCatalogueConfig(cfg.RandomEffects, potions.DefaultRarityTiers, potions.NewRand(seed-1))
	}
	if cfg.EffectsFile != "" {
		catCfg, err := potions.LoadCatalogueFile(cfg.EffectsFile)
		if err == nil {
			return catCfg, nil
		}
		logger.Warnf("couldn't read effects file, using default values: %v", err)
	}
	return potions.DefaultCatalogueConfig(), nil
}
