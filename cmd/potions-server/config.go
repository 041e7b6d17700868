package main

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/daniacca/potions/internal/logging"
	"github.com/daniacca/potions/internal/potions"
)

// ServerConfig holds the server configuration
type ServerConfig struct {
	Addr             string  `env:"POTIONS_ADDR" envDefault:":8080"`
	EffectsFile      string  `env:"POTIONS_EFFECTS_FILE"`
	Seed             int64   `env:"POTIONS_SEED" envDefault:"0"`
	WebhookURL       string  `env:"POTIONS_WEBHOOK_URL"`
	WebhookMinValue  float64 `env:"POTIONS_WEBHOOK_MIN_VALUE" envDefault:"0"`
	LogLevel         string  `env:"POTIONS_LOG_LEVEL" envDefault:"info"`
	DefaultAlchemist string  `env:"POTIONS_DEFAULT_ALCHEMIST"`
}

// loadServerConfig resolves configuration from defaults, environment
// variables and then flags; later sources win.
func loadServerConfig(args []string) (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("potions-server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address (e.g. :8080, 0.0.0.0:8080)")
	fs.StringVar(&cfg.EffectsFile, "effects-file", cfg.EffectsFile, "optional path to a file of effect rarities to load at startup")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed; 0 picks a time based seed")
	fs.StringVar(&cfg.WebhookURL, "webhook-url", cfg.WebhookURL, "optional URL that receives every discovery event")
	fs.Float64Var(&cfg.WebhookMinValue, "webhook-min-value", cfg.WebhookMinValue, "only post discoveries whose potion is worth at least this much")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.DefaultAlchemist, "alchemist", cfg.DefaultAlchemist, "optional alchemist to create at startup")
	if err := fs.Parse(args); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// loadCatalogue builds the shared catalogue, falling back to the default
// rarities when no file is configured or it cannot be read.
func loadCatalogue(cfg ServerConfig, logger *logging.Logger) (*potions.Catalogue, error) {
	catCfg := potions.DefaultCatalogueConfig()
	if cfg.EffectsFile != "" {
		loaded, err := potions.LoadCatalogueFile(cfg.EffectsFile)
		if err != nil {
			logger.Warnf("Failed to load effects file, using default values: path=%s error=%v", cfg.EffectsFile, err)
		} else {
			catCfg = loaded
		}
	}

	catalogue, err := potions.NewCatalogueFromConfig(catCfg, potions.NewRand(cfg.Seed))
	if err != nil {
		return nil, err
	}
	catalogue.SetLogger(logger)
	logger.Infof("Catalogue loaded: name=%s effects=%d", catCfg.Name, catalogue.Count())
	return catalogue, nil
}
