package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// envOverrides are the settings that may be overridden per shell
type envOverrides struct {
	Players        []string `env:"SPINQUIZ_PLAYERS"          envSeparator:","`
	Seed           *int64   `env:"SPINQUIZ_SEED"`
	SpinDelayMs    *int     `env:"SPINQUIZ_SPIN_DELAY_MS"`
	CataloguePath  *string  `env:"SPINQUIZ_CATALOGUE"`
	CatalogueWatch *bool    `env:"SPINQUIZ_CATALOGUE_WATCH"`
	StorageDriver  *string  `env:"SPINQUIZ_STORAGE_DRIVER"`
	StoragePath    *string  `env:"SPINQUIZ_STORAGE_PATH"`
	LogLevel       *string  `env:"SPINQUIZ_LOG_LEVEL"`
	LogFile        *string  `env:"SPINQUIZ_LOG_FILE"`
}

// ApplyEnv overlays SPINQUIZ_* environment variables onto cfg
func ApplyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if len(o.Players) > 0 {
		players := make([]string, 0, len(o.Players))
		for _, p := range o.Players {
			if p = strings.TrimSpace(p); p != "" {
				players = append(players, p)
			}
		}
		cfg.Game.Players = players
	}
	if o.Seed != nil {
		cfg.Game.Seed = *o.Seed
	}
	if o.SpinDelayMs != nil && *o.SpinDelayMs > 0 {
		cfg.Game.SpinDelayMs = *o.SpinDelayMs
	}
	if o.CataloguePath != nil {
		cfg.Catalogue.Path = expandHome(*o.CataloguePath)
	}
	if o.CatalogueWatch != nil {
		cfg.Catalogue.Watch = *o.CatalogueWatch
	}
	if o.StorageDriver != nil {
		cfg.Storage.Driver = *o.StorageDriver
	}
	if o.StoragePath != nil {
		cfg.Storage.Path = expandHome(*o.StoragePath)
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
	if o.LogFile != nil {
		cfg.Logging.File = expandHome(*o.LogFile)
	}
	return nil
}
