package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/riordanpawley/spinquiz/internal/core/spin"
)

// FileName is the per-directory config file
const FileName = ".spinquiz.json"

// Config represents the full spinquiz configuration
type Config struct {
	Scheduler     SchedulerConfig `json:"scheduler"`
	Game          GameConfig      `json:"game"`
	Catalogue     CatalogueConfig `json:"catalogue"`
	Storage       StorageConfig   `json:"storage"`
	Notifications NotifyConfig    `json:"notifications"`
	Logging       LoggingConfig   `json:"logging"`
}

// SchedulerConfig contains the review interval table
type SchedulerConfig struct {
	// IntervalsMinutes is the review interval per box, strictly increasing
	IntervalsMinutes []int `json:"intervalsMinutes"`
}

// GameConfig contains game session settings
type GameConfig struct {
	Players     []string      `json:"players"`
	SpinDelayMs int           `json:"spinDelayMs"`
	Weights     WeightsConfig `json:"weights"`
	Jackpot     JackpotConfig `json:"jackpot"`
	// DoubleOrNothing defaults to enabled when unset
	DoubleOrNothing *bool `json:"doubleOrNothing,omitempty"`
	// Seed fixes the random source; 0 seeds from the clock
	Seed int64 `json:"seed,omitempty"`
}

// WeightsConfig sets task selection weights per scheduling class
type WeightsConfig struct {
	Due       int `json:"due"`
	Fresh     int `json:"fresh"`
	Scheduled int `json:"scheduled"`
}

// JackpotConfig contains jackpot reel payouts
type JackpotConfig struct {
	Pair    int            `json:"pair"`
	Triples map[string]int `json:"triples"`
}

// CatalogueConfig locates the task catalogue
type CatalogueConfig struct {
	// Path to a YAML catalogue; empty uses the built-in one
	Path  string `json:"path"`
	Watch bool   `json:"watch"`
}

// StorageConfig selects where scheduling state is kept
type StorageConfig struct {
	Driver string `json:"driver"`
	Path   string `json:"path"`
}

// NotifyConfig contains toast timeouts
type NotifyConfig struct {
	SuccessTimeoutMs int `json:"successTimeoutMs"`
	ErrorTimeoutMs   int `json:"errorTimeoutMs"`
}

// LoggingConfig contains log output settings
type LoggingConfig struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	enabled := true

	return &Config{
		Scheduler: SchedulerConfig{
			IntervalsMinutes: []int{5, 30, 120, 1440, 4320, 10080},
		},
		Game: GameConfig{
			Players:     []string{},
			SpinDelayMs: 1500,
			Weights: WeightsConfig{
				Due:       spin.DefaultWeights.Due,
				Fresh:     spin.DefaultWeights.Fresh,
				Scheduled: spin.DefaultWeights.Scheduled,
			},
			Jackpot:         defaultJackpot(),
			DoubleOrNothing: &enabled,
		},
		Catalogue: CatalogueConfig{
			Path:  "",
			Watch: true,
		},
		Storage: StorageConfig{
			Driver: "file",
			Path:   filepath.Join(homeDir, ".spinquiz", "state.json"),
		},
		Notifications: NotifyConfig{
			SuccessTimeoutMs: 2500,
			ErrorTimeoutMs:   4000,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, ".spinquiz", "spinquiz.log"),
		},
	}
}

func defaultJackpot() JackpotConfig {
	p := spin.DefaultPaytable()
	triples := make(map[string]int, len(p.Triple))
	for sym, points := range p.Triple {
		triples[string(sym)] = points
	}
	return JackpotConfig{Pair: p.Pair, Triples: triples}
}

// LoadConfig loads configuration from project path with priority:
// 1. SPINQUIZ_* environment variables
// 2. .spinquiz.json in project root (with version migration support)
// 3. Defaults
func LoadConfig(projectPath string) (*Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(projectPath, FileName)
	if data, err := os.ReadFile(path); err == nil {
		parsed, err := ParseVersionedConfig(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
		}
		cfg = MergeWithDefaults(parsed)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig saves configuration to the specified path with version information
func SaveConfig(cfg *Config, path string) error {
	data, err := MarshalVersionedConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeWithDefaults fills in missing values with defaults
func MergeWithDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()

	if len(cfg.Scheduler.IntervalsMinutes) == 0 {
		cfg.Scheduler.IntervalsMinutes = defaults.Scheduler.IntervalsMinutes
	}

	// Merge Game config
	if cfg.Game.Players == nil {
		cfg.Game.Players = defaults.Game.Players
	}
	if cfg.Game.SpinDelayMs == 0 {
		cfg.Game.SpinDelayMs = defaults.Game.SpinDelayMs
	}
	if cfg.Game.Weights == (WeightsConfig{}) {
		cfg.Game.Weights = defaults.Game.Weights
	}
	if cfg.Game.Jackpot.Pair == 0 {
		cfg.Game.Jackpot.Pair = defaults.Game.Jackpot.Pair
	}
	if len(cfg.Game.Jackpot.Triples) == 0 {
		cfg.Game.Jackpot.Triples = defaults.Game.Jackpot.Triples
	}
	if cfg.Game.DoubleOrNothing == nil {
		cfg.Game.DoubleOrNothing = defaults.Game.DoubleOrNothing
	}

	// Merge Storage config
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = defaults.Storage.Driver
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaults.Storage.Path
	}

	// Merge Notifications config
	if cfg.Notifications.SuccessTimeoutMs == 0 {
		cfg.Notifications.SuccessTimeoutMs = defaults.Notifications.SuccessTimeoutMs
	}
	if cfg.Notifications.ErrorTimeoutMs == 0 {
		cfg.Notifications.ErrorTimeoutMs = defaults.Notifications.ErrorTimeoutMs
	}

	// Merge Logging config
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = defaults.Logging.File
	}

	cfg.Catalogue.Path = expandHome(cfg.Catalogue.Path)
	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)

	return cfg
}

// Load is a convenience function that loads config from current directory
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadConfig(cwd)
}

// Intervals returns the review interval table
func (c SchedulerConfig) Intervals() []time.Duration {
	out := make([]time.Duration, len(c.IntervalsMinutes))
	for i, m := range c.IntervalsMinutes {
		out[i] = time.Duration(m) * time.Minute
	}
	return out
}

// SpinDelay returns how long the reels spin before resolving
func (c GameConfig) SpinDelay() time.Duration {
	return time.Duration(c.SpinDelayMs) * time.Millisecond
}

// DoubleOrNothingEnabled reports whether the risk round is offered
func (c GameConfig) DoubleOrNothingEnabled() bool {
	return c.DoubleOrNothing == nil || *c.DoubleOrNothing
}

// SelectionWeights converts the weights for the spin resolver
func (c GameConfig) SelectionWeights() spin.Weights {
	return spin.Weights{Due: c.Weights.Due, Fresh: c.Weights.Fresh, Scheduled: c.Weights.Scheduled}
}

// Paytable converts the jackpot payouts for the spin resolver.
// Unknown symbols are ignored.
func (c GameConfig) Paytable() spin.Paytable {
	p := spin.DefaultPaytable()
	if c.Jackpot.Pair > 0 {
		p.Pair = c.Jackpot.Pair
	}
	for _, sym := range spin.Symbols {
		if points, ok := c.Jackpot.Triples[string(sym)]; ok && points > 0 {
			p.Triple[sym] = points
		}
	}
	return p
}

// SlogLevel parses the configured level, falling back to info
func (c LoggingConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
