// Package main provides the entry point for spinquiz.
//
// spinquiz is a party quiz played in the terminal: a slot machine picks a
// player and a task, the group rates the attempt, and a Leitner box schedule
// decides when the task comes back.
//
// Usage:
//
//	spinquiz [command]
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/riordanpawley/spinquiz/internal/app"
	"github.com/riordanpawley/spinquiz/internal/cli"
	"github.com/riordanpawley/spinquiz/internal/config"
	"github.com/riordanpawley/spinquiz/internal/core/phases"
	"github.com/riordanpawley/spinquiz/internal/core/spin"
	"github.com/riordanpawley/spinquiz/internal/services/catalogue"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		cli.PrintUsage(os.Stdout)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closeLog, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps, err := cli.NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	if len(args) > 0 {
		switch args[0] {
		case "stats":
			return cli.StatsCommand(deps)
		case "due":
			return cli.DueCommand(deps)
		case "reset":
			if len(args) < 2 {
				return fmt.Errorf("reset needs a task key or text")
			}
			return cli.ResetCommand(ctx, deps, args[1])
		default:
			cli.PrintUsage(os.Stderr)
			return fmt.Errorf("unknown command: %s", args[0])
		}
	}

	return play(ctx, deps)
}

// play runs the game until the players quit
func play(ctx context.Context, deps *cli.Dependencies) error {
	cfg := deps.Config
	logger := deps.Logger.With("session", uuid.NewString())

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	resolver := spin.New(rng,
		spin.WithWeights(cfg.Game.SelectionWeights()),
		spin.WithPaytable(cfg.Game.Paytable()),
	)
	machine := phases.NewMachine(resolver, deps.Scheduler, deps.Catalogue, rng, logger,
		phases.WithPlayers(cfg.Game.Players...),
		phases.WithDoubleOrNothing(cfg.Game.DoubleOrNothingEnabled()),
	)

	model := app.New(app.Deps{
		Config:    cfg,
		Machine:   machine,
		Scheduler: deps.Scheduler,
		Catalogue: deps.Catalogue,
		Store:     deps.Store,
		Logger:    logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if cfg.Catalogue.Watch && cfg.Catalogue.Path != "" {
		watcher := catalogue.NewWatcher(cfg.Catalogue.Path, func(r catalogue.Reload) {
			program.Send(app.CatalogueReloadedMsg(r))
		}, logger)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Warn("catalogue watcher stopped", "error", err)
			}
		}()
	}

	logger.Info("game started", "seed", seed, "players", len(cfg.Game.Players), "tasks", deps.Catalogue.Len())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run game: %w", err)
	}
	return nil
}

// newLogger writes text logs to the configured file; the terminal belongs
// to the TUI.
func newLogger(cfg config.LoggingConfig) (*slog.Logger, func(), error) {
	var w io.Writer = io.Discard
	closeFn := func() {}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}
