// Package cli implements the non-interactive spinquiz commands and wires the
// services every entry point shares.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/riordanpawley/spinquiz/internal/config"
	"github.com/riordanpawley/spinquiz/internal/domain"
	"github.com/riordanpawley/spinquiz/internal/services/catalogue"
	"github.com/riordanpawley/spinquiz/internal/services/scheduler"
	"github.com/riordanpawley/spinquiz/internal/services/store"
)

// ErrAmbiguous is returned when a task query matches more than one task
var ErrAmbiguous = errors.New("ambiguous task")

// Dependencies holds all the services needed by the TUI and the CLI commands
type Dependencies struct {
	Config    *config.Config
	Scheduler *scheduler.Service
	Catalogue *catalogue.Catalogue
	Store     store.Store
	Logger    *slog.Logger
	Out       io.Writer
	Now       func() time.Time
}

// NewDependencies opens the store, restores the schedule and loads the
// catalogue described by cfg.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cats, err := catalogue.Load(cfg.Catalogue.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalogue: %w", err)
	}

	st, err := store.Open(store.Config{Driver: cfg.Storage.Driver, Path: cfg.Storage.Path}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	snap, err := st.Load(ctx)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	sched := scheduler.NewService(scheduler.Options{
		Intervals:        cfg.Scheduler.Intervals(),
		SuccessTimeoutMs: cfg.Notifications.SuccessTimeoutMs,
		ErrorTimeoutMs:   cfg.Notifications.ErrorTimeoutMs,
	}, logger)
	sched.Restore(snap)

	return &Dependencies{
		Config:    cfg,
		Scheduler: sched,
		Catalogue: catalogue.New(cfg.Catalogue.Path, cats),
		Store:     st,
		Logger:    logger,
		Out:       os.Stdout,
		Now:       time.Now,
	}, nil
}

// Close releases the store
func (d *Dependencies) Close() error {
	return d.Store.Close()
}

// StatsCommand prints how the catalogue is spread over the boxes
func StatsCommand(deps *Dependencies) error {
	intervals := deps.Config.Scheduler.Intervals()
	counts := make([]int, len(intervals))
	due := make([]int, len(intervals))
	var fresh, paused, pinned int

	for _, cat := range deps.Catalogue.Categories() {
		for _, t := range cat.Tasks {
			st := deps.Scheduler.Status(t.Key())
			if st.Paused {
				paused++
			}
			if st.Pinned {
				pinned++
			}
			if !st.Rated {
				fresh++
				continue
			}
			if st.Box >= len(counts) {
				continue
			}
			counts[st.Box]++
			if deps.Scheduler.IsDue(t.Key()) {
				due[st.Box]++
			}
		}
	}

	fmt.Fprintf(deps.Out, "Tasks: %d (new %d, paused %d, pinned %d)\n\n", deps.Catalogue.Len(), fresh, paused, pinned)

	w := tabwriter.NewWriter(deps.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BOX\tINTERVAL\tTASKS\tDUE")
	fmt.Fprintln(w, "---\t--------\t-----\t---")
	for box, iv := range intervals {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", box, formatInterval(iv), counts[box], due[box])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if f := deps.Scheduler.Focus(); f.Active {
		fmt.Fprintf(deps.Out, "\nFocus session active: %d tasks left\n", len(f.Queue))
	}
	return nil
}

// DueCommand lists the tasks that are due for review
func DueCommand(deps *Dependencies) error {
	now := deps.Now()
	labels := make(map[string]string)
	for _, cat := range deps.Catalogue.Categories() {
		for _, t := range cat.Tasks {
			labels[t.Key().String()] = t.Key().Label()
		}
	}

	var rows []scheduler.Entry
	for _, e := range deps.Scheduler.Entries() {
		if e.Due && !e.Paused {
			if _, ok := labels[e.Key]; ok {
				rows = append(rows, e)
			}
		}
	}
	if len(rows) == 0 {
		fmt.Fprintln(deps.Out, "Nothing due")
		return nil
	}

	fmt.Fprintf(deps.Out, "Due for review (%d):\n\n", len(rows))
	w := tabwriter.NewWriter(deps.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BOX\tDUE\tTASK")
	fmt.Fprintln(w, "---\t---\t----")
	for _, e := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\n", e.Box, humanize.RelTime(e.NextDueAt, now, "ago", "from now"), labels[e.Key])
	}
	return w.Flush()
}

// ResetCommand moves a task back to box 0 and saves the schedule. The query
// is either a full task key or a piece of the task text.
func ResetCommand(ctx context.Context, deps *Dependencies, query string) error {
	task, err := FindTask(deps.Catalogue, query)
	if err != nil {
		return err
	}

	key := task.Key()
	deps.Scheduler.SetBox(key, 0)
	deps.Scheduler.DrainNotices()

	if err := deps.Store.Save(ctx, deps.Scheduler.Snapshot()); err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}

	deps.Logger.Info("task reset", "key", key.String())
	fmt.Fprintf(deps.Out, "%s moved back to box 0\n", key.Label())
	return nil
}

// FindTask resolves a key or text fragment to exactly one catalogue task
func FindTask(cat *catalogue.Catalogue, query string) (domain.Task, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Task{}, fmt.Errorf("empty task query: %w", domain.ErrNotFound)
	}
	if t, ok := cat.Find(query); ok {
		return t, nil
	}

	q := strings.ToLower(query)
	var matches []domain.Task
	for _, c := range cat.Categories() {
		for _, t := range c.Tasks {
			if strings.Contains(strings.ToLower(t.Text), q) {
				matches = append(matches, t)
			}
		}
	}

	switch len(matches) {
	case 0:
		return domain.Task{}, fmt.Errorf("task %q: %w", query, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return domain.Task{}, fmt.Errorf("task %q matches %d tasks: %w", query, len(matches), ErrAmbiguous)
	}
}

func formatInterval(d time.Duration) string {
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		return fmt.Sprintf("%dd", d/(24*time.Hour))
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return d.String()
	}
}

// PrintUsage prints CLI usage information
func PrintUsage(w io.Writer) {
	usage := `Usage: spinquiz [command] [arguments]

Commands:
  (no command)         Start the game
  stats                Show how tasks are spread over the boxes
  due                  List tasks due for review
  reset <task>         Move a task back to box 0 (key or part of its text)
  help                 Show this help message

Configuration is read from .spinquiz.json in the current directory and
SPINQUIZ_* environment variables.
`
	fmt.Fprint(w, usage)
}
