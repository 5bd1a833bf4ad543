// Package store persists scheduling state between game sessions.
//
// A Snapshot holds box assignments, pause flags, pins and the focus queue.
// Drivers:
//   - "file": a single JSON document, replaced atomically on save
//   - "sqlite": a SQLite database file (modernc.org/sqlite, no cgo)
//   - "none": nothing is persisted
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/riordanpawley/spinquiz/internal/domain"
)

// Record is the persisted state of one task key
type Record struct {
	BoxIndex int `json:"boxIndex"`
	// NextDueAt in epoch milliseconds; zero when the task was never rated
	NextDueAt int64 `json:"nextDueAt"`
	Paused    bool  `json:"paused"`
}

// Rated reports whether the record carries a box assignment
func (r Record) Rated() bool {
	return r.NextDueAt != 0
}

// Snapshot is the full persisted scheduling state
type Snapshot struct {
	Records map[string]Record `json:"records"`
	Pinned  []string          `json:"pinned"`
	// FocusQueue is nil when no focus session is active
	FocusQueue []string `json:"focusQueue"`
}

// Empty returns a snapshot with no state
func Empty() Snapshot {
	return Snapshot{Records: map[string]Record{}, Pinned: []string{}}
}

// Store loads and saves snapshots
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Close() error
}

// Config selects and configures a driver
type Config struct {
	Driver string
	Path   string
}

// Open initializes the configured store. An empty driver means "none".
func Open(cfg Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))

	switch driver {
	case "", "none":
		return nopStore{}, nil
	case "file", "json":
		return openFile(cfg, logger)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, logger)
	default:
		return nil, &domain.StoreError{Op: "open", Driver: driver, Err: errors.New("unknown storage driver")}
	}
}

func normalize(snap Snapshot) Snapshot {
	if snap.Records == nil {
		snap.Records = map[string]Record{}
	}
	if snap.Pinned == nil {
		snap.Pinned = []string{}
	}
	if len(snap.FocusQueue) == 0 {
		snap.FocusQueue = nil
	}
	return snap
}

func requirePath(cfg Config, driver string) error {
	if strings.TrimSpace(cfg.Path) == "" {
		return &domain.StoreError{Op: "open", Driver: driver, Err: fmt.Errorf("storage path is required")}
	}
	return nil
}

type nopStore struct{}

func (nopStore) Load(context.Context) (Snapshot, error) { return Empty(), nil }
func (nopStore) Save(context.Context, Snapshot) error   { return nil }
func (nopStore) Close() error                           { return nil }
