package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/riordanpawley/spinquiz/internal/domain"
	_ "modernc.org/sqlite"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func openSQLite(cfg Config, logger *slog.Logger) (Store, error) {
	if err := requirePath(cfg, "sqlite"); err != nil {
		return nil, err
	}
	path := filepath.Clean(cfg.Path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &domain.StoreError{Op: "open", Driver: "sqlite", Err: err}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &domain.StoreError{Op: "open", Driver: "sqlite", Err: err}
	}
	// One writer is all a single game session needs
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.Exec("PRAGMA busy_timeout = 5000")
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	st := &sqliteStore{db: db, logger: logger}
	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, &domain.StoreError{Op: "migrate", Driver: "sqlite", Err: err}
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Load(ctx context.Context) (Snapshot, error) {
	snap := Empty()

	rows, err := s.db.QueryContext(ctx, `SELECT task_key, box_index, next_due_at, paused FROM records`)
	if err != nil {
		return Snapshot{}, &domain.StoreError{Op: "load", Driver: "sqlite", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var rec Record
		var paused int64
		if err := rows.Scan(&key, &rec.BoxIndex, &rec.NextDueAt, &paused); err != nil {
			return Snapshot{}, &domain.StoreError{Op: "load", Driver: "sqlite", Err: err}
		}
		rec.Paused = paused != 0
		snap.Records[key] = rec
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, &domain.StoreError{Op: "load", Driver: "sqlite", Err: err}
	}

	if snap.Pinned, err = s.loadList(ctx, "pins"); err != nil {
		return Snapshot{}, err
	}
	if snap.FocusQueue, err = s.loadList(ctx, "focus_queue"); err != nil {
		return Snapshot{}, err
	}
	return normalize(snap), nil
}

func (s *sqliteStore) loadList(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT task_key FROM %s ORDER BY position`, table))
	if err != nil {
		return nil, &domain.StoreError{Op: "load", Driver: "sqlite", Err: err}
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, &domain.StoreError{Op: "load", Driver: "sqlite", Err: err}
		}
		out = append(out, key)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StoreError{Op: "load", Driver: "sqlite", Err: err}
	}
	return out, nil
}

// Save replaces the stored snapshot in one transaction
func (s *sqliteStore) Save(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.StoreError{Op: "save", Driver: "sqlite", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"records", "pins", "focus_queue"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return &domain.StoreError{Op: "save", Driver: "sqlite", Err: err}
		}
	}

	for key, rec := range snap.Records {
		paused := 0
		if rec.Paused {
			paused = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO records(task_key, box_index, next_due_at, paused) VALUES(?,?,?,?)`,
			key, rec.BoxIndex, rec.NextDueAt, paused,
		); err != nil {
			return &domain.StoreError{Op: "save", Driver: "sqlite", Err: err}
		}
	}
	if err := saveList(ctx, tx, "pins", snap.Pinned); err != nil {
		return err
	}
	if err := saveList(ctx, tx, "focus_queue", snap.FocusQueue); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &domain.StoreError{Op: "save", Driver: "sqlite", Err: err}
	}
	s.logger.Debug("snapshot saved", "driver", "sqlite", "records", len(snap.Records))
	return nil
}

func saveList(ctx context.Context, tx *sql.Tx, table string, keys []string) error {
	for i, key := range keys {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s(position, task_key) VALUES(?,?)`, table),
			i, key,
		); err != nil {
			return &domain.StoreError{Op: "save", Driver: "sqlite", Err: err}
		}
	}
	return nil
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
