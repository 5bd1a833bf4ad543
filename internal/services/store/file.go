package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/riordanpawley/spinquiz/internal/domain"
)

// fileStore keeps the snapshot in one JSON document.
// Saves write a temp file next to the target and rename it into place.
type fileStore struct {
	path   string
	logger *slog.Logger
}

func openFile(cfg Config, logger *slog.Logger) (Store, error) {
	if err := requirePath(cfg, "file"); err != nil {
		return nil, err
	}
	path := filepath.Clean(cfg.Path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &domain.StoreError{Op: "open", Driver: "file", Err: err}
	}
	return &fileStore{path: path, logger: logger}, nil
}

func (s *fileStore) Load(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug("no snapshot yet", "path", s.path)
		return Empty(), nil
	}
	if err != nil {
		return Snapshot{}, &domain.StoreError{Op: "load", Driver: "file", Err: err}
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, &domain.StoreError{Op: "load", Driver: "file", Err: fmt.Errorf("failed to parse %s: %w", s.path, err)}
	}
	return normalize(snap), nil
}

func (s *fileStore) Save(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(normalize(snap), "", "  ")
	if err != nil {
		return &domain.StoreError{Op: "save", Driver: "file", Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &domain.StoreError{Op: "save", Driver: "file", Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &domain.StoreError{Op: "save", Driver: "file", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &domain.StoreError{Op: "save", Driver: "file", Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return &domain.StoreError{Op: "save", Driver: "file", Err: err}
	}

	s.logger.Debug("snapshot saved", "path", s.path, "records", len(snap.Records))
	return nil
}

func (s *fileStore) Close() error {
	return nil
}
