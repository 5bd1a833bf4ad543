package catalogue

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/riordanpawley/spinquiz/internal/domain"
)

// DefaultDebounce absorbs the burst of events editors produce on save
const DefaultDebounce = 250 * time.Millisecond

// Reload is the result of re-reading the catalogue file
type Reload struct {
	Path       string
	Categories []domain.Category
	Err        error
}

// Watcher reloads a catalogue file when it changes on disk
type Watcher struct {
	path     string
	debounce time.Duration
	onReload func(Reload)
	logger   *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a watcher for path. onReload is called from a
// background goroutine for every settled change.
func NewWatcher(path string, onReload func(Reload), logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     path,
		debounce: DefaultDebounce,
		onReload: onReload,
		logger:   logger,
	}
}

// Run watches until ctx is done. The directory is watched rather than the
// file so that editors replacing the file by rename are picked up.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return &domain.CatalogueError{Op: "watch", Path: w.path, Err: err}
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	file := filepath.Base(w.path)
	if err := fw.Add(dir); err != nil {
		return &domain.CatalogueError{Op: "watch", Path: w.path, Err: err}
	}
	w.logger.Debug("catalogue watcher started", "dir", dir, "file", file)

	for {
		select {
		case <-ctx.Done():
			w.stop()
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Base(ev.Name), file) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.schedule()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("catalogue watch error", "error", err, "dir", dir)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) reload() {
	categories, err := Load(w.path)
	if err != nil {
		w.logger.Warn("catalogue reload failed", "path", w.path, "error", err)
	} else {
		w.logger.Info("catalogue reloaded", "path", w.path, "categories", len(categories))
	}
	w.onReload(Reload{Path: w.path, Categories: categories, Err: err})
}
