package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riordanpawley/spinquiz/internal/config"
	"github.com/riordanpawley/spinquiz/internal/domain"
	"github.com/riordanpawley/spinquiz/internal/services/catalogue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogue = `
categories:
  - main: Kennis
    name: Aardrijkskunde
    points: 10
    tasks:
      - Noem de hoofdstad van Frankrijk
      - Noem de langste rivier van Europa
  - main: Doen
    name: Beweging
    tasks:
      - text: Doe tien sprongen
        time_limit: 30
`

func newTestDeps(t *testing.T) (*Dependencies, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	catPath := filepath.Join(dir, "tasks.yaml")
	require.NoError(t, os.WriteFile(catPath, []byte(testCatalogue), 0o644))

	cfg := config.DefaultConfig()
	cfg.Catalogue.Path = catPath
	cfg.Storage.Path = filepath.Join(dir, "state.json")

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	deps, err := NewDependencies(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { deps.Close() })

	var out bytes.Buffer
	deps.Out = &out
	return deps, &out
}

func TestNewDependencies_Errors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Catalogue.Path = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := NewDependencies(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	cfg = config.DefaultConfig()
	cfg.Storage.Driver = "postgres"
	_, err = NewDependencies(context.Background(), cfg, nil)
	var storeErr *domain.StoreError
	assert.ErrorAs(t, err, &storeErr)
}

func TestStatsCommand(t *testing.T) {
	deps, out := newTestDeps(t)
	task, err := FindTask(deps.Catalogue, "hoofdstad")
	require.NoError(t, err)
	deps.Scheduler.RecordRating(task.Key(), domain.RatingSuccess)

	require.NoError(t, StatsCommand(deps))

	text := out.String()
	assert.Contains(t, text, "Tasks: 3 (new 2, paused 0, pinned 0)")
	assert.Contains(t, text, "BOX")
	assert.Contains(t, text, "5m")
	assert.Contains(t, text, "1d")
	assert.Contains(t, text, "7d")
}

func TestDueCommand(t *testing.T) {
	deps, out := newTestDeps(t)

	require.NoError(t, DueCommand(deps))
	assert.Contains(t, out.String(), "Nothing due")

	task, err := FindTask(deps.Catalogue, "rivier")
	require.NoError(t, err)
	deps.Scheduler.RecordRating(task.Key(), domain.RatingFail)
	require.True(t, deps.Scheduler.AdjustReview(task.Key(), -10))
	deps.Now = func() time.Time { return time.Now().Add(time.Minute) }

	out.Reset()
	require.NoError(t, DueCommand(deps))
	assert.Contains(t, out.String(), "Due for review (1)")
	assert.Contains(t, out.String(), "Noem de langste")
	assert.Contains(t, out.String(), "ago")
}

func TestResetCommand(t *testing.T) {
	deps, out := newTestDeps(t)
	task, err := FindTask(deps.Catalogue, "sprongen")
	require.NoError(t, err)
	deps.Scheduler.SetBox(task.Key(), 4)

	require.NoError(t, ResetCommand(context.Background(), deps, task.Key().String()))

	box, ok := deps.Scheduler.Box(task.Key())
	require.True(t, ok)
	assert.Equal(t, 0, box)
	assert.Contains(t, out.String(), "moved back to box 0")

	snap, err := deps.Store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Records[task.Key().String()].BoxIndex)
}

func TestFindTask(t *testing.T) {
	cats, err := catalogue.Parse([]byte(testCatalogue), "test")
	require.NoError(t, err)
	cat := catalogue.New("", cats)

	tests := []struct {
		name    string
		query   string
		want    string
		wantErr error
	}{
		{"text fragment", "Hoofdstad", "Noem de hoofdstad van Frankrijk", nil},
		{"ambiguous", "noem", "", ErrAmbiguous},
		{"unknown", "zwemmen", "", domain.ErrNotFound},
		{"empty", "  ", "", domain.ErrNotFound},
		{"full key", cats[1].Tasks[0].Key().String(), "Doe tien sprongen", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := FindTask(cat, tt.query)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, task.Text)
		})
	}
}

func TestPrintUsage(t *testing.T) {
	var out bytes.Buffer
	PrintUsage(&out)
	assert.Contains(t, out.String(), "reset <task>")
}
