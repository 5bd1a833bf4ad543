package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/riordanpawley/spinquiz/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		Records: map[string]Record{
			"Quiz/Kennis/a1": {BoxIndex: 2, NextDueAt: 1_700_000_000_000},
			"Quiz/Kennis/b2": {BoxIndex: 0, NextDueAt: 1_700_000_300_000, Paused: true},
			"Doe/Actie/c3":   {Paused: true},
		},
		Pinned:     []string{"Quiz/Kennis/b2", "Quiz/Kennis/a1"},
		FocusQueue: []string{"Quiz/Kennis/a1"},
	}
}

func TestOpen_Drivers(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty driver", Config{}, false},
		{"none", Config{Driver: "none"}, false},
		{"file", Config{Driver: "file", Path: filepath.Join(dir, "state.json")}, false},
		{"sqlite", Config{Driver: "SQLite", Path: filepath.Join(dir, "state.db")}, false},
		{"file without path", Config{Driver: "file"}, true},
		{"sqlite without path", Config{Driver: "sqlite"}, true},
		{"unknown", Config{Driver: "redis"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Open(tt.cfg, nil)
			if tt.wantErr {
				require.Error(t, err)
				var se *domain.StoreError
				assert.True(t, errors.As(err, &se))
				return
			}
			require.NoError(t, err)
			require.NotNil(t, st)
			assert.NoError(t, st.Close())
		})
	}
}

func TestStores_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	for _, cfg := range []Config{
		{Driver: "file", Path: filepath.Join(dir, "nested", "state.json")},
		{Driver: "sqlite", Path: filepath.Join(dir, "nested", "state.db")},
	} {
		t.Run(cfg.Driver, func(t *testing.T) {
			st, err := Open(cfg, nil)
			require.NoError(t, err)
			defer st.Close()

			empty, err := st.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, empty.Records)
			assert.Empty(t, empty.Pinned)
			assert.Nil(t, empty.FocusQueue)

			want := sampleSnapshot()
			require.NoError(t, st.Save(ctx, want))

			got, err := st.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want.Records, got.Records)
			assert.Equal(t, want.Pinned, got.Pinned)
			assert.Equal(t, want.FocusQueue, got.FocusQueue)

			// A second save replaces rather than merges
			next := Empty()
			next.Records["Quiz/Kennis/a1"] = Record{BoxIndex: 3, NextDueAt: 1_800_000_000_000}
			require.NoError(t, st.Save(ctx, next))

			got, err = st.Load(ctx)
			require.NoError(t, err)
			assert.Len(t, got.Records, 1)
			assert.Empty(t, got.Pinned)
			assert.Nil(t, got.FocusQueue)
		})
	}
}

func TestFileStore_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	st, err := Open(Config{Driver: "file", Path: path}, nil)
	require.NoError(t, err)

	snap := Empty()
	snap.Records["k"] = Record{BoxIndex: 1, NextDueAt: 42}
	require.NoError(t, st.Save(context.Background(), snap))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"boxIndex": 1`)
	assert.Contains(t, string(data), `"nextDueAt": 42`)
	assert.Contains(t, string(data), `"focusQueue": null`)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	st, err := Open(Config{Driver: "file", Path: path}, nil)
	require.NoError(t, err)

	_, err = st.Load(context.Background())
	var se *domain.StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "load", se.Op)
}

func TestRecord_Rated(t *testing.T) {
	assert.False(t, Record{Paused: true}.Rated())
	assert.True(t, Record{NextDueAt: 1}.Rated())
}

func TestNopStore(t *testing.T) {
	st, err := Open(Config{Driver: "none"}, nil)
	require.NoError(t, err)

	require.NoError(t, st.Save(context.Background(), sampleSnapshot()))
	got, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.Records)
}
