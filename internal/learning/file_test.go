package learning

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/ledgerwise/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackend_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	backend := NewFileBackend(filepath.Join(dir, "patterns.json"))
	ctx := context.Background()

	patterns := []model.LearningPattern{
		{PatternText: "sonelgaz", AccountCode: "6061", AccountLabel: "Énergie", Occurrences: 3, Confidence: 0.9549, LastUsedAt: fixedNow},
		{PatternText: "loy-#", AccountCode: "613", Occurrences: 1, Confidence: 0.8, LastUsedAt: fixedNow},
	}
	require.NoError(t, backend.Save(ctx, patterns))

	got, err := backend.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range patterns {
		assert.Equal(t, patterns[i].PatternText, got[i].PatternText)
		assert.Equal(t, patterns[i].AccountCode, got[i].AccountCode)
		assert.Equal(t, patterns[i].AccountLabel, got[i].AccountLabel)
		assert.Equal(t, patterns[i].Occurrences, got[i].Occurrences)
		assert.InDelta(t, patterns[i].Confidence, got[i].Confidence, 1e-12)
		assert.True(t, patterns[i].LastUsedAt.Equal(got[i].LastUsedAt))
	}

	// Only the store file is left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "patterns.json", entries[0].Name())
}

func TestFileBackend_SaveNilWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	require.NoError(t, NewFileBackend(path).Save(context.Background(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestFileBackend_SaveReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	backend := NewFileBackend(path)
	ctx := context.Background()

	require.NoError(t, backend.Save(ctx, []model.LearningPattern{{PatternText: "a", AccountCode: "613", Occurrences: 1}}))
	require.NoError(t, backend.Save(ctx, []model.LearningPattern{{PatternText: "b", AccountCode: "626", Occurrences: 2}}))

	got, err := backend.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].PatternText)
}

func TestFileBackend_LoadErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		_, err := NewFileBackend(filepath.Join(t.TempDir(), "none.json")).Load(ctx)
		assert.ErrorIs(t, err, ErrStoreMissing)
	})

	t.Run("corrupted", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "patterns.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"not":"an array"`), 0600))
		_, err := NewFileBackend(path).Load(ctx)
		assert.ErrorIs(t, err, ErrStoreCorrupted)
	})
}

func TestStore_RecoversFromCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0600))
	ctx := context.Background()

	store := NewStore(NewFileBackend(path), WithClock(fixedClock))
	store.Load(ctx)
	assert.Empty(t, store.Patterns(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))

	_, ok := store.Reinforce(ctx, "sonelgaz", "6061", 0.9)
	require.True(t, ok)
	got, err := NewFileBackend(path).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()

	backend, err := OpenBackend(ctx, BackendOptions{Path: filepath.Join(t.TempDir(), "p.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, backend)

	backend, err = OpenBackend(ctx, BackendOptions{Kind: BackendSQLite, Path: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteBackend{}, backend)
	require.NoError(t, backend.Close())

	_, err = OpenBackend(ctx, BackendOptions{Kind: "redis"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
