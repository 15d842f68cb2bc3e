package learning

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/ledgerwise/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteBackend(t *testing.T) *SQLiteBackend {
	t.Helper()
	backend, err := NewSQLiteBackend(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func TestSQLiteBackend_EmptyLoad(t *testing.T) {
	backend := newTestSQLiteBackend(t)
	got, err := backend.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteBackend_SaveUpserts(t *testing.T) {
	backend := newTestSQLiteBackend(t)
	ctx := context.Background()

	first := model.LearningPattern{PatternText: "sonelgaz", AccountCode: "6061", Occurrences: 1, Confidence: 0.9, LastUsedAt: fixedNow}
	second := model.LearningPattern{PatternText: "djezzy", AccountCode: "626", Occurrences: 1, Confidence: 0.9, LastUsedAt: fixedNow}
	require.NoError(t, backend.Save(ctx, []model.LearningPattern{first, second}))

	first.Occurrences = 2
	first.Confidence = 0.9347
	first.AccountLabel = "Énergie"
	first.LastUsedAt = fixedNow.Add(time.Hour)
	require.NoError(t, backend.Save(ctx, []model.LearningPattern{first, second}))

	got, err := backend.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "sonelgaz", got[0].PatternText)
	assert.Equal(t, 2, got[0].Occurrences)
	assert.InDelta(t, 0.9347, got[0].Confidence, 1e-9)
	assert.Equal(t, "Énergie", got[0].AccountLabel)
	assert.True(t, fixedNow.Add(time.Hour).Equal(got[0].LastUsedAt))
	assert.Equal(t, "djezzy", got[1].PatternText)
}

func TestSQLiteBackend_SamePatternDifferentAccounts(t *testing.T) {
	backend := newTestSQLiteBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Save(ctx, []model.LearningPattern{
		{PatternText: "entretien", AccountCode: "615", Occurrences: 1, Confidence: 0.7, LastUsedAt: fixedNow},
		{PatternText: "entretien", AccountCode: "6068", Occurrences: 1, Confidence: 0.7, LastUsedAt: fixedNow},
	}))

	got, err := backend.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSQLiteBackend_WithStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "patterns.db")
	ctx := context.Background()

	backend, err := NewSQLiteBackend(ctx, path)
	require.NoError(t, err)
	store := NewStore(backend, WithClock(fixedClock))
	store.Load(ctx)
	for i := 0; i < 3; i++ {
		store.Reinforce(ctx, "sonelgaz", "6061", 0.9)
	}
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteBackend(ctx, path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	again := NewStore(reopened)
	got, err := again.Suggest(ctx, model.ExtractedRecord{Supplier: "Sonelgaz"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "6061", got[0].AccountCode)
	assert.InDelta(t, 0.955, got[0].ConfidenceScore, 0.001)
}

func TestNewSQLiteBackend_EmptyPath(t *testing.T) {
	_, err := NewSQLiteBackend(context.Background(), "")
	assert.Error(t, err)
}

func TestSQLiteBackend_Migrations(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "patterns.db")

	backend, err := NewSQLiteBackend(ctx, dbPath)
	require.NoError(t, err)

	var version int
	require.NoError(t, backend.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, SchemaVersion, version)

	var indexes int
	require.NoError(t, backend.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_learning_patterns_account'`).Scan(&indexes))
	assert.Equal(t, 1, indexes)
	require.NoError(t, backend.Close())

	// Reopening an up-to-date database applies nothing.
	backend, err = NewSQLiteBackend(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, backend.Close())
}
