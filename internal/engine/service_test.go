package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/ledgerwise/internal/learning"
	"github.com/Veraticus/ledgerwise/internal/model"
	"github.com/Veraticus/ledgerwise/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLearner struct {
	records []*model.ExtractedRecord
	chosen  []*model.AccountSuggestion
}

func (r *recordingLearner) Learn(_ context.Context, rec *model.ExtractedRecord, chosen *model.AccountSuggestion) int {
	r.records = append(r.records, rec)
	r.chosen = append(r.chosen, chosen)
	return 1
}

func TestService_ReinforceIgnoresInvalidInput(t *testing.T) {
	learner := &recordingLearner{}
	svc := NewService(nil, NewResolver(stubRules{}, nil, nil), learner)
	ctx := context.Background()
	rec := &model.ExtractedRecord{Supplier: "Sonelgaz"}

	tests := []struct {
		rec    *model.ExtractedRecord
		chosen *model.AccountSuggestion
		name   string
	}{
		{name: "missing record", chosen: &model.AccountSuggestion{AccountCode: "6061", ConfidenceScore: 0.9}},
		{name: "missing suggestion", rec: rec},
		{name: "missing account code", rec: rec, chosen: &model.AccountSuggestion{ConfidenceScore: 0.9}},
		{name: "confidence out of range", rec: rec, chosen: &model.AccountSuggestion{AccountCode: "6061", ConfidenceScore: 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, svc.Reinforce(ctx, tt.rec, tt.chosen))
		})
	}
	assert.Empty(t, learner.chosen)
}

func TestService_ReinforceDelegates(t *testing.T) {
	learner := &recordingLearner{}
	svc := NewService(nil, NewResolver(stubRules{}, nil, nil), learner)
	rec := &model.ExtractedRecord{Supplier: "Sonelgaz"}
	chosen := &model.AccountSuggestion{AccountCode: "6061", ConfidenceScore: 0.98}

	require.NoError(t, svc.Reinforce(context.Background(), rec, chosen))
	require.Len(t, learner.chosen, 1)
	assert.Same(t, rec, learner.records[0])
	assert.Same(t, chosen, learner.chosen[0])
}

func TestService_ReinforceCancelled(t *testing.T) {
	learner := &recordingLearner{}
	svc := NewService(nil, NewResolver(stubRules{}, nil, nil), learner)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Reinforce(ctx, &model.ExtractedRecord{}, &model.AccountSuggestion{AccountCode: "6061"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, learner.chosen)
}

func TestService_ReinforceWithoutLearner(t *testing.T) {
	svc := NewService(nil, NewResolver(stubRules{}, nil, nil), nil)
	err := svc.Reinforce(context.Background(), &model.ExtractedRecord{Supplier: "x"}, &model.AccountSuggestion{AccountCode: "613"})
	assert.NoError(t, err)
}

func TestService_LearnsFromConfirmations(t *testing.T) {
	ctx := context.Background()
	store := learning.NewStore(learning.NewFileBackend(filepath.Join(t.TempDir(), "patterns.json")))
	store.Load(ctx)

	svc := NewService(nil, NewResolver(rules.NewDefaultClassifier(), store, fixedBuilder()), store)

	rec := svc.Extract("Fournisseur: Imprimerie El Watan\nObjet: Impression brochures\nTotal TTC: 4500.00\n")
	require.Equal(t, "Imprimerie El Watan", rec.Supplier)

	before := svc.Classify(ctx, rec)
	for _, s := range before.Suggestions {
		assert.NotEqual(t, model.SourceLearned, s.Source)
	}

	chosen := &model.AccountSuggestion{AccountCode: "623", ConfidenceScore: 1}
	require.NoError(t, svc.Reinforce(ctx, &rec, chosen))
	require.NoError(t, svc.Reinforce(ctx, &rec, chosen))

	after := svc.Classify(ctx, rec)
	require.NotEmpty(t, after.Suggestions)
	assert.Equal(t, "623", after.Suggestions[0].AccountCode)
	assert.Equal(t, model.SourceLearned, after.Suggestions[0].Source)
	require.NotNil(t, after.JournalEntry)
	assert.True(t, after.JournalEntry.IsBalanced())
}
