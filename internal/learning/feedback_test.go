package learning

import (
	"context"
	"testing"

	"github.com/Veraticus/ledgerwise/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sonelgazRecord() *model.ExtractedRecord {
	return &model.ExtractedRecord{
		Supplier:  "Sonelgaz",
		Label:     "Consommation électricité et gaz",
		Reference: "SNG20240117",
	}
}

func TestStore_Learn(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	chosen := &model.AccountSuggestion{AccountCode: "6061", AccountLabel: "Énergie"}
	n := store.Learn(ctx, sonelgazRecord(), chosen)
	assert.Equal(t, 4, n)

	byText := make(map[string]model.LearningPattern)
	for _, p := range store.Patterns(ctx) {
		byText[p.PatternText] = p
		assert.Equal(t, "6061", p.AccountCode)
		assert.Equal(t, "Énergie", p.AccountLabel)
		assert.Equal(t, 1, p.Occurrences)
	}

	require.Len(t, byText, 4)
	assert.InDelta(t, SupplierBaseConfidence, byText["sonelgaz"].Confidence, 1e-9)
	assert.InDelta(t, KeywordBaseConfidence, byText["consommation"].Confidence, 1e-9)
	assert.InDelta(t, KeywordBaseConfidence, byText["électricité"].Confidence, 1e-9)
	assert.InDelta(t, ReferenceBaseConfidence, byText["sng#"].Confidence, 1e-9)
	assert.NotContains(t, byText, "gaz")
}

func TestStore_LearnTwiceProducesSuggestion(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	chosen := &model.AccountSuggestion{AccountCode: "6061"}

	store.Learn(ctx, sonelgazRecord(), chosen)
	got, err := store.Suggest(ctx, *sonelgazRecord())
	require.NoError(t, err)
	assert.Empty(t, got)

	store.Learn(ctx, sonelgazRecord(), chosen)
	got, err = store.Suggest(ctx, *sonelgazRecord())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "6061", got[0].AccountCode)
	assert.Equal(t, "Fournitures non stockables (eau, énergie)", got[0].AccountLabel)
	assert.Contains(t, got[0].Justification, "sonelgaz")
}

func TestStore_LearnIgnoresMissingInput(t *testing.T) {
	store, backend := newTestStore(t)
	ctx := context.Background()

	assert.Zero(t, store.Learn(ctx, nil, &model.AccountSuggestion{AccountCode: "6061"}))
	assert.Zero(t, store.Learn(ctx, sonelgazRecord(), nil))
	assert.Zero(t, store.Learn(ctx, sonelgazRecord(), &model.AccountSuggestion{AccountCode: " "}))
	assert.Zero(t, store.Learn(ctx, &model.ExtractedRecord{}, &model.AccountSuggestion{AccountCode: "6061"}))
	assert.Empty(t, store.Patterns(ctx))
	assert.Zero(t, backend.saveCalls)
}
