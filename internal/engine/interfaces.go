package engine

import (
	"context"

	"github.com/Veraticus/ledgerwise/internal/model"
)

// RuleClassifier defines the contract for the static rule tables.
type RuleClassifier interface {
	ClassifyByLabel(label string) model.Suggestions
	ClassifyBySupplier(supplier string) model.Suggestions
	ClassifyByReference(reference string) model.Suggestions
}

// PatternSuggester defines the contract for suggestions learned from past confirmations.
type PatternSuggester interface {
	Suggest(ctx context.Context, rec model.ExtractedRecord) (model.Suggestions, error)
}

// PatternLearner defines the contract for feeding a confirmed classification back.
type PatternLearner interface {
	Learn(ctx context.Context, rec *model.ExtractedRecord, chosen *model.AccountSuggestion) int
}
