// Package engine resolves account suggestions for extracted invoices and
// proposes the matching journal entry.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/ledgerwise/internal/ledger"
	"github.com/Veraticus/ledgerwise/internal/model"
	"github.com/shopspring/decimal"
)

// Result is the outcome of classifying one record.
type Result struct {
	JournalEntry *model.JournalEntry `json:"journalEntry"`
	Suggestions  model.Suggestions   `json:"suggestions"`
}

// Resolver merges the learned patterns, the static rules and the amount
// heuristic into a ranked suggestion list.
type Resolver struct {
	rules    RuleClassifier
	patterns PatternSuggester
	journal  *JournalBuilder
	config   Config
}

// Config holds configuration options for the resolver.
type Config struct {
	FixedAssetThreshold  decimal.Decimal
	MaxSuggestions       int
	FixedAssetConfidence float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxSuggestions:       3,
		FixedAssetThreshold:  decimal.NewFromInt(10000),
		FixedAssetConfidence: 0.60,
	}
}

// NewResolver creates a resolver with the default configuration. patterns may
// be nil when no pattern store is available.
func NewResolver(rules RuleClassifier, patterns PatternSuggester, journal *JournalBuilder) *Resolver {
	return NewResolverWithConfig(rules, patterns, journal, DefaultConfig())
}

// NewResolverWithConfig creates a resolver with custom configuration.
func NewResolverWithConfig(rules RuleClassifier, patterns PatternSuggester, journal *JournalBuilder, config Config) *Resolver {
	if journal == nil {
		journal = NewJournalBuilder()
	}
	return &Resolver{
		rules:    rules,
		patterns: patterns,
		journal:  journal,
		config:   config,
	}
}

// Resolve ranks the suggestions for rec and builds a journal entry from the
// best one. It never fails: a suggestion source that errors is skipped.
func (r *Resolver) Resolve(ctx context.Context, rec model.ExtractedRecord) Result {
	suggestions := r.Suggest(ctx, rec)
	return Result{
		Suggestions:  suggestions,
		JournalEntry: r.journal.Build(rec, suggestions.Top()),
	}
}

// Suggest returns at most MaxSuggestions suggestions with distinct account
// codes, highest confidence first. Learned suggestions come ahead of the
// static ones so they win ties.
func (r *Resolver) Suggest(ctx context.Context, rec model.ExtractedRecord) model.Suggestions {
	var candidates model.Suggestions

	candidates = append(candidates, r.learned(ctx, rec)...)

	if r.rules != nil {
		if rec.Label != "" {
			candidates = append(candidates, r.rules.ClassifyByLabel(rec.Label)...)
		}
		if rec.Supplier != "" {
			candidates = append(candidates, r.rules.ClassifyBySupplier(rec.Supplier)...)
		}
		if rec.Reference != "" {
			candidates = append(candidates, r.rules.ClassifyByReference(rec.Reference)...)
		}
	}

	if h := r.fixedAssetHeuristic(rec); h != nil {
		candidates = append(candidates, *h)
	}

	ranked := candidates.Dedup().TopN(r.config.MaxSuggestions)

	slog.Debug("resolved suggestions",
		"candidates", len(candidates),
		"returned", len(ranked),
		"supplier", rec.Supplier)

	return ranked
}

func (r *Resolver) learned(ctx context.Context, rec model.ExtractedRecord) model.Suggestions {
	if r.patterns == nil {
		return nil
	}

	suggestions, err := r.patterns.Suggest(ctx, rec)
	if err != nil {
		slog.Warn("skipping learned suggestions", "error", err)
		return nil
	}
	return suggestions
}

func (r *Resolver) fixedAssetHeuristic(rec model.ExtractedRecord) *model.AccountSuggestion {
	if rec.Amount == nil || !rec.Amount.GreaterThan(r.config.FixedAssetThreshold) {
		return nil
	}

	acct := ledger.MustAccount(ledger.CodeFixedAssets)
	return &model.AccountSuggestion{
		AccountCode:     acct.Code,
		AccountLabel:    acct.Label,
		AccountClass:    acct.Class,
		ConfidenceScore: r.config.FixedAssetConfidence,
		Justification:   fmt.Sprintf("Montant supérieur à %s : immobilisation probable", r.config.FixedAssetThreshold.String()),
		Source:          model.SourceHeuristic,
	}
}
