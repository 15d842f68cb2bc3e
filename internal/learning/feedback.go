package learning

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Veraticus/ledgerwise/internal/ledger"
	"github.com/Veraticus/ledgerwise/internal/model"
)

// Base confidences for the pattern families reinforced on user confirmation.
const (
	SupplierBaseConfidence  = 0.9
	KeywordBaseConfidence   = 0.7
	ReferenceBaseConfidence = 0.8
)

// Learn reinforces the patterns of rec toward the account the user chose: the
// supplier name, each label keyword and the reference format. It returns the
// number of patterns reinforced; missing input reinforces nothing.
func (s *Store) Learn(ctx context.Context, rec *model.ExtractedRecord, chosen *model.AccountSuggestion) int {
	if rec == nil || chosen == nil || strings.TrimSpace(chosen.AccountCode) == "" {
		return 0
	}

	acct := ledger.Lookup(chosen.AccountCode)
	if chosen.AccountLabel != "" {
		acct.Label = chosen.AccountLabel
	}

	reinforced := 0
	reinforce := func(text string, base float64) {
		if _, ok := s.ReinforceAccount(ctx, text, acct, base); ok {
			reinforced++
		}
	}

	reinforce(rec.Supplier, SupplierBaseConfidence)
	for _, word := range LabelKeywords(rec.Label) {
		reinforce(word, KeywordBaseConfidence)
	}
	reinforce(ReferenceFormat(rec.Reference), ReferenceBaseConfidence)

	slog.Debug("reinforced learned patterns",
		"account", acct.Code,
		"supplier", rec.Supplier,
		"patterns", reinforced)

	return reinforced
}
