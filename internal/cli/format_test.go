package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/Veraticus/ledgerwise/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestFormatRecord(t *testing.T) {
	date := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	out := FormatRecord(model.ExtractedRecord{
		Supplier:   "Sonelgaz",
		Label:      "Consommation électricité",
		Date:       &date,
		Amount:     amount("1250.75"),
		TaxAmount:  amount("200.12"),
		Currency:   "DZD",
		Confidence: 0.85,
	})

	assert.Contains(t, out, "Sonelgaz")
	assert.Contains(t, out, "15/03/2024")
	assert.Contains(t, out, "1250.75 DZD")
	assert.Contains(t, out, "200.12 DZD")
	assert.Contains(t, out, "85%")
	assert.NotContains(t, out, "Échéance")
}

func TestWriteSuggestions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSuggestions(&buf, model.Suggestions{
		{AccountCode: "6061", AccountLabel: "Énergie", ConfidenceScore: 0.98, Source: model.SourceSupplier, Justification: "Fournisseur reconnu"},
		{AccountCode: "218", AccountLabel: "Immobilisations", ConfidenceScore: 0.6, Source: model.SourceHeuristic},
	}))

	out := buf.String()
	assert.Contains(t, out, "COMPTE")
	assert.Contains(t, out, "6061")
	assert.Contains(t, out, "98%")
	assert.Contains(t, out, "heuristic")
	assert.Contains(t, out, "Fournisseur reconnu")

	buf.Reset()
	require.NoError(t, WriteSuggestions(&buf, nil))
	assert.Contains(t, buf.String(), "Aucun compte suggéré")
}

func TestWriteJournalEntry(t *testing.T) {
	entry := &model.JournalEntry{
		Date:  time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		Label: "Facture Sonelgaz",
		Lines: []model.JournalEntryLine{
			{AccountCode: "6061", AccountLabel: "Énergie", Debit: decimal.RequireFromString("1050.63")},
			{AccountCode: "4456", AccountLabel: "TVA déductible", Debit: decimal.RequireFromString("200.12")},
			{AccountCode: "401", AccountLabel: "Fournisseurs", Credit: decimal.RequireFromString("1250.75")},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJournalEntry(&buf, entry))
	out := buf.String()
	assert.Contains(t, out, "Facture Sonelgaz")
	assert.Contains(t, out, "1050.63")
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "1250.75")
	assert.NotContains(t, out, "déséquilibrée")

	entry.Lines = entry.Lines[:2]
	buf.Reset()
	require.NoError(t, WriteJournalEntry(&buf, entry))
	assert.Contains(t, buf.String(), "déséquilibrée")

	buf.Reset()
	require.NoError(t, WriteJournalEntry(&buf, nil))
	assert.Contains(t, buf.String(), "Pas d'écriture")
}

func TestWritePatterns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePatterns(&buf, []model.LearningPattern{
		{PatternText: "sonelgaz", AccountCode: "6061", Occurrences: 3, Confidence: 0.9549, LastUsedAt: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
	}))

	out := buf.String()
	assert.Contains(t, out, "sonelgaz")
	assert.Contains(t, out, "0.955")
	assert.Contains(t, out, "2024-03-15 10:30")
}

func TestConfidenceStyle(t *testing.T) {
	assert.Equal(t, SuccessStyle.GetForeground(), ConfidenceStyle(0.95).GetForeground())
	assert.Equal(t, InfoStyle.GetForeground(), ConfidenceStyle(0.8).GetForeground())
	assert.Equal(t, WarningStyle.GetForeground(), ConfidenceStyle(0.6).GetForeground())
	assert.Equal(t, ErrorStyle.GetForeground(), ConfidenceStyle(0.2).GetForeground())
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 2, "Classement")
	p.Step()
	p.Step()
	p.Finish()

	assert.Contains(t, buf.String(), "Classement")
	assert.Contains(t, buf.String(), "2/2")
}
