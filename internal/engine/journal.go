package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/ledgerwise/internal/ledger"
	"github.com/Veraticus/ledgerwise/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JournalBuilder turns a record and its chosen account into a balanced
// double entry.
type JournalBuilder struct {
	now   func() time.Time
	newID func() string
}

// JournalOption configures a JournalBuilder.
type JournalOption func(*JournalBuilder)

// WithJournalClock sets the date used when a record carries none.
func WithJournalClock(now func() time.Time) JournalOption {
	return func(b *JournalBuilder) {
		b.now = now
	}
}

// WithIDGenerator replaces the entry ID generator.
func WithIDGenerator(newID func() string) JournalOption {
	return func(b *JournalBuilder) {
		b.newID = newID
	}
}

// NewJournalBuilder creates a builder that stamps entries with random UUIDs.
func NewJournalBuilder(opts ...JournalOption) *JournalBuilder {
	b := &JournalBuilder{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build proposes the journal entry for rec posted to top. Expense and fixed
// asset accounts are posted against payables, revenue accounts against
// receivables. It returns nil when there is no suggestion, no amount, or the
// account class cannot be posted.
func (b *JournalBuilder) Build(rec model.ExtractedRecord, top *model.AccountSuggestion) *model.JournalEntry {
	if top == nil || rec.Amount == nil {
		return nil
	}

	class := top.AccountClass
	if class == 0 {
		class = ledger.ClassOf(top.AccountCode)
	}

	gross := *rec.Amount
	net, _ := rec.NetAmount()
	tax := decimal.Zero
	if rec.TaxAmount != nil {
		tax = *rec.TaxAmount
	}

	account := ledger.Lookup(top.AccountCode)
	if top.AccountLabel != "" {
		account.Label = top.AccountLabel
	}

	var lines []model.JournalEntryLine
	switch class {
	case ledger.ClassExpense:
		lines = purchaseLines(account, ledger.MustAccount(ledger.CodePayables), gross, net, tax)
	case ledger.ClassFixedAssets:
		lines = purchaseLines(account, ledger.MustAccount(ledger.CodeFixedAssetPayables), gross, net, tax)
	case ledger.ClassRevenue:
		lines = saleLines(account, gross, net, tax)
	default:
		return nil
	}

	date := b.now()
	if rec.Date != nil {
		date = *rec.Date
	}

	return &model.JournalEntry{
		ID:       b.newID(),
		Date:     date,
		Label:    entryLabel(rec),
		Currency: rec.Currency,
		Lines:    lines,
	}
}

func purchaseLines(account, payables ledger.Account, gross, net, tax decimal.Decimal) []model.JournalEntryLine {
	lines := []model.JournalEntryLine{debit(account, net)}
	if !tax.IsZero() {
		lines = append(lines, debit(ledger.MustAccount(ledger.CodeInputTax), tax))
	}
	return append(lines, credit(payables, gross))
}

func saleLines(account ledger.Account, gross, net, tax decimal.Decimal) []model.JournalEntryLine {
	lines := []model.JournalEntryLine{
		debit(ledger.MustAccount(ledger.CodeReceivables), gross),
		credit(account, net),
	}
	if !tax.IsZero() {
		lines = append(lines, credit(ledger.MustAccount(ledger.CodeOutputTax), tax))
	}
	return lines
}

func debit(a ledger.Account, amount decimal.Decimal) model.JournalEntryLine {
	return model.JournalEntryLine{AccountCode: a.Code, AccountLabel: a.Label, Debit: amount, Credit: decimal.Zero}
}

func credit(a ledger.Account, amount decimal.Decimal) model.JournalEntryLine {
	return model.JournalEntryLine{AccountCode: a.Code, AccountLabel: a.Label, Debit: decimal.Zero, Credit: amount}
}

func entryLabel(rec model.ExtractedRecord) string {
	var parts []string
	if rec.Supplier != "" {
		parts = append(parts, rec.Supplier)
	}
	if rec.Label != "" {
		parts = append(parts, rec.Label)
	}
	number := rec.InvoiceNumber
	if number == "" {
		number = rec.Reference
	}
	if number != "" {
		parts = append(parts, fmt.Sprintf("réf. %s", number))
	}
	if len(parts) == 0 {
		return "Facture"
	}
	return "Facture " + strings.Join(parts, " - ")
}
