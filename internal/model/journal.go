package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntryLine posts an amount to one account, on the debit or the credit side.
type JournalEntryLine struct {
	AccountCode  string          `json:"accountCode"`
	AccountLabel string          `json:"accountLabel"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
}

// JournalEntry is a proposed double-entry record for an invoice.
type JournalEntry struct {
	Date     time.Time          `json:"date"`
	ID       string             `json:"id"`
	Label    string             `json:"label"`
	Currency string             `json:"currency,omitempty"`
	Lines    []JournalEntryLine `json:"lines"`
}

// Totals returns the sum of debits and the sum of credits.
func (e *JournalEntry) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, line := range e.Lines {
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	return debit, credit
}

// IsBalanced reports whether total debits equal total credits.
func (e *JournalEntry) IsBalanced() bool {
	debit, credit := e.Totals()
	return debit.Equal(credit)
}
