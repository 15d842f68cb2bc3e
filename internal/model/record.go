// Package model defines the core data structures shared by the extractor, classifiers and resolver.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is a single billed line found in the items section of an invoice.
type LineItem struct {
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unitPrice,omitempty"`
	Total       *decimal.Decimal `json:"total,omitempty"`
	Designation string           `json:"designation"`
	Raw         string           `json:"raw"`
}

// ExtractedRecord is the structured view of an invoice produced from raw text.
// Empty strings and nil pointers mean the field was not found.
type ExtractedRecord struct {
	Date             *time.Time       `json:"date,omitempty"`
	DueDate          *time.Time       `json:"dueDate,omitempty"`
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	TaxAmount        *decimal.Decimal `json:"taxAmount,omitempty"`
	Label            string           `json:"label,omitempty"`
	Supplier         string           `json:"supplier,omitempty"`
	Reference        string           `json:"reference,omitempty"`
	PaymentTerms     string           `json:"paymentTerms,omitempty"`
	Currency         string           `json:"currency,omitempty"`
	InvoiceNumber    string           `json:"invoiceNumber,omitempty"`
	SupplierAddress  string           `json:"supplierAddress,omitempty"`
	SupplierEmail    string           `json:"supplierEmail,omitempty"`
	SupplierPhone    string           `json:"supplierPhone,omitempty"`
	TaxID            string           `json:"taxId,omitempty"`
	LineItems        []LineItem       `json:"lineItems,omitempty"`
	Confidence       float64          `json:"confidence"`
	IsManuallyEdited bool             `json:"isManuallyEdited,omitempty"`
}

// Edited returns a copy of the record with edit applied. A manually edited
// record is trusted completely.
func (r ExtractedRecord) Edited(edit func(*ExtractedRecord)) ExtractedRecord {
	out := r
	if len(r.LineItems) > 0 {
		out.LineItems = make([]LineItem, len(r.LineItems))
		copy(out.LineItems, r.LineItems)
	}
	if edit != nil {
		edit(&out)
	}
	out.Confidence = 1.0
	out.IsManuallyEdited = true
	return out
}

// NetAmount returns the tax-exclusive amount: Amount minus TaxAmount when a
// tax amount is present. The second value is false when there is no amount.
func (r ExtractedRecord) NetAmount() (decimal.Decimal, bool) {
	if r.Amount == nil {
		return decimal.Zero, false
	}
	if r.TaxAmount == nil {
		return *r.Amount, true
	}
	return r.Amount.Sub(*r.TaxAmount), true
}
