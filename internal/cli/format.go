package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/ledgerwise/internal/model"
	"github.com/shopspring/decimal"
)

const dateLayout = "02/01/2006"

// FormatRecord renders the extracted fields of a record, one per line.
func FormatRecord(rec model.ExtractedRecord) string {
	var b strings.Builder

	field := func(name, value string) {
		if value == "" {
			value = SubtleStyle.Render("-")
		}
		fmt.Fprintf(&b, "%-14s %s\n", name+":", value)
	}

	field("Fournisseur", rec.Supplier)
	field("Libellé", rec.Label)
	field("Référence", rec.Reference)
	field("Facture", rec.InvoiceNumber)
	if rec.Date != nil {
		field("Date", rec.Date.Format(dateLayout))
	} else {
		field("Date", "")
	}
	if rec.DueDate != nil {
		field("Échéance", rec.DueDate.Format(dateLayout))
	}
	field("Montant TTC", formatAmount(rec.Amount, rec.Currency))
	field("TVA", formatAmount(rec.TaxAmount, rec.Currency))
	if len(rec.LineItems) > 0 {
		field("Lignes", fmt.Sprintf("%d", len(rec.LineItems)))
	}
	field("Confiance", ConfidenceStyle(rec.Confidence).Render(fmt.Sprintf("%.0f%%", rec.Confidence*100)))

	return strings.TrimRight(b.String(), "\n")
}

// WriteSuggestions writes a numbered suggestion table.
func WriteSuggestions(w io.Writer, suggestions model.Suggestions) error {
	if len(suggestions) == 0 {
		_, err := fmt.Fprintln(w, FormatWarning("Aucun compte suggéré"))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tCOMPTE\tLIBELLÉ\tCONFIANCE\tSOURCE\tJUSTIFICATION")
	for i, s := range suggestions {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			s.AccountCode,
			s.AccountLabel,
			ConfidenceStyle(s.ConfidenceScore).Render(fmt.Sprintf("%.0f%%", s.ConfidenceScore*100)),
			s.Source,
			s.Justification)
	}
	return tw.Flush()
}

// WriteJournalEntry writes the entry lines with debit and credit columns and
// a totals line.
func WriteJournalEntry(w io.Writer, entry *model.JournalEntry) error {
	if entry == nil {
		_, err := fmt.Fprintln(w, FormatInfo("Pas d'écriture proposée"))
		return err
	}

	if _, err := fmt.Fprintf(w, "%s  %s\n", BoldStyle.Render(entry.Date.Format(dateLayout)), entry.Label); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	_, _ = fmt.Fprintln(tw, "COMPTE\tLIBELLÉ\tDÉBIT\tCRÉDIT\t")
	for _, line := range entry.Lines {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n",
			line.AccountCode, line.AccountLabel, nonZero(line.Debit), nonZero(line.Credit))
	}
	debit, credit := entry.Totals()
	_, _ = fmt.Fprintf(tw, "\tTotal\t%s\t%s\t\n", debit.StringFixed(2), credit.StringFixed(2))
	if err := tw.Flush(); err != nil {
		return err
	}

	if !entry.IsBalanced() {
		_, err := fmt.Fprintln(w, FormatError("Écriture déséquilibrée"))
		return err
	}
	return nil
}

// WritePatterns writes the learned patterns as a table.
func WritePatterns(w io.Writer, patterns []model.LearningPattern) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "MOTIF\tCOMPTE\tLIBELLÉ\tOCCURRENCES\tCONFIANCE\tDERNIÈRE UTILISATION")
	for _, p := range patterns {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.3f\t%s\n",
			p.PatternText,
			p.AccountCode,
			p.AccountLabel,
			p.Occurrences,
			p.Confidence,
			p.LastUsedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func formatAmount(d *decimal.Decimal, currency string) string {
	if d == nil {
		return ""
	}
	if currency == "" {
		return d.StringFixed(2)
	}
	return d.StringFixed(2) + " " + currency
}

func nonZero(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}
