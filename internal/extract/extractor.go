// Package extract turns raw invoice text into a structured record.
//
// Every field is located by an ordered list of regular expressions; the first
// expression that matches wins and no further search is made for that field.
// Extraction never fails: anything that cannot be found or parsed is left
// empty and lowers the record confidence.
package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Veraticus/ledgerwise/internal/model"
)

const (
	basicFieldCount    = 6
	advancedFieldCount = 8
	basicWeight        = 0.7
	advancedWeight     = 0.3

	maxHeaderSupplierLen = 60
)

// fieldMatcher finds the first capture of the first matching expression.
type fieldMatcher []*regexp.Regexp

func (m fieldMatcher) find(text string) string {
	for _, re := range m {
		if sub := re.FindStringSubmatch(text); len(sub) > 1 {
			if v := cleanValue(sub[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

func matcher(patterns ...string) fieldMatcher {
	m := make(fieldMatcher, 0, len(patterns))
	for _, p := range patterns {
		m = append(m, regexp.MustCompile(p))
	}
	return m
}

const (
	datePattern = `(\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}|\d{4}-\d{2}-\d{2})`

	// amountLine captures the rest of a line from its first digit; pickAmount
	// chooses the amount among the numbers it holds.
	amountLine  = `(\d[^\n]*)`
	ratePattern = `(?:\d{1,2}(?:[.,]\d+)?[ \t]*%)`
)

// Matchers used by the default extractor.
var (
	dateMatcher = matcher(
		`(?i)\bdate(?:\s+(?:de\s+)?(?:la\s+)?facture)?\s*[:\-]?\s*`+datePattern,
		`(?i)\b(?:le|du)\s+`+datePattern,
		datePattern,
	)
	dueDateMatcher = matcher(
		`(?i)(?:[ée]ch[ée]ance|date\s+limite(?:\s+de\s+paiement)?|payable\s+avant\s+le|due\s+date)\s*[:\-]?\s*` + datePattern,
	)
	amountMatcher = matcher(
		`(?i)(?:total\s+ttc|montant\s+ttc|net\s+[àa]\s+payer|total\s+[àa]\s+payer|montant\s+total)\s*(?:\([^)]*\))?\s*[:\-]?\s*`+amountLine,
		`(?i)\b(?:total|montant|amount)\b\s*(?:\([^)]*\))?\s*[:\-]?\s*`+amountLine,
	)
	taxMatcher = matcher(
		`(?i)\b(?:tva|tax|vat)\b(?:[ \t]*\([^)\n]*\))?[ \t]*` + ratePattern + `?[ \t]*[:\-]?[ \t]*` + ratePattern + `?[ \t]*` + amountLine,
	)
	labelMatcher = matcher(
		`(?im)^\s*(?:objet|libell[ée]|motif|description|nature)[ \t]*[:\-][ \t]*(.+)$`,
		`(?im)^\s*d[ée]signation[ \t]*[:\-][ \t]*(.+)$`,
	)
	supplierMatcher = matcher(
		`(?im)^\s*(?:fournisseur|supplier|vendeur|[ée]metteur|soci[ée]t[ée]|raison\s+sociale)[ \t]*[:\-][ \t]*(.+)$`,
		`(?m)^\s*([A-Z][\w&'.\- ]*?\s(?:SARL|SPA|EURL|SNC|EPIC|SAS|SA))\b`,
	)
	referenceMatcher = matcher(
		`(?i)\br[ée]f(?:[ée]rence)?\.?(?:\s+(?:client|contrat|commande|abonn[ée]))?(?:\s*[:\-]\s*|\s+)([A-Z0-9][A-Z0-9/_\-]{2,})`,
	)
	paymentTermsMatcher = matcher(
		`(?im)(?:conditions?\s+de\s+(?:paiement|r[èe]glement)|mode\s+de\s+(?:paiement|r[èe]glement)|payment\s+terms)[ \t]*[:\-][ \t]*(.+)$`,
		`(?i)\b((?:paiement|r[èe]glement)\s+[àa]\s+\d{1,3}\s+jours(?:\s+fin\s+de\s+mois)?)`,
	)
	currencyMatcher = matcher(
		`(?i)\b(?:devise|monnaie|currency)\s*[:\-]\s*([A-Za-z€$]{1,10})`,
		`(?i)\b(DZD|DA|dinars?|EUR|euros?|USD|dollars?)\b`,
		`(€|\$)`,
	)
	invoiceNumberMatcher = matcher(
		`(?i)\b(?:facture|invoice)\s*(?:n°|no\.?|num[ée]ro|nr|#)\s*[:\-]?\s*([A-Z0-9][A-Z0-9/_\-]*)`,
		`(?i)\bn°\s*(?:de\s+)?facture\s*[:\-]?\s*([A-Z0-9][A-Z0-9/_\-]*)`,
	)
	addressMatcher = matcher(
		`(?im)^\s*(?:adresse|address|si[èe]ge(?:\s+social)?)[ \t]*[:\-][ \t]*(.+)$`,
	)
	emailMatcher = matcher(
		`([\w.+\-]+@[\w\-]+(?:\.[\w\-]+)+)`,
	)
	phoneMatcher = matcher(
		`(?i)\b(?:t[ée]l(?:[ée]phone)?|phone|mobile|fax)\.?\s*[:\-]?\s*(\+?\d[\d .\-]{6,}\d)`,
	)
	taxIDMatcher = matcher(
		`(?i)\b(?:NIF|N\.I\.F\.?|tax\s*id|SIRET|TVA\s+intracom(?:munautaire)?)\s*[:\-]?\s*([A-Z]{0,2}\d[\dA-Z]{5,19})`,
	)
)

// Extractor extracts structured records from document text.
type Extractor struct{}

// New creates an extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract is a shorthand for New().Extract(text).
func Extract(text string) model.ExtractedRecord {
	return New().Extract(text)
}

// Extract builds a record from raw text. It is deterministic and never fails.
func (e *Extractor) Extract(text string) model.ExtractedRecord {
	var rec model.ExtractedRecord
	if strings.TrimSpace(text) == "" {
		return rec
	}

	rec.Date = parseDate(dateMatcher.find(text))
	rec.Amount = parseAmount(pickAmount(amountMatcher.find(text)))
	rec.TaxAmount = parseAmount(pickAmount(taxMatcher.find(text)))
	rec.Label = labelMatcher.find(text)
	rec.Supplier = supplierMatcher.find(text)
	if rec.Supplier == "" {
		rec.Supplier = headerSupplier(text)
	}
	rec.Reference = referenceMatcher.find(text)

	rec.DueDate = parseDate(dueDateMatcher.find(text))
	rec.PaymentTerms = paymentTermsMatcher.find(text)
	rec.Currency = normalizeCurrency(currencyMatcher.find(text))
	rec.InvoiceNumber = invoiceNumberMatcher.find(text)
	rec.SupplierAddress = addressMatcher.find(text)
	rec.SupplierEmail = emailMatcher.find(text)
	rec.SupplierPhone = phoneMatcher.find(text)
	rec.TaxID = taxIDMatcher.find(text)

	rec.LineItems = extractLineItems(text)
	rec.Confidence = confidence(rec)

	return rec
}

// headerKeywordRe rejects header lines that open a labelled invoice field.
var headerKeywordRe = regexp.MustCompile(`(?i)^(?:facture|invoice|date|total|montant|tva|objet|r[ée]f|n°|net\b|page\b)`)

// headerSupplier falls back to the first non-empty line when no labelled or
// legal-form supplier was found. The line must read like a name: it holds a
// letter, does not open with a digit and carries no "label:" separator.
func headerSupplier(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = cleanValue(line)
		if line == "" {
			continue
		}
		if len([]rune(line)) > maxHeaderSupplierLen ||
			strings.ContainsRune(line, ':') ||
			strings.ContainsRune("0123456789", []rune(line)[0]) ||
			!strings.ContainsFunc(line, unicode.IsLetter) ||
			headerKeywordRe.MatchString(line) {
			return ""
		}
		return line
	}
	return ""
}

// confidence weighs the six basic fields above the eight extended ones.
func confidence(rec model.ExtractedRecord) float64 {
	basic := countPresent(
		rec.Date != nil,
		rec.Amount != nil,
		rec.TaxAmount != nil,
		rec.Label != "",
		rec.Supplier != "",
		rec.Reference != "",
	)
	advanced := countPresent(
		rec.DueDate != nil,
		rec.PaymentTerms != "",
		rec.Currency != "",
		rec.InvoiceNumber != "",
		rec.SupplierAddress != "",
		rec.SupplierEmail != "",
		rec.SupplierPhone != "",
		rec.TaxID != "",
	)

	return basicWeight*float64(basic)/basicFieldCount +
		advancedWeight*float64(advanced)/advancedFieldCount
}

func countPresent(found ...bool) int {
	n := 0
	for _, f := range found {
		if f {
			n++
		}
	}
	return n
}

// cleanValue trims whitespace and trailing separators from a captured value.
func cleanValue(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), ",;:"))
}
