// Package rules provides the static, hand-authored classification rules.
package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/Veraticus/ledgerwise/internal/ledger"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Kind tells which field of a record a rule inspects.
type Kind string

// Rule kinds.
const (
	KindKeyword         Kind = "keyword"
	KindSupplier        Kind = "supplier"
	KindReferenceFormat Kind = "reference_format"
)

// Rule is a static mapping from matching text to an account.
// The implementations are KeywordRule, SupplierRule and ReferenceFormatRule.
type Rule interface {
	Kind() Kind
	Match(text string) bool
	Confidence() float64
	Account() ledger.Account
	Pattern() string
	isRule()
}

// KeywordRule matches a whole word or phrase in an invoice label.
type KeywordRule struct {
	re       *regexp.Regexp
	keyword  string
	account  ledger.Account
	Priority int
}

// NewKeywordRule creates a keyword rule for accountCode at the given priority tier.
func NewKeywordRule(keyword, accountCode string, priority int) *KeywordRule {
	return &KeywordRule{
		keyword:  keyword,
		account:  ledger.MustAccount(accountCode),
		Priority: priority,
		re:       regexp.MustCompile(`\b` + regexp.QuoteMeta(fold(keyword)) + `\b`),
	}
}

// Kind implements Rule.
func (r *KeywordRule) Kind() Kind { return KindKeyword }

// Match implements Rule.
func (r *KeywordRule) Match(text string) bool {
	return r.re.MatchString(fold(text))
}

// Confidence maps the priority tier to a score.
func (r *KeywordRule) Confidence() float64 {
	switch r.Priority {
	case 1:
		return 0.95
	case 2:
		return 0.85
	case 3:
		return 0.75
	default:
		return 0.65
	}
}

// Account implements Rule.
func (r *KeywordRule) Account() ledger.Account { return r.account }

// Pattern implements Rule.
func (r *KeywordRule) Pattern() string { return r.keyword }

func (r *KeywordRule) isRule() {}

// SupplierRule matches a known supplier name anywhere in the supplier field.
type SupplierRule struct {
	name     string
	folded   string
	account  ledger.Account
	Priority int
}

// NewSupplierRule creates a supplier rule for accountCode at the given priority tier.
func NewSupplierRule(name, accountCode string, priority int) *SupplierRule {
	return &SupplierRule{
		name:     name,
		folded:   fold(name),
		account:  ledger.MustAccount(accountCode),
		Priority: priority,
	}
}

// Kind implements Rule.
func (r *SupplierRule) Kind() Kind { return KindSupplier }

// Match implements Rule.
func (r *SupplierRule) Match(text string) bool {
	return strings.Contains(fold(text), r.folded)
}

// Confidence maps the priority tier to a score. An identified supplier is a
// stronger signal than a keyword, so the scale sits higher.
func (r *SupplierRule) Confidence() float64 {
	switch r.Priority {
	case 1:
		return 0.98
	case 2:
		return 0.90
	default:
		return 0.80
	}
}

// Account implements Rule.
func (r *SupplierRule) Account() ledger.Account { return r.account }

// Pattern implements Rule.
func (r *SupplierRule) Pattern() string { return r.name }

func (r *SupplierRule) isRule() {}

// ReferenceFormatRule matches the shape of an invoice reference.
type ReferenceFormatRule struct {
	re          *regexp.Regexp
	description string
	account     ledger.Account
}

const referenceConfidence = 0.85

// NewReferenceFormatRule creates a reference rule. expr is matched case-insensitively.
func NewReferenceFormatRule(expr, description, accountCode string) (*ReferenceFormatRule, error) {
	re, err := regexp.Compile(`(?i)` + expr)
	if err != nil {
		return nil, fmt.Errorf("failed to compile reference format %s: %w", description, err)
	}
	return &ReferenceFormatRule{
		re:          re,
		description: description,
		account:     ledger.MustAccount(accountCode),
	}, nil
}

// Kind implements Rule.
func (r *ReferenceFormatRule) Kind() Kind { return KindReferenceFormat }

// Match implements Rule.
func (r *ReferenceFormatRule) Match(text string) bool {
	return r.re.MatchString(strings.TrimSpace(text))
}

// Confidence is fixed for reference formats.
func (r *ReferenceFormatRule) Confidence() float64 { return referenceConfidence }

// Account implements Rule.
func (r *ReferenceFormatRule) Account() ledger.Account { return r.account }

// Pattern implements Rule.
func (r *ReferenceFormatRule) Pattern() string { return r.description }

func (r *ReferenceFormatRule) isRule() {}

// fold lowercases text and strips diacritics so "Électricité" matches "electricite".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
