package rules

import (
	"fmt"
	"strings"

	"github.com/Veraticus/ledgerwise/internal/model"
)

// MaxLabelSuggestions caps the keyword suggestions returned for a label.
const MaxLabelSuggestions = 3

// Classifier matches record fields against a fixed rule table. It holds no
// mutable state and is safe for concurrent use.
type Classifier struct {
	keywords   []Rule
	suppliers  []Rule
	references []Rule
}

// NewClassifier creates a classifier over rules, grouping them by kind.
func NewClassifier(rules []Rule) *Classifier {
	c := &Classifier{}
	for _, r := range rules {
		switch r.Kind() {
		case KindKeyword:
			c.keywords = append(c.keywords, r)
		case KindSupplier:
			c.suppliers = append(c.suppliers, r)
		case KindReferenceFormat:
			c.references = append(c.references, r)
		}
	}
	return c
}

// NewDefaultClassifier creates a classifier over the built-in rule table.
func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultRules())
}

// ClassifyByLabel returns at most three keyword suggestions, one per account,
// highest confidence first.
func (c *Classifier) ClassifyByLabel(label string) model.Suggestions {
	if strings.TrimSpace(label) == "" {
		return nil
	}
	matches := c.match(c.keywords, label, model.SourceKeyword)
	return matches.Dedup().TopN(MaxLabelSuggestions)
}

// ClassifyBySupplier returns every supplier rule that matches, unfiltered.
func (c *Classifier) ClassifyBySupplier(supplier string) model.Suggestions {
	if strings.TrimSpace(supplier) == "" {
		return nil
	}
	return c.match(c.suppliers, supplier, model.SourceSupplier)
}

// ClassifyByReference returns every reference format that matches, unfiltered.
func (c *Classifier) ClassifyByReference(reference string) model.Suggestions {
	if strings.TrimSpace(reference) == "" {
		return nil
	}
	return c.match(c.references, reference, model.SourceReference)
}

// Rules returns the full rule table.
func (c *Classifier) Rules() []Rule {
	all := make([]Rule, 0, len(c.keywords)+len(c.suppliers)+len(c.references))
	all = append(all, c.keywords...)
	all = append(all, c.suppliers...)
	return append(all, c.references...)
}

func (c *Classifier) match(rules []Rule, text string, source model.SuggestionSource) model.Suggestions {
	var out model.Suggestions
	for _, r := range rules {
		if !r.Match(text) {
			continue
		}
		acct := r.Account()
		out = append(out, model.AccountSuggestion{
			AccountCode:     acct.Code,
			AccountLabel:    acct.Label,
			AccountClass:    acct.Class,
			ConfidenceScore: r.Confidence(),
			Justification:   justification(r),
			Source:          source,
		})
	}
	return out
}

func justification(r Rule) string {
	switch r.Kind() {
	case KindSupplier:
		return fmt.Sprintf("Fournisseur reconnu : %s", r.Pattern())
	case KindReferenceFormat:
		return fmt.Sprintf("Format de référence : %s", r.Pattern())
	default:
		return fmt.Sprintf("Mot-clé « %s » dans le libellé", r.Pattern())
	}
}
