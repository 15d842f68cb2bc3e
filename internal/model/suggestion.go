package model

import (
	"fmt"
	"sort"
)

// SuggestionSource identifies the subsystem that produced a suggestion.
type SuggestionSource string

// Suggestion sources.
const (
	SourceKeyword   SuggestionSource = "keyword"
	SourceSupplier  SuggestionSource = "supplier"
	SourceReference SuggestionSource = "reference"
	SourceHeuristic SuggestionSource = "heuristic"
	SourceLearned   SuggestionSource = "learned"
	SourceManual    SuggestionSource = "manual"
)

// AccountSuggestion is a candidate account for an invoice with a confidence score.
type AccountSuggestion struct {
	AccountCode     string           `json:"accountCode" validate:"required"`
	AccountLabel    string           `json:"accountLabel"`
	Justification   string           `json:"justification"`
	Source          SuggestionSource `json:"source"`
	AccountClass    int              `json:"accountClass"`
	ConfidenceScore float64          `json:"confidenceScore" validate:"gte=0,lte=1"`
}

// Validate ensures the suggestion carries an account and a score in range.
func (s *AccountSuggestion) Validate() error {
	if s.AccountCode == "" {
		return fmt.Errorf("account code is required")
	}
	if s.ConfidenceScore < 0.0 || s.ConfidenceScore > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0, got %.2f", s.ConfidenceScore)
	}
	return nil
}

// Suggestions is a slice of AccountSuggestion with ranking helpers.
type Suggestions []AccountSuggestion

// Len implements sort.Interface.
func (s Suggestions) Len() int {
	return len(s)
}

// Less implements sort.Interface - higher confidence comes first.
func (s Suggestions) Less(i, j int) bool {
	return s[i].ConfidenceScore > s[j].ConfidenceScore
}

// Swap implements sort.Interface.
func (s Suggestions) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// Sort orders suggestions by confidence, highest first. Equal scores keep
// their relative order so earlier sources win ties.
func (s Suggestions) Sort() {
	sort.Stable(s)
}

// Dedup keeps one suggestion per account code, the one with the highest
// confidence. On equal confidence the first one seen is kept. The result
// preserves first-seen order.
func (s Suggestions) Dedup() Suggestions {
	index := make(map[string]int, len(s))
	out := make(Suggestions, 0, len(s))

	for _, sug := range s {
		i, seen := index[sug.AccountCode]
		if !seen {
			index[sug.AccountCode] = len(out)
			out = append(out, sug)
			continue
		}
		if sug.ConfidenceScore > out[i].ConfidenceScore {
			out[i] = sug
		}
	}
	return out
}

// TopN returns the N highest-confidence suggestions.
func (s Suggestions) TopN(n int) Suggestions {
	if n <= 0 {
		return Suggestions{}
	}

	s.Sort()

	if n > len(s) {
		n = len(s)
	}

	result := make(Suggestions, n)
	copy(result, s[:n])
	return result
}

// AboveThreshold returns the suggestions scoring at least threshold, sorted.
func (s Suggestions) AboveThreshold(threshold float64) Suggestions {
	s.Sort()

	var result Suggestions
	for _, sug := range s {
		if sug.ConfidenceScore >= threshold {
			result = append(result, sug)
		}
	}
	return result
}

// Top returns the best suggestion or nil when empty. It assumes s is sorted.
func (s Suggestions) Top() *AccountSuggestion {
	if len(s) == 0 {
		return nil
	}
	return &s[0]
}

// Validate ensures every suggestion is valid and no account code repeats.
func (s Suggestions) Validate() error {
	seen := make(map[string]bool)

	for i, sug := range s {
		if err := sug.Validate(); err != nil {
			return fmt.Errorf("invalid suggestion at index %d: %w", i, err)
		}
		if seen[sug.AccountCode] {
			return fmt.Errorf("duplicate account %q in suggestions", sug.AccountCode)
		}
		seen[sug.AccountCode] = true
	}

	return nil
}
