package model

import (
	"strings"
	"time"
)

// LearningPattern is a learned association between a text fragment and an account.
type LearningPattern struct {
	LastUsedAt   time.Time `json:"lastUsedAt" bson:"last_used_at"`
	PatternText  string    `json:"patternText" bson:"pattern_text"`
	AccountCode  string    `json:"accountCode" bson:"account_code"`
	AccountLabel string    `json:"accountLabel,omitempty" bson:"account_label,omitempty"`
	Occurrences  int       `json:"occurrences" bson:"occurrences"`
	Confidence   float64   `json:"confidence" bson:"confidence"`
}

// PatternKey identifies a learning pattern: lowercased text plus account code.
type PatternKey struct {
	Text        string
	AccountCode string
}

// Key returns the identity of the pattern.
func (p LearningPattern) Key() PatternKey {
	return NewPatternKey(p.PatternText, p.AccountCode)
}

// NewPatternKey builds a case-insensitive pattern key.
func NewPatternKey(text, accountCode string) PatternKey {
	return PatternKey{
		Text:        strings.ToLower(strings.TrimSpace(text)),
		AccountCode: strings.TrimSpace(accountCode),
	}
}
