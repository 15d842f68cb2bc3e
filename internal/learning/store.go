// Package learning keeps the patterns learned from confirmed classifications
// and turns them into account suggestions.
package learning

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/Veraticus/ledgerwise/internal/ledger"
	"github.com/Veraticus/ledgerwise/internal/model"
)

const (
	// MinOccurrences is how often a pattern must be confirmed before it is suggested.
	MinOccurrences = 2
	// ConfidenceThreshold is the lowest confidence a learned suggestion may have.
	ConfidenceThreshold = 0.75
	// MaxConfidence caps learned confidence; a pattern is never certain.
	MaxConfidence = 0.98

	reinforcementFactor  = 0.05
	minKeywordLength     = 4
	referencePlaceholder = "#"
)

var digitRunRe = regexp.MustCompile(`\d+`)

// Store holds learned patterns in memory and mirrors every change to a Backend.
// All methods are safe for concurrent use.
type Store struct {
	backend  Backend
	now      func() time.Time
	index    map[model.PatternKey]int
	patterns []model.LearningPattern
	mu       sync.Mutex
	loaded   bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store persisted through backend. Call Load before use;
// the other methods load lazily if it was not called.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		index:   make(map[model.PatternKey]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the backend into memory. It is idempotent and never fails: a
// missing or unreadable store starts empty and an empty store is written back.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true

	patterns, err := s.backend.Load(ctx)
	if err != nil {
		slog.Warn("pattern store unreadable, starting empty", "backend", s.backend.Name(), "error", err)
		s.patterns = nil
		s.index = make(map[model.PatternKey]int)
		if err := s.backend.Save(ctx, nil); err != nil {
			slog.Warn("failed to initialize empty pattern store", "backend", s.backend.Name(), "error", err)
		}
		return
	}

	s.patterns = make([]model.LearningPattern, 0, len(patterns))
	s.index = make(map[model.PatternKey]int, len(patterns))
	for _, p := range patterns {
		key := p.Key()
		if key.Text == "" || key.AccountCode == "" {
			continue
		}
		if i, dup := s.index[key]; dup {
			// Keep the stronger copy if the durable store holds duplicates.
			if p.Occurrences > s.patterns[i].Occurrences {
				s.patterns[i] = p
			}
			continue
		}
		s.index[key] = len(s.patterns)
		s.patterns = append(s.patterns, p)
	}

	slog.Debug("loaded learned patterns", "backend", s.backend.Name(), "count", len(s.patterns))
}

// Reinforce records one more confirmation of patternText for accountCode.
// See ReinforceAccount.
func (s *Store) Reinforce(ctx context.Context, patternText, accountCode string, baseConfidence float64) (model.LearningPattern, bool) {
	return s.ReinforceAccount(ctx, patternText, ledger.Lookup(accountCode), baseConfidence)
}

// ReinforceAccount records one more confirmation of patternText for acct.
// A new pair starts at baseConfidence; a known pair gets
// min(base + 0.05*ln(occurrences), 0.98) and never loses confidence. The whole
// store is persisted before returning; a persistence failure is logged and
// the in-memory state keeps serving. Empty input is ignored and reported
// with false.
func (s *Store) ReinforceAccount(ctx context.Context, patternText string, acct ledger.Account, baseConfidence float64) (model.LearningPattern, bool) {
	key := model.NewPatternKey(patternText, acct.Code)
	if key.Text == "" || key.AccountCode == "" {
		return model.LearningPattern{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	now := s.now()
	var p model.LearningPattern

	if i, ok := s.index[key]; ok {
		p = s.patterns[i]
		p.Occurrences++
		p.LastUsedAt = now
		p.Confidence = math.Max(p.Confidence, reinforcedConfidence(baseConfidence, p.Occurrences))
		if acct.Label != "" {
			p.AccountLabel = acct.Label
		}
		s.patterns[i] = p
	} else {
		p = model.LearningPattern{
			PatternText:  key.Text,
			AccountCode:  key.AccountCode,
			AccountLabel: acct.Label,
			Occurrences:  1,
			LastUsedAt:   now,
			Confidence:   math.Min(baseConfidence, MaxConfidence),
		}
		s.index[key] = len(s.patterns)
		s.patterns = append(s.patterns, p)
	}

	if err := s.flushLocked(ctx); err != nil {
		slog.Warn("failed to persist learned patterns", "backend", s.backend.Name(), "error", err)
	}

	return p, true
}

func reinforcedConfidence(base float64, occurrences int) float64 {
	return math.Min(base+reinforcementFactor*math.Log(float64(occurrences)), MaxConfidence)
}

// Suggest returns one learned suggestion per account whose patterns match the
// record, keeping each account's most confident pattern. Only patterns seen
// at least MinOccurrences times and suggestions at or above
// ConfidenceThreshold are returned, highest confidence first.
func (s *Store) Suggest(ctx context.Context, rec model.ExtractedRecord) (model.Suggestions, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pattern suggestions: %w", err)
	}

	candidates := Candidates(rec)
	if len(candidates) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	best := make(map[string]model.LearningPattern)
	var order []string

	for _, p := range s.patterns {
		if p.Occurrences < MinOccurrences || !matchesAny(p.PatternText, candidates) {
			continue
		}
		current, seen := best[p.AccountCode]
		if !seen {
			order = append(order, p.AccountCode)
		}
		if !seen || p.Confidence > current.Confidence {
			best[p.AccountCode] = p
		}
	}

	var out model.Suggestions
	for _, code := range order {
		p := best[code]
		acct := ledger.Lookup(code)
		if p.AccountLabel != "" {
			acct.Label = p.AccountLabel
		}
		out = append(out, model.AccountSuggestion{
			AccountCode:     acct.Code,
			AccountLabel:    acct.Label,
			AccountClass:    acct.Class,
			ConfidenceScore: p.Confidence,
			Justification:   fmt.Sprintf("Motif appris « %s » (%d confirmations)", p.PatternText, p.Occurrences),
			Source:          model.SourceLearned,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AccountCode < out[j].AccountCode
	})

	return out.AboveThreshold(ConfidenceThreshold), nil
}

// Patterns returns a copy of every learned pattern, most confident first.
func (s *Store) Patterns(ctx context.Context) []model.LearningPattern {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	out := make([]model.LearningPattern, len(s.patterns))
	copy(out, s.patterns)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Occurrences > out[j].Occurrences
	})
	return out
}

// Flush writes the in-memory patterns to the backend.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil
	}
	return s.flushLocked(ctx)
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) flushLocked(ctx context.Context) error {
	snapshot := make([]model.LearningPattern, len(s.patterns))
	copy(snapshot, s.patterns)
	if err := s.backend.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// Candidates derives the pattern texts a record can be matched by: the
// supplier, each label word longer than three characters and the reference
// with digit runs masked. All are lowercased.
func Candidates(rec model.ExtractedRecord) []string {
	var out []string

	if supplier := strings.ToLower(strings.TrimSpace(rec.Supplier)); supplier != "" {
		out = append(out, supplier)
	}
	out = append(out, LabelKeywords(rec.Label)...)
	if ref := ReferenceFormat(rec.Reference); ref != "" {
		out = append(out, ref)
	}

	return out
}

// LabelKeywords splits a label into distinct lowercased words longer than
// three characters.
func LabelKeywords(label string) []string {
	words := strings.FieldsFunc(strings.ToLower(label), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(words))
	var out []string
	for _, w := range words {
		if len([]rune(w)) < minKeywordLength || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// ReferenceFormat lowercases a reference and replaces each digit run with "#".
func ReferenceFormat(reference string) string {
	reference = strings.ToLower(strings.TrimSpace(reference))
	if reference == "" {
		return ""
	}
	return digitRunRe.ReplaceAllString(reference, referencePlaceholder)
}

// matchesAny reports whether some candidate contains pattern. A reference
// format must equal the candidate, and one without letters matches nothing
// since every digit-only reference masks to the same format.
func matchesAny(pattern string, candidates []string) bool {
	pattern = strings.ToLower(pattern)
	if strings.Contains(pattern, referencePlaceholder) {
		if !strings.ContainsFunc(pattern, unicode.IsLetter) {
			return false
		}
		return slices.Contains(candidates, pattern)
	}
	for _, c := range candidates {
		if strings.Contains(c, pattern) {
			return true
		}
	}
	return false
}
