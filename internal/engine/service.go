package engine

import (
	"context"
	"log/slog"

	"github.com/Veraticus/ledgerwise/internal/extract"
	"github.com/Veraticus/ledgerwise/internal/model"
	"github.com/go-playground/validator/v10"
)

// Service exposes the three operations a host offers: extract, classify and
// reinforce.
type Service struct {
	extractor *extract.Extractor
	resolver  *Resolver
	learner   PatternLearner
	validate  *validator.Validate
}

// NewService wires a service. learner may be nil, in which case
// reinforcement is ignored.
func NewService(extractor *extract.Extractor, resolver *Resolver, learner PatternLearner) *Service {
	if extractor == nil {
		extractor = extract.New()
	}
	return &Service{
		extractor: extractor,
		resolver:  resolver,
		learner:   learner,
		validate:  validator.New(),
	}
}

// Extract parses raw invoice text.
func (s *Service) Extract(text string) model.ExtractedRecord {
	return s.extractor.Extract(text)
}

// Classify returns the ranked suggestions and the proposed journal entry.
func (s *Service) Classify(ctx context.Context, rec model.ExtractedRecord) Result {
	return s.resolver.Resolve(ctx, rec)
}

// Reinforce feeds the user's choice back into the pattern store. A missing
// or invalid record or suggestion is ignored. Only a cancelled context is
// reported.
func (s *Service) Reinforce(ctx context.Context, rec *model.ExtractedRecord, chosen *model.AccountSuggestion) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if rec == nil || chosen == nil {
		slog.Debug("ignoring reinforcement without record or suggestion")
		return nil
	}

	if err := s.validate.Struct(chosen); err != nil {
		slog.Warn("ignoring invalid reinforcement", "account", chosen.AccountCode, "error", err)
		return nil
	}

	if s.learner == nil {
		slog.Debug("no pattern store configured, reinforcement dropped")
		return nil
	}

	n := s.learner.Learn(ctx, rec, chosen)
	slog.Info("reinforced patterns", "account", chosen.AccountCode, "patterns", n)
	return nil
}
