package learning

import (
	"context"

	"github.com/Veraticus/ledgerwise/internal/model"
)

// Backend is the durable home of the learned patterns.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string
	// Load returns every stored pattern. A store that does not exist yet
	// returns ErrStoreMissing.
	Load(ctx context.Context) ([]model.LearningPattern, error)
	// Save replaces the stored patterns with patterns.
	Save(ctx context.Context, patterns []model.LearningPattern) error
	// Close releases any resources held by the backend.
	Close() error
}
