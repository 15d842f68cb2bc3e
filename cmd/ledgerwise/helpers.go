package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Veraticus/ledgerwise/internal/common"
	"github.com/Veraticus/ledgerwise/internal/config"
	"github.com/Veraticus/ledgerwise/internal/engine"
	"github.com/Veraticus/ledgerwise/internal/learning"
	"github.com/Veraticus/ledgerwise/internal/model"
	"github.com/Veraticus/ledgerwise/internal/rules"
)

// openStore opens and loads the configured pattern store.
func openStore(ctx context.Context, cfg *config.Config) (*learning.Store, error) {
	opts := learning.BackendOptions{
		Kind:            cfg.Patterns.Backend,
		Path:            cfg.Patterns.Path,
		MongoURI:        cfg.Patterns.Mongo.URI,
		MongoDatabase:   cfg.Patterns.Mongo.Database,
		MongoCollection: cfg.Patterns.Mongo.Collection,
	}

	var backend learning.Backend
	err := common.WithRetry(ctx, func() error {
		b, err := learning.OpenBackend(ctx, opts)
		if errors.Is(err, learning.ErrUnknownBackend) {
			return err
		}
		if err != nil {
			// Only a remote store can recover between attempts.
			return &common.RetryableError{
				Err:       fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err),
				Retryable: opts.Kind == learning.BackendMongo,
			}
		}
		backend = b
		return nil
	}, common.RetryOptions{MaxAttempts: cfg.Patterns.OpenAttempts})
	if err != nil {
		return nil, common.NewUserError("cannot open pattern store", err)
	}

	store := learning.NewStore(backend)
	store.Load(ctx)
	return store, nil
}

// newService wires the classification service. A nil store disables
// learned suggestions and reinforcement.
func newService(store *learning.Store) *engine.Service {
	var (
		suggester engine.PatternSuggester
		learner   engine.PatternLearner
	)
	if store != nil {
		suggester = store
		learner = store
	}
	resolver := engine.NewResolver(rules.NewDefaultClassifier(), suggester, engine.NewJournalBuilder())
	return engine.NewService(nil, resolver, learner)
}

// openService opens the store for classification. A store that cannot be
// opened only costs the learned suggestions.
func openService(ctx context.Context) (*engine.Service, func()) {
	store, err := openStore(ctx, appConfig)
	if err != nil {
		slog.Warn("classifying without learned patterns", "error", err)
		return newService(nil), func() {}
	}
	return newService(store), func() { closeStore(store) }
}

func closeStore(store *learning.Store) {
	if err := store.Close(); err != nil {
		slog.Warn("failed to close pattern store", "error", err)
	}
}

// collectInputs expands directories into the .txt and .json files they hold.
// "-" stands for standard input.
func collectInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		if arg == "-" {
			inputs = append(inputs, arg)
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("cannot read %s", arg), fmt.Errorf("%w: %v", common.ErrNotFound, err))
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", arg, err)
		}
		var files []string
		for _, e := range entries {
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if !e.IsDir() && (ext == ".txt" || ext == ".json") {
				files = append(files, filepath.Join(arg, e.Name()))
			}
		}
		sort.Strings(files)
		inputs = append(inputs, files...)
	}

	if len(inputs) == 0 {
		return nil, common.NewUserError("no invoice files found", common.ErrInvalidInput)
	}
	return inputs, nil
}

// loadRecord reads a record from path: JSON files are decoded as an
// extracted record, anything else is extracted from text.
func loadRecord(svc *engine.Service, path string, stdin io.Reader) (model.ExtractedRecord, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return model.ExtractedRecord{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var rec model.ExtractedRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return model.ExtractedRecord{}, common.NewUserError(fmt.Sprintf("%s is not an extracted record", path), err)
		}
		return rec, nil
	}

	return svc.Extract(string(data)), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
