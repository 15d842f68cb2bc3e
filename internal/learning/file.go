package learning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Veraticus/ledgerwise/internal/model"
	"github.com/google/uuid"
)

// FileBackend stores patterns as a JSON array in a single file. Writes go to
// a temporary file in the same directory which is then renamed over the
// store, so readers never observe a partial file.
type FileBackend struct {
	path string
}

var _ Backend = (*FileBackend)(nil)

// NewFileBackend creates a backend for the JSON file at path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Name implements Backend.
func (b *FileBackend) Name() string {
	return "file:" + b.path
}

// Path returns the store file location.
func (b *FileBackend) Path() string {
	return b.path
}

// Load implements Backend.
func (b *FileBackend) Load(ctx context.Context) ([]model.LearningPattern, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrStoreMissing, b.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern store: %w", err)
	}

	var patterns []model.LearningPattern
	if err := json.Unmarshal(data, &patterns); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStoreCorrupted, b.path, err)
	}
	return patterns, nil
}

// Save implements Backend.
func (b *FileBackend) Save(ctx context.Context, patterns []model.LearningPattern) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if patterns == nil {
		patterns = []model.LearningPattern{}
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create pattern store directory: %w", err)
	}

	data, err := json.MarshalIndent(patterns, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal patterns: %w", err)
	}

	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(b.path), uuid.New().String()))
	if err := writeSynced(tmpPath, data); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, b.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace pattern store: %w", err)
	}
	return nil
}

// Close implements Backend.
func (b *FileBackend) Close() error {
	return nil
}

func writeSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	return nil
}
