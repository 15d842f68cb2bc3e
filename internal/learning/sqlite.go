package learning

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/ledgerwise/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteBackend stores patterns in a SQLite table keyed by the lowercased
// pattern text and the account code.
type SQLiteBackend struct {
	db     *sql.DB
	dbPath string
}

var _ Backend = (*SQLiteBackend)(nil)

// NewSQLiteBackend opens (and creates if needed) the database at dbPath.
// Use ":memory:" for an in-memory database.
func NewSQLiteBackend(ctx context.Context, dbPath string) (*SQLiteBackend, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath cannot be empty")
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections, and ":memory:" needs exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	b := &SQLiteBackend{db: db, dbPath: dbPath}
	if err := b.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return b, nil
}

// Name implements Backend.
func (b *SQLiteBackend) Name() string {
	return "sqlite:" + b.dbPath
}

// Load implements Backend.
func (b *SQLiteBackend) Load(ctx context.Context) ([]model.LearningPattern, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT pattern_text, account_code, account_label, occurrences, confidence, last_used_at
		FROM learning_patterns
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query learning patterns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var patterns []model.LearningPattern
	for rows.Next() {
		var p model.LearningPattern
		if err := rows.Scan(&p.PatternText, &p.AccountCode, &p.AccountLabel, &p.Occurrences, &p.Confidence, &p.LastUsedAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan learning pattern: %v", ErrStoreCorrupted, err)
		}
		patterns = append(patterns, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating learning patterns: %w", err)
	}

	return patterns, nil
}

// Save implements Backend. Patterns are never deleted, so every pattern is
// upserted inside one transaction.
func (b *SQLiteBackend) Save(ctx context.Context, patterns []model.LearningPattern) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO learning_patterns (
			pattern_key, pattern_text, account_code, account_label,
			occurrences, confidence, last_used_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(pattern_key, account_code) DO UPDATE SET
			account_label = excluded.account_label,
			occurrences = excluded.occurrences,
			confidence = excluded.confidence,
			last_used_at = excluded.last_used_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare pattern upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range patterns {
		key := p.Key()
		if _, err := stmt.ExecContext(ctx,
			key.Text, p.PatternText, key.AccountCode, p.AccountLabel,
			p.Occurrences, p.Confidence, p.LastUsedAt.UTC(),
		); err != nil {
			return fmt.Errorf("failed to save pattern %q: %w", p.PatternText, err)
		}
	}

	return tx.Commit()
}

// Close implements Backend.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
