package learning

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// SchemaVersion is the pattern database version this build expects.
const SchemaVersion = 2

type migration struct {
	up          func(*sql.Tx) error
	description string
	version     int
}

var migrations = []migration{
	{
		version:     1,
		description: "Create learning_patterns",
		up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE TABLE IF NOT EXISTS learning_patterns (
				pattern_key   TEXT NOT NULL,
				pattern_text  TEXT NOT NULL,
				account_code  TEXT NOT NULL,
				account_label TEXT NOT NULL DEFAULT '',
				occurrences   INTEGER NOT NULL DEFAULT 1,
				confidence    REAL NOT NULL,
				last_used_at  DATETIME NOT NULL,
				PRIMARY KEY (pattern_key, account_code)
			)`)
			return err
		},
	},
	{
		version:     2,
		description: "Index patterns by account",
		up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_learning_patterns_account
				ON learning_patterns(account_code)`)
			return err
		},
	},
}

// migrate brings the schema up to SchemaVersion, one transaction per step.
func (b *SQLiteBackend) migrate(ctx context.Context) error {
	var current int
	if err := b.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := b.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		if err := m.up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}

		slog.Debug("applied pattern store migration",
			"version", m.version,
			"description", m.description)
	}

	var final int
	if err := b.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&final); err != nil {
		return fmt.Errorf("failed to verify schema version: %w", err)
	}
	if final != SchemaVersion {
		return fmt.Errorf("pattern database schema mismatch: expected %d, got %d", SchemaVersion, final)
	}
	return nil
}
