package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Audit runs and per-entry results",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS audit_runs (
					id TEXT PRIMARY KEY,
					source TEXT NOT NULL,
					created_at DATETIME NOT NULL,
					materiality REAL NOT NULL,
					holiday_set TEXT NOT NULL DEFAULT '',
					debit_column TEXT NOT NULL,
					credit_column TEXT NOT NULL DEFAULT '',
					date_column TEXT NOT NULL DEFAULT '',
					duration_ms INTEGER NOT NULL DEFAULT 0,
					total_entries INTEGER NOT NULL,
					material_entries INTEGER NOT NULL,
					critical_entries INTEGER NOT NULL,
					stats TEXT NOT NULL
				)`,
				`CREATE INDEX idx_audit_runs_created ON audit_runs(created_at)`,

				`CREATE TABLE IF NOT EXISTS audit_results (
					run_id TEXT NOT NULL,
					entry_id INTEGER NOT NULL,
					ref TEXT NOT NULL DEFAULT '',
					entry_date DATETIME,
					debit_amount REAL NOT NULL,
					credit_amount REAL NOT NULL,
					audit_amount REAL NOT NULL,
					absolute_amount REAL NOT NULL,
					is_material INTEGER NOT NULL,
					total_matched INTEGER NOT NULL,
					flags TEXT NOT NULL,
					details TEXT NOT NULL,
					summary TEXT NOT NULL,
					PRIMARY KEY (run_id, entry_id),
					FOREIGN KEY (run_id) REFERENCES audit_runs(id) ON DELETE CASCADE
				)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Irregularities of material high-risk matches",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS irregularities (
					run_id TEXT NOT NULL,
					seq INTEGER NOT NULL,
					entry_id INTEGER NOT NULL,
					ref TEXT NOT NULL DEFAULT '',
					criterion_key TEXT NOT NULL,
					detail TEXT NOT NULL,
					amount REAL NOT NULL,
					risk_level TEXT NOT NULL,
					PRIMARY KEY (run_id, seq),
					FOREIGN KEY (run_id) REFERENCES audit_runs(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_irregularities_criterion ON irregularities(run_id, criterion_key)`,
			)
		},
	},
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Migrate brings the schema up to ExpectedSchemaVersion, one transaction
// per migration.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
