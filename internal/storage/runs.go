package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/journal-sift/internal/common"
	"github.com/Veraticus/journal-sift/internal/model"
)

// SaveRun stores a run with all of its results and irregularities in a
// single transaction.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *model.AuditRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_runs WHERE id = ?`, run.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check run %s: %w", run.ID, err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: run %s", common.ErrDuplicateEntry, run.ID)
	}

	if err := s.saveRunHeaderTx(ctx, tx, run); err != nil {
		return err
	}
	if err := s.saveResultsTx(ctx, tx, run.ID, run.Results); err != nil {
		return err
	}
	if err := s.saveIrregularitiesTx(ctx, tx, run.ID, run.Irregularities); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", run.ID, err)
	}

	slog.Debug("Saved audit run",
		"run_id", run.ID,
		"results", len(run.Results),
		"irregularities", len(run.Irregularities))

	return nil
}

func (s *SQLiteStorage) saveRunHeaderTx(ctx context.Context, tx *sql.Tx, run *model.AuditRun) error {
	stats, err := json.Marshal(run.Stats)
	if err != nil {
		return fmt.Errorf("failed to encode statistics: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_runs (
			id, source, created_at, materiality, holiday_set,
			debit_column, credit_column, date_column, duration_ms,
			total_entries, material_entries, critical_entries, stats
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Source,
		run.CreatedAt.UTC(),
		run.Materiality,
		run.HolidaySet,
		run.Schema.Debit,
		run.Schema.Credit,
		run.Schema.Date,
		run.Duration.Milliseconds(),
		run.Stats.TotalEntries,
		run.Stats.MaterialEntries,
		run.Stats.CriticalEntries,
		string(stats),
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}

func (s *SQLiteStorage) saveResultsTx(ctx context.Context, tx *sql.Tx, runID string, results []model.EvaluationResult) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO audit_results (
			run_id, entry_id, ref, entry_date,
			debit_amount, credit_amount, audit_amount, absolute_amount,
			is_material, total_matched, flags, details, summary
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range results {
		flags, err := json.Marshal(r.Flags)
		if err != nil {
			return fmt.Errorf("failed to encode flags of entry %d: %w", r.EntryID, err)
		}
		details, err := json.Marshal(r.Details)
		if err != nil {
			return fmt.Errorf("failed to encode details of entry %d: %w", r.EntryID, err)
		}

		var date sql.NullTime
		if r.Date != nil {
			date = sql.NullTime{Time: *r.Date, Valid: true}
		}

		_, err = stmt.ExecContext(ctx,
			runID,
			int(r.EntryID),
			r.Ref,
			date,
			r.DebitAmount,
			r.CreditAmount,
			r.AuditAmount,
			r.AbsoluteAmount,
			r.IsMaterial,
			r.TotalMatched,
			string(flags),
			string(details),
			r.Summary,
		)
		if err != nil {
			return fmt.Errorf("failed to save result for entry %d: %w", r.EntryID, err)
		}
	}

	return nil
}

func (s *SQLiteStorage) saveIrregularitiesTx(ctx context.Context, tx *sql.Tx, runID string, records []model.IrregularityRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO irregularities (
			run_id, seq, entry_id, ref, criterion_key, detail, amount, risk_level
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for seq, rec := range records {
		_, err := stmt.ExecContext(ctx,
			runID,
			seq,
			int(rec.EntryID),
			rec.Ref,
			rec.CriterionKey,
			rec.Detail,
			rec.Amount,
			string(rec.RiskLevel),
		)
		if err != nil {
			return fmt.Errorf("failed to save irregularity %d: %w", seq, err)
		}
	}

	return nil
}

// ListRuns returns run headers, newest first. A limit of zero or less
// returns every run.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]model.AuditRunSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.source, r.created_at, r.materiality,
			r.total_entries, r.material_entries, r.critical_entries,
			(SELECT COUNT(*) FROM irregularities i WHERE i.run_id = r.id)
		FROM audit_runs r
		ORDER BY r.created_at DESC, r.id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.AuditRunSummary
	for rows.Next() {
		var sum model.AuditRunSummary
		if err := rows.Scan(
			&sum.ID,
			&sum.Source,
			&sum.CreatedAt,
			&sum.Materiality,
			&sum.TotalEntries,
			&sum.MaterialEntries,
			&sum.CriticalEntries,
			&sum.Irregularities,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, sum)
	}

	return runs, rows.Err()
}

// GetRun loads a complete run. It returns common.ErrNotFound for an
// unknown ID.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*model.AuditRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var (
		run        model.AuditRun
		stats      string
		durationMS int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, created_at, materiality, holiday_set,
			debit_column, credit_column, date_column, duration_ms, stats
		FROM audit_runs WHERE id = ?`, id).Scan(
		&run.ID,
		&run.Source,
		&run.CreatedAt,
		&run.Materiality,
		&run.HolidaySet,
		&run.Schema.Debit,
		&run.Schema.Credit,
		&run.Schema.Date,
		&durationMS,
		&stats,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(stats), &run.Stats); err != nil {
		return nil, fmt.Errorf("%w: statistics of run %s: %v", common.ErrDatabaseCorrupted, id, err)
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond

	if run.Results, err = s.getResults(ctx, id); err != nil {
		return nil, err
	}
	if run.Irregularities, err = s.getIrregularities(ctx, id); err != nil {
		return nil, err
	}

	return &run, nil
}

// GetResults returns the per-entry results of a run in entry order.
func (s *SQLiteStorage) GetResults(ctx context.Context, runID string) ([]model.EvaluationResult, error) {
	if err := s.checkRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.getResults(ctx, runID)
}

// GetIrregularities returns the irregularities of a run in the order the
// audit reported them.
func (s *SQLiteStorage) GetIrregularities(ctx context.Context, runID string) ([]model.IrregularityRecord, error) {
	if err := s.checkRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.getIrregularities(ctx, runID)
}

func (s *SQLiteStorage) checkRun(ctx context.Context, runID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(runID, "runID"); err != nil {
		return err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_runs WHERE id = ?`, runID).Scan(&count); err != nil {
		return fmt.Errorf("failed to check run %s: %w", runID, err)
	}
	if count == 0 {
		return fmt.Errorf("%w: run %s", common.ErrNotFound, runID)
	}
	return nil
}

func (s *SQLiteStorage) getResults(ctx context.Context, runID string) ([]model.EvaluationResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entry_id, ref, entry_date,
			debit_amount, credit_amount, audit_amount, absolute_amount,
			is_material, total_matched, flags, details, summary
		FROM audit_results
		WHERE run_id = ?
		ORDER BY entry_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := []model.EvaluationResult{}
	for rows.Next() {
		var (
			r              model.EvaluationResult
			entryID        int
			date           sql.NullTime
			flags, details string
		)
		if err := rows.Scan(
			&entryID,
			&r.Ref,
			&date,
			&r.DebitAmount,
			&r.CreditAmount,
			&r.AuditAmount,
			&r.AbsoluteAmount,
			&r.IsMaterial,
			&r.TotalMatched,
			&flags,
			&details,
			&r.Summary,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}

		r.EntryID = model.EntryID(entryID)
		if date.Valid {
			d := date.Time
			r.Date = &d
		}
		if err := json.Unmarshal([]byte(flags), &r.Flags); err != nil {
			return nil, fmt.Errorf("%w: flags of entry %d: %v", common.ErrDatabaseCorrupted, entryID, err)
		}
		if err := json.Unmarshal([]byte(details), &r.Details); err != nil {
			return nil, fmt.Errorf("%w: details of entry %d: %v", common.ErrDatabaseCorrupted, entryID, err)
		}

		results = append(results, r)
	}

	return results, rows.Err()
}

func (s *SQLiteStorage) getIrregularities(ctx context.Context, runID string) ([]model.IrregularityRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entry_id, ref, criterion_key, detail, amount, risk_level
		FROM irregularities
		WHERE run_id = ?
		ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query irregularities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []model.IrregularityRecord{}
	for rows.Next() {
		var (
			rec     model.IrregularityRecord
			entryID int
			risk    string
		)
		if err := rows.Scan(&entryID, &rec.Ref, &rec.CriterionKey, &rec.Detail, &rec.Amount, &risk); err != nil {
			return nil, fmt.Errorf("failed to scan irregularity: %w", err)
		}
		rec.EntryID = model.EntryID(entryID)
		rec.RiskLevel = model.RiskLevel(risk)
		records = append(records, rec)
	}

	return records, rows.Err()
}
