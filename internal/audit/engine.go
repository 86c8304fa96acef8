// Package audit implements the journal entry audit pipeline: schema
// resolution, normalization, criterion evaluation, materiality and
// aggregation.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/journal-sift/internal/calendar"
	"github.com/Veraticus/journal-sift/internal/common"
	"github.com/Veraticus/journal-sift/internal/model"
)

// DefaultWorkers is the evaluation parallelism used when none is configured.
const DefaultWorkers = 4

// Progress receives one tick per evaluated entry.
type Progress interface {
	Add(n int) error
}

// Options configures an audit engine.
type Options struct {
	Holidays    *calendar.Holidays // Defaults to calendar.Default()
	Progress    Progress           // Optional
	Catalog     Catalog            // Defaults to DefaultCatalog()
	Materiality float64            // Defaults to DefaultMateriality
	Workers     int                // Defaults to DefaultWorkers
}

// Engine runs complete audits over loaded tables.
type Engine struct {
	holidays  *calendar.Holidays
	progress  Progress
	evaluator *Evaluator
	catalog   Catalog
	threshold Materiality
	workers   int
}

// NewEngine validates options and builds an engine.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Catalog == nil {
		opts.Catalog = DefaultCatalog()
	}
	if err := opts.Catalog.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	if opts.Holidays == nil {
		opts.Holidays = calendar.Default()
	}
	if opts.Materiality == 0 {
		opts.Materiality = DefaultMateriality
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}

	threshold, err := NewMateriality(opts.Materiality)
	if err != nil {
		return nil, err
	}

	return &Engine{
		catalog:   opts.Catalog,
		holidays:  opts.Holidays,
		threshold: threshold,
		workers:   opts.Workers,
		progress:  opts.Progress,
		evaluator: NewEvaluator(opts.Catalog, opts.Holidays, threshold),
	}, nil
}

// Catalog returns the criteria this engine evaluates.
func (e *Engine) Catalog() Catalog {
	return e.catalog
}

// Run audits every entry of the table. It either returns a complete run or
// an error; a missing debit column is the only input that fails a run.
func (e *Engine) Run(ctx context.Context, table *model.Table) (*model.AuditRun, error) {
	start := time.Now()

	schema, err := ResolveSchema(table.Columns)
	if err != nil {
		return nil, err
	}

	slog.Info("Resolved audit columns",
		"source", table.Source,
		"debit", schema.Debit,
		"credit", schema.Credit,
		"date", schema.Date)
	if !schema.HasDate() {
		slog.Warn("No date column found, weekend and holiday criterion disabled",
			"tried", DateCandidates)
	}

	normalized := Normalize(table.Entries, schema)

	results, irregularities, err := e.evaluateParallel(ctx, normalized)
	if err != nil {
		return nil, err
	}

	stats := Aggregate(results, e.catalog)

	run := &model.AuditRun{
		ID:             uuid.New().String(),
		CreatedAt:      start.UTC(),
		Source:         table.Source,
		HolidaySet:     e.holidays.Version,
		Schema:         schema,
		Materiality:    e.threshold.Threshold,
		Results:        results,
		Irregularities: irregularities,
		Stats:          stats,
		Duration:       time.Since(start),
	}

	slog.Info("Audit complete",
		"run_id", run.ID,
		"entries", stats.TotalEntries,
		"material", stats.MaterialEntries,
		"critical", stats.CriticalEntries,
		"irregularities", len(irregularities),
		"duration", run.Duration)

	return run, nil
}

// evaluateParallel fans entries out to workers. Each worker writes only the
// slots of the entries it took, so results keep input order.
func (e *Engine) evaluateParallel(
	ctx context.Context,
	entries []model.NormalizedEntry,
) ([]model.EvaluationResult, []model.IrregularityRecord, error) {
	results := make([]model.EvaluationResult, len(entries))
	perEntry := make([][]model.IrregularityRecord, len(entries))

	workChan := make(chan int, len(entries))
	for i := range entries {
		workChan <- i
	}
	close(workChan)

	workers := e.workers
	if workers > len(entries) {
		workers = len(entries)
	}

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func(workerID int) {
			defer wg.Done()
			e.evaluateWorker(ctx, workerID, workChan, entries, results, perEntry)
		}(w)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var irregularities []model.IrregularityRecord
	for _, recs := range perEntry {
		irregularities = append(irregularities, recs...)
	}
	if irregularities == nil {
		irregularities = []model.IrregularityRecord{}
	}

	return results, irregularities, nil
}

func (e *Engine) evaluateWorker(
	ctx context.Context,
	workerID int,
	workChan <-chan int,
	entries []model.NormalizedEntry,
	results []model.EvaluationResult,
	perEntry [][]model.IrregularityRecord,
) {
	evaluated := 0
	for i := range workChan {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results[i], perEntry[i] = e.evaluator.Evaluate(entries[i])
		evaluated++

		if e.progress != nil {
			if err := e.progress.Add(1); err != nil {
				slog.Debug("Failed to update progress", "error", err)
			}
		}
	}

	slog.Debug("worker finished", "worker_id", workerID, "evaluated", evaluated)
}
