// Package storage persists audit runs, their per-entry results and their
// irregularities in SQLite.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/journal-sift/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidRun   = errors.New("invalid audit run")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRun checks a run is complete enough to be stored and read back.
func validateRun(run *model.AuditRun) error {
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidRun)
	}
	if strings.TrimSpace(run.Source) == "" {
		return fmt.Errorf("%w: missing source", ErrInvalidRun)
	}
	if run.Schema.Debit == "" {
		return fmt.Errorf("%w: missing debit column", ErrInvalidRun)
	}
	if run.Materiality <= 0 {
		return fmt.Errorf("%w: materiality must be positive", ErrInvalidRun)
	}
	if run.Stats.TotalEntries != len(run.Results) {
		return fmt.Errorf("%w: statistics cover %d entries but run has %d results",
			ErrInvalidRun, run.Stats.TotalEntries, len(run.Results))
	}

	seen := make(map[model.EntryID]bool, len(run.Results))
	for i, r := range run.Results {
		if seen[r.EntryID] {
			return fmt.Errorf("%w: result at index %d repeats entry %d", ErrInvalidRun, i, r.EntryID)
		}
		seen[r.EntryID] = true
	}
	for i, rec := range run.Irregularities {
		if !seen[rec.EntryID] {
			return fmt.Errorf("%w: irregularity at index %d references unknown entry %d", ErrInvalidRun, i, rec.EntryID)
		}
	}

	return nil
}
