// Package service defines the interfaces the command layer depends on.
package service

import (
	"context"

	"github.com/Veraticus/journal-sift/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Run operations
	SaveRun(ctx context.Context, run *model.AuditRun) error
	ListRuns(ctx context.Context, limit int) ([]model.AuditRunSummary, error)
	GetRun(ctx context.Context, id string) (*model.AuditRun, error)
	GetResults(ctx context.Context, runID string) ([]model.EvaluationResult, error)
	GetIrregularities(ctx context.Context, runID string) ([]model.IrregularityRecord, error)

	// Schema management
	Migrate(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int, error)

	Close() error
}
