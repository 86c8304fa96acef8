// Package testutil provides shared test helpers for the sift packages.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/journal-sift/internal/model"
	"github.com/Veraticus/journal-sift/internal/storage"
)

// SetupTestDB creates a migrated in-memory database that is closed when
// the test ends.
//
// Example:
//
//	store := testutil.SetupTestDB(t)
//	testutil.SeedRuns(t, store, run)
func SetupTestDB(t testing.TB) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// SeedRuns saves each run or fails the test.
func SeedRuns(t testing.TB, store *storage.SQLiteStorage, runs ...*model.AuditRun) {
	t.Helper()

	for _, run := range runs {
		if err := store.SaveRun(context.Background(), run); err != nil {
			t.Fatalf("failed to seed run %s: %v", run.ID, err)
		}
	}
}
