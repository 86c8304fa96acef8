package storage_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/journal-sift/internal/audit"
	"github.com/Veraticus/journal-sift/internal/export"
	"github.com/Veraticus/journal-sift/internal/model"
	"github.com/Veraticus/journal-sift/internal/service"
	"github.com/Veraticus/journal-sift/internal/storage"
	"github.com/Veraticus/journal-sift/internal/testutil"
	"github.com/Veraticus/journal-sift/internal/testutil/entries"
)

var _ service.Storage = (*storage.SQLiteStorage)(nil)

func auditSample(t *testing.T, source string) *model.AuditRun {
	t.Helper()
	engine, err := audit.NewEngine(audit.Options{Materiality: entries.SampleMateriality})
	require.NoError(t, err)
	table := entries.SampleJournal(t)
	table.Source = source
	run, err := engine.Run(context.Background(), table)
	require.NoError(t, err)
	return run
}

func TestStoredRunExportsLikeLiveRun(t *testing.T) {
	store := testutil.SetupTestDB(t)
	run := auditSample(t, "january.xlsx")
	testutil.SeedRuns(t, store, run)

	var svc service.Storage = store
	stored, err := svc.GetRun(context.Background(), run.ID)
	require.NoError(t, err)

	keys := audit.DefaultCatalog().Keys()
	var live, replay bytes.Buffer
	require.NoError(t, export.WriteCSV(&live, run.Results, keys))
	require.NoError(t, export.WriteCSV(&replay, stored.Results, keys))
	assert.Equal(t, live.String(), replay.String())

	live.Reset()
	replay.Reset()
	require.NoError(t, export.WriteCSV(&live, run.Stats.Critical, keys))
	require.NoError(t, export.WriteCSV(&replay, stored.Stats.Critical, keys))
	assert.Equal(t, live.String(), replay.String())
}

func TestListRunsAcrossSources(t *testing.T) {
	store := testutil.SetupTestDB(t)
	first := auditSample(t, "january.xlsx")
	second := auditSample(t, "february.csv")
	second.CreatedAt = first.CreatedAt.Add(time.Minute)
	testutil.SeedRuns(t, store, first, second)

	runs, err := store.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "february.csv", runs[0].Source)
	assert.Equal(t, "january.xlsx", runs[1].Source)
	for _, r := range runs {
		assert.Equal(t, 9, r.Irregularities)
		assert.Equal(t, 4, r.CriticalEntries)
	}
}
