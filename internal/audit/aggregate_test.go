package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/journal-sift/internal/model"
)

func result(id int, matched int, abs float64, material bool, keys ...string) model.EvaluationResult {
	flags := make(map[string]int, CatalogSize)
	for _, k := range DefaultCatalog().Keys() {
		flags[k] = 0
	}
	for _, k := range keys {
		flags[k] = 1
	}
	return model.EvaluationResult{
		EntryID:        model.EntryID(id),
		TotalMatched:   matched,
		AbsoluteAmount: abs,
		IsMaterial:     material,
		Flags:          flags,
	}
}

func entryIDs(results []model.EvaluationResult) []model.EntryID {
	ids := make([]model.EntryID, len(results))
	for i, r := range results {
		ids[i] = r.EntryID
	}
	return ids
}

func TestAggregate(t *testing.T) {
	results := []model.EvaluationResult{
		result(0, 2, 500000, true, KeyPayments, KeyBalanceDifferences),
		result(1, 3, 200000, true, KeyPayments, KeySuspiciousAmounts, KeyBalanceDifferences),
		result(2, 1, 900000, true, KeyBalanceDifferences),
		result(3, 0, 800000, true),
		result(4, 4, 100, false, KeyPayments, KeyImports, KeyRelatedParties, KeyBalanceDifferences),
	}

	stats := Aggregate(results, DefaultCatalog())

	assert.Equal(t, 5, stats.TotalEntries)
	assert.Equal(t, 4, stats.MaterialEntries)
	assert.InDelta(t, 80.0, stats.MaterialPercent, 1e-9)
	assert.Equal(t, 3, stats.MultiCriteriaEntries)
	assert.Equal(t, 2, stats.HighRiskEntries)
	assert.Equal(t, 3, stats.CriticalEntries)
	assert.InDelta(t, 2400100.0, stats.TotalAmount, 1e-6)
	assert.InDelta(t, 2400000.0, stats.MaterialAmount, 1e-6)

	assert.Equal(t, []model.EntryID{1, 0, 2}, entryIDs(stats.Critical))

	require.Len(t, stats.Criteria, CatalogSize)
	assert.Equal(t, 3, stats.Criteria[KeyPayments].Count)
	assert.InDelta(t, 60.0, stats.Criteria[KeyPayments].Percent, 1e-9)
	assert.Equal(t, 4, stats.Criteria[KeyBalanceDifferences].Count)
	assert.Equal(t, 0, stats.Criteria[KeyInventoryWriteOffs].Count)
	assert.Equal(t, model.RiskHigh, stats.Criteria[KeyBalanceDifferences].Risk)
	assert.NotEmpty(t, stats.Criteria[KeyImports].Description)
}

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(nil, DefaultCatalog())

	assert.Equal(t, 0, stats.TotalEntries)
	assert.Equal(t, 0.0, stats.MaterialPercent)
	assert.NotNil(t, stats.Critical)
	assert.Empty(t, stats.Critical)
	require.Len(t, stats.Criteria, CatalogSize)
	for key, cs := range stats.Criteria {
		assert.Equal(t, 0, cs.Count, key)
		assert.Equal(t, 0.0, cs.Percent, key)
	}
}

func TestAggregate_OrderInsensitive(t *testing.T) {
	forward := []model.EvaluationResult{
		result(0, 2, 300000.10, true, KeyPayments, KeyBalanceDifferences),
		result(1, 2, 300000.10, true, KeyImports, KeyBalanceDifferences),
		result(2, 1, 0.20, false, KeyPayments),
		result(3, 1, 170000, true, KeyBalanceDifferences),
	}
	reversed := make([]model.EvaluationResult, len(forward))
	for i, r := range forward {
		reversed[len(forward)-1-i] = r
	}

	a := Aggregate(forward, DefaultCatalog())
	b := Aggregate(reversed, DefaultCatalog())

	assert.Equal(t, a, b)
	assert.Equal(t, []model.EntryID{0, 1, 3}, entryIDs(a.Critical), "ties break on entry ID")
}

func TestAggregate_Idempotent(t *testing.T) {
	results := []model.EvaluationResult{
		result(0, 1, 200000, true, KeyPayments),
		result(1, 2, 250000, true, KeyPayments, KeyImports),
	}

	first := Aggregate(results, DefaultCatalog())
	second := Aggregate(results, DefaultCatalog())

	assert.Equal(t, first, second)
	assert.Equal(t, []model.EntryID{0, 1}, entryIDs(results), "input is left untouched")
}

func TestRankCritical(t *testing.T) {
	entries := []model.EvaluationResult{
		result(5, 1, 1000, true),
		result(2, 3, 10, true),
		result(9, 3, 500, true),
		result(1, 1, 1000, true),
	}

	RankCritical(entries)

	assert.Equal(t, []model.EntryID{9, 2, 1, 5}, entryIDs(entries))
}
