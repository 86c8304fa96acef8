package audit

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/journal-sift/internal/model"
)

// Aggregate computes corpus-wide statistics and the ranked critical entries.
// It does not depend on the order of results and does not modify them.
func Aggregate(results []model.EvaluationResult, catalog Catalog) model.AuditStatistics {
	stats := model.AuditStatistics{
		TotalEntries: len(results),
		Criteria:     make(map[string]model.CriterionStat, len(catalog)),
		Critical:     []model.EvaluationResult{},
	}

	// Decimal sums keep the totals exact whatever order results come in.
	total, material := decimal.Zero, decimal.Zero
	counts := make(map[string]int, len(catalog))
	for _, r := range results {
		amount := decimal.NewFromFloat(r.AbsoluteAmount)
		total = total.Add(amount)

		if r.IsMaterial {
			stats.MaterialEntries++
			material = material.Add(amount)
		}
		if r.TotalMatched > 1 {
			stats.MultiCriteriaEntries++
		}
		if r.IsMaterial && r.TotalMatched >= 2 {
			stats.HighRiskEntries++
		}
		if r.IsMaterial && r.TotalMatched > 0 {
			stats.Critical = append(stats.Critical, r)
		}

		for _, crit := range catalog {
			counts[crit.Key] += r.Flags[crit.Key]
		}
	}

	stats.TotalAmount = total.InexactFloat64()
	stats.MaterialAmount = material.InexactFloat64()
	stats.MaterialPercent = percent(stats.MaterialEntries, stats.TotalEntries)
	for _, crit := range catalog {
		stats.Criteria[crit.Key] = model.CriterionStat{
			Count:       counts[crit.Key],
			Percent:     percent(counts[crit.Key], stats.TotalEntries),
			Description: crit.Description,
			Risk:        crit.Risk,
		}
	}

	RankCritical(stats.Critical)
	stats.CriticalEntries = len(stats.Critical)

	return stats
}

// RankCritical orders entries by criteria matched, then absolute amount,
// both descending. Equal keys fall back to entry ID so the order never
// depends on how results arrived.
func RankCritical(entries []model.EvaluationResult) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.TotalMatched != b.TotalMatched {
			return a.TotalMatched > b.TotalMatched
		}
		if a.AbsoluteAmount != b.AbsoluteAmount {
			return a.AbsoluteAmount > b.AbsoluteAmount
		}
		return a.EntryID < b.EntryID
	})
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
