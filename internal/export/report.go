package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/journal-sift/internal/common"
	"github.com/Veraticus/journal-sift/internal/model"
)

// TopCritical is how many critical entries the executive report lists.
const TopCritical = 10

// Keys the recommendations quote counts for.
const (
	weekendsKey   = "5.7_WeekendsHolidays"
	suspiciousKey = "5.10_SuspiciousAmounts"
)

var riskMarkers = map[model.RiskLevel]string{
	model.RiskHigh:   "🔴",
	model.RiskMedium: "🟡",
	model.RiskLow:    "🟢",
}

// ExecutiveReport renders the plain text summary handed to audit managers.
func ExecutiveReport(run *model.AuditRun, keys []string, generatedAt time.Time) string {
	stats := run.Stats
	var b strings.Builder

	b.WriteString("AUDIT EXECUTIVE REPORT\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	b.WriteString("GENERAL SUMMARY:\n")
	fmt.Fprintf(&b, "• Source: %s\n", run.Source)
	fmt.Fprintf(&b, "• Total entries analyzed: %s\n", common.FormatCount(stats.TotalEntries))
	fmt.Fprintf(&b, "• Material entries (>= $%s): %s (%s)\n",
		common.FormatMoney(run.Materiality), common.FormatCount(stats.MaterialEntries), common.FormatPercent(stats.MaterialPercent))
	fmt.Fprintf(&b, "• Entries matching multiple criteria: %s\n", common.FormatCount(stats.MultiCriteriaEntries))
	fmt.Fprintf(&b, "• High-risk entries: %s\n", common.FormatCount(stats.HighRiskEntries))
	fmt.Fprintf(&b, "• Critical entries identified: %s\n", common.FormatCount(stats.CriticalEntries))
	fmt.Fprintf(&b, "• Total material amount: $%s\n", common.FormatMoney(stats.MaterialAmount))

	b.WriteString("\nDISTRIBUTION BY AUDIT CRITERION:\n")
	for _, key := range keysByRisk(keys, stats) {
		cs := stats.Criteria[key]
		fmt.Fprintf(&b, "• %s %s: %d entries (%s)\n", riskMarkers[cs.Risk], displayName(key), cs.Count, common.FormatPercent(cs.Percent))
		fmt.Fprintf(&b, "  %s\n", cs.Description)
	}

	b.WriteString("\nCRITICAL ENTRIES IDENTIFIED:\n")
	fmt.Fprintf(&b, "• Total critical entries: %d\n", len(stats.Critical))
	if len(stats.Critical) > 0 {
		fmt.Fprintf(&b, "• Top %d most critical entries:\n", TopCritical)
		for i, r := range stats.Critical {
			if i == TopCritical {
				break
			}
			fmt.Fprintf(&b, "  %d. Entry %d (%s): $%15s - %d criteria\n",
				i+1, r.EntryID, r.Ref, common.FormatMoney(r.AbsoluteAmount), r.TotalMatched)
		}
	}

	if len(run.Irregularities) > 0 {
		b.WriteString("\nIRREGULARITIES DETECTED:\n")
		fmt.Fprintf(&b, "• Total irregularities: %d\n", len(run.Irregularities))
		for _, ic := range countIrregularities(run.Irregularities) {
			fmt.Fprintf(&b, "  • %s: %d irregularities\n", ic.key, ic.count)
		}
	}

	b.WriteString("\nRECOMMENDATIONS:\n")
	fmt.Fprintf(&b, "1. Review the %d critical entries in detail\n", len(stats.Critical))
	fmt.Fprintf(&b, "2. Evaluate the %d entries matching multiple criteria\n", stats.MultiCriteriaEntries)
	fmt.Fprintf(&b, "3. Verify postings on weekends and holidays (%d detected)\n", stats.Criteria[weekendsKey].Count)
	fmt.Fprintf(&b, "4. Investigate possible fraud in suspicious amounts (%d detected)\n", stats.Criteria[suspiciousKey].Count)

	fmt.Fprintf(&b, "\nGENERATED: %s\n", generatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "RUN: %s\n", run.ID)

	return b.String()
}

// keysByRisk puts high-risk criteria first, then orders by count; ties
// keep catalog order.
func keysByRisk(keys []string, stats model.AuditStatistics) []string {
	sorted := append([]string(nil), keys...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := stats.Criteria[sorted[i]], stats.Criteria[sorted[j]]
		aHigh, bHigh := a.Risk == model.RiskHigh, b.Risk == model.RiskHigh
		if aHigh != bHigh {
			return aHigh
		}
		return a.Count > b.Count
	})
	return sorted
}

type irregularityCount struct {
	key   string
	count int
}

// countIrregularities tallies records per criterion in order of first appearance.
func countIrregularities(records []model.IrregularityRecord) []irregularityCount {
	var counts []irregularityCount
	index := make(map[string]int)
	for _, rec := range records {
		i, ok := index[rec.CriterionKey]
		if !ok {
			i = len(counts)
			index[rec.CriterionKey] = i
			counts = append(counts, irregularityCount{key: rec.CriterionKey})
		}
		counts[i].count++
	}
	return counts
}
