package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Veraticus/journal-sift/internal/common"
	"github.com/Veraticus/journal-sift/internal/model"
)

// maxCriticalRows caps the critical entries listed in a run summary.
const maxCriticalRows = 5

// RenderRunSummary renders the outcome of an audit run for the terminal.
func RenderRunSummary(run *model.AuditRun, criteria []model.Criterion) string {
	stats := run.Stats

	var b strings.Builder
	fmt.Fprintf(&b, "Source:          %s\n", run.Source)
	fmt.Fprintf(&b, "Materiality:     $%s\n", common.FormatMoney(run.Materiality))
	fmt.Fprintf(&b, "Total entries:   %s\n", common.FormatCount(stats.TotalEntries))
	fmt.Fprintf(&b, "Material:        %s (%s)\n",
		common.FormatCount(stats.MaterialEntries), common.FormatPercent(stats.MaterialPercent))
	fmt.Fprintf(&b, "Multi-criteria:  %s\n", common.FormatCount(stats.MultiCriteriaEntries))
	fmt.Fprintf(&b, "High risk:       %s\n", common.FormatCount(stats.HighRiskEntries))
	fmt.Fprintf(&b, "Critical:        %s\n", common.FormatCount(stats.CriticalEntries))
	fmt.Fprintf(&b, "Irregularities:  %s\n", common.FormatCount(len(run.Irregularities)))
	fmt.Fprintf(&b, "Total amount:    $%s\n", common.FormatMoney(stats.TotalAmount))
	fmt.Fprintf(&b, "Material amount: $%s", common.FormatMoney(stats.MaterialAmount))
	if !run.Schema.HasDate() {
		b.WriteString("\n" + FormatWarning("No date column found; weekend and holiday checks were skipped"))
	}

	sections := []string{
		RenderBox(ChartIcon+" Audit Summary", b.String()),
		RenderCriteriaStats(stats, criteria),
	}
	if len(stats.Critical) > 0 {
		sections = append(sections, renderCritical(stats.Critical))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RenderCriteriaStats renders per-criterion match counts in catalog order.
func RenderCriteriaStats(stats model.AuditStatistics, criteria []model.Criterion) string {
	rows := make([][]string, 0, len(criteria))
	for _, crit := range criteria {
		cs := stats.Criteria[crit.Key]
		rows = append(rows, []string{
			crit.Key,
			FormatRisk(crit.Risk),
			common.FormatCount(cs.Count),
			common.FormatPercent(cs.Percent),
		})
	}
	return renderTable([]string{"Criterion", "Risk", "Matches", "Share"}, rows)
}

// RenderCatalog renders the criteria catalog with descriptions.
func RenderCatalog(criteria []model.Criterion) string {
	rows := make([][]string, 0, len(criteria))
	for _, crit := range criteria {
		rows = append(rows, []string{
			crit.Key,
			FormatRisk(crit.Risk),
			string(crit.Kind),
			crit.Description,
		})
	}
	return renderTable([]string{"Criterion", "Risk", "Rule", "Description"}, rows)
}

// RenderHistory renders stored run headers, newest first as given.
func RenderHistory(runs []model.AuditRunSummary, now time.Time) string {
	if len(runs) == 0 {
		return FormatInfo("No audit runs recorded yet")
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID,
			humanize.RelTime(r.CreatedAt, now, "ago", "from now"),
			r.Source,
			common.FormatCount(r.TotalEntries),
			common.FormatCount(r.MaterialEntries),
			common.FormatCount(r.CriticalEntries),
			common.FormatCount(r.Irregularities),
		})
	}
	return renderTable([]string{"Run", "When", "Source", "Entries", "Material", "Critical", "Irregular"}, rows)
}

func renderCritical(critical []model.EvaluationResult) string {
	limit := len(critical)
	if limit > maxCriticalRows {
		limit = maxCriticalRows
	}

	rows := make([][]string, 0, limit)
	for _, r := range critical[:limit] {
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.EntryID),
			r.Ref,
			"$" + common.FormatMoney(r.AbsoluteAmount),
			fmt.Sprintf("%d", r.TotalMatched),
		})
	}

	title := BoldStyle.Render(CriticalIcon + " Critical entries")
	if len(critical) > limit {
		title += SubtleStyle.Render(fmt.Sprintf(" (top %d of %d)", limit, len(critical)))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		title,
		renderTable([]string{"Entry", "Ref", "Amount", "Criteria"}, rows),
	)
}

// renderTable lays out rows in padded columns sized by their widest cell.
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = TableCellStyle.Width(widths[i] + 2).Render(h)
	}
	lines := []string{TableHeaderStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, cells...))}

	for _, row := range rows {
		for i, cell := range row {
			cells[i] = TableCellStyle.Width(widths[i] + 2).Render(cell)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
