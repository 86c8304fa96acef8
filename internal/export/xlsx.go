package export

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/journal-sift/internal/common"
	"github.com/Veraticus/journal-sift/internal/model"
)

// Sheet names of the exported workbook.
const (
	SheetResults        = "Detailed Results"
	SheetCritical       = "Critical Entries"
	SheetIrregularities = "Irregularities"
	SheetSummary        = "Executive Summary"
	SheetSource         = "Source Data"
)

// WriteXLSX writes the run as a workbook. Critical Entries and
// Irregularities are omitted when empty; Source Data is written only when
// source is not nil. keys orders the criterion columns.
func WriteXLSX(w io.Writer, run *model.AuditRun, keys []string, source *model.Table) error {
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Debug("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetResults); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headers := resultHeaders(keys)
	if err := writeResultSheet(f, SheetResults, headers, run.Results, keys); err != nil {
		return err
	}

	if len(run.Stats.Critical) > 0 {
		if err := writeResultSheet(f, SheetCritical, headers, run.Stats.Critical, keys); err != nil {
			return err
		}
	}

	if len(run.Irregularities) > 0 {
		rows := make([][]any, len(run.Irregularities))
		for i, rec := range run.Irregularities {
			rows[i] = irregularityRow(rec)
		}
		if err := writeSheet(f, SheetIrregularities, irregularityHeaders, rows); err != nil {
			return err
		}
		_ = f.SetColWidth(SheetIrregularities, "B", "C", 26)
		_ = f.SetColWidth(SheetIrregularities, "F", "F", 60)
	}

	if err := writeSummarySheet(f, run, keys); err != nil {
		return err
	}

	if source != nil {
		if err := writeSourceSheet(f, source); err != nil {
			return err
		}
	}

	index, _ := f.GetSheetIndex(SheetResults)
	f.SetActiveSheet(index)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}

	slog.Debug("Exported workbook",
		"run_id", run.ID,
		"rows", len(run.Results),
		"elapsed_ms", time.Since(start).Milliseconds())

	return nil
}

func writeResultSheet(f *excelize.File, sheet string, headers []string, results []model.EvaluationResult, keys []string) error {
	rows := make([][]any, len(results))
	for i, r := range results {
		rows[i] = resultRow(r, keys)
	}
	if err := writeSheet(f, sheet, headers, rows); err != nil {
		return err
	}

	_ = f.SetColWidth(sheet, "B", "B", 20) // ref
	_ = f.SetColWidth(sheet, "C", "C", 12) // date
	_ = f.SetColWidth(sheet, "D", "G", 16) // amounts
	last, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetColWidth(sheet, last, last, 80) // summary
	return nil
}

// writeSheet creates sheet if needed and writes a header row followed by rows.
func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %q: %w", sheet, err)
		}
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
		}
	}

	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, r+2, err)
		}
	}

	return nil
}

func writeSummarySheet(f *excelize.File, run *model.AuditRun, keys []string) error {
	stats := run.Stats
	rows := [][]any{
		{"Total Entries Analyzed", stats.TotalEntries},
		{"Material Entries", stats.MaterialEntries},
		{"Material Percentage", common.FormatPercent(stats.MaterialPercent)},
		{"Materiality Applied", "$" + common.FormatMoney(run.Materiality)},
		{"Multi-Criteria Entries", stats.MultiCriteriaEntries},
		{"High-Risk Entries", stats.HighRiskEntries},
		{"Critical Entries", stats.CriticalEntries},
		{"Total Material Amount", "$" + common.FormatMoney(stats.MaterialAmount)},
		{"Total Amount", "$" + common.FormatMoney(stats.TotalAmount)},
		{"Holiday Calendar", run.HolidaySet},
		{"Run ID", run.ID},
		{},
		{"CRITERION", "COUNT", "PERCENTAGE", "RISK LEVEL", "DESCRIPTION"},
	}

	for _, key := range keysByCount(keys, stats) {
		cs := stats.Criteria[key]
		rows = append(rows, []any{
			displayName(key),
			cs.Count,
			common.FormatPercent(cs.Percent),
			strings.ToUpper(string(cs.Risk)),
			cs.Description,
		})
	}

	if err := writeSheet(f, SheetSummary, []string{"PARAMETER", "VALUE"}, rows); err != nil {
		return err
	}
	_ = f.SetColWidth(SheetSummary, "A", "A", 28)
	_ = f.SetColWidth(SheetSummary, "B", "D", 16)
	_ = f.SetColWidth(SheetSummary, "E", "E", 70)
	return nil
}

func writeSourceSheet(f *excelize.File, table *model.Table) error {
	rows := make([][]any, len(table.Entries))
	for i, e := range table.Entries {
		row := make([]any, len(table.Columns))
		for j, col := range table.Columns {
			if v, ok := e.Value(col); ok {
				row[j] = v
			}
		}
		rows[i] = row
	}
	return writeSheet(f, SheetSource, table.Columns, rows)
}

// keysByCount orders criteria by match count, highest first; ties keep
// catalog order.
func keysByCount(keys []string, stats model.AuditStatistics) []string {
	sorted := append([]string(nil), keys...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return stats.Criteria[sorted[i]].Count > stats.Criteria[sorted[j]].Count
	})
	return sorted
}

// displayName turns "5.1_Payments" into "5.1 Payments".
func displayName(key string) string {
	return strings.Replace(key, "_", " ", 1)
}
