package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/journal-sift/internal/audit"
	"github.com/Veraticus/journal-sift/internal/common"
	"github.com/Veraticus/journal-sift/internal/model"
)

// XLSXReader reads one worksheet of an Excel workbook. The first row holds
// the headers and every following non-blank row becomes an entry.
type XLSXReader struct {
	Sheet string
}

// Read loads the configured sheet. Cells are read unformatted so amounts
// keep full precision; serial dates in date columns become time values.
func (r *XLSXReader) Read(ctx context.Context, in io.Reader, source string) (*model.Table, error) {
	f, err := excelize.OpenReader(in, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", source, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Debug("Failed to close workbook", "source", source, "error", closeErr)
		}
	}()

	sheet, err := r.resolveSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q of %s is empty", common.ErrNoEntries, sheet, source)
	}

	columns := normalizeHeaders(rows[0])
	dateColumns := make(map[int]bool)
	for i, c := range columns {
		if isDateCandidate(c) {
			dateColumns[i] = true
		}
	}

	b := newRowBuilder(source, columns)
	for i, row := range rows[1:] {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if isBlankRow(row) {
			continue
		}

		cells := make([]any, len(row))
		for j, raw := range row {
			cells[j] = raw
			if dateColumns[j] {
				if t, ok := serialToTime(raw); ok {
					cells[j] = t
				}
			}
		}
		// Spreadsheet rows are 1-based and the header is row 1.
		b.add(i+2, cells)
	}

	slog.Debug("Read workbook",
		"source", source,
		"sheet", sheet,
		"entries", len(b.table.Entries))

	return b.table, nil
}

func (r *XLSXReader) resolveSheet(f *excelize.File) (string, error) {
	if r.Sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return "", fmt.Errorf("%w: workbook has no sheets", common.ErrNoEntries)
		}
		return sheets[0], nil
	}

	index, err := f.GetSheetIndex(r.Sheet)
	if err != nil || index == -1 {
		return "", fmt.Errorf("%w: sheet %q not found (available: %s)",
			common.ErrNotFound, r.Sheet, strings.Join(f.GetSheetList(), ", "))
	}
	return r.Sheet, nil
}

func isDateCandidate(column string) bool {
	for _, c := range audit.DateCandidates {
		if c == column {
			return true
		}
	}
	return false
}

// serialToTime converts an Excel serial day number to a time.
func serialToTime(raw string) (time.Time, bool) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || serial <= 0 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
