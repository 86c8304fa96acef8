package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cast"

	"github.com/Veraticus/journal-sift/internal/model"
)

// WriteCSV writes results under the same columns as the workbook result
// sheets. Pass run.Results for everything or run.Stats.Critical for the
// critical subset.
func WriteCSV(w io.Writer, results []model.EvaluationResult, keys []string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(resultHeaders(keys)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, 0, len(leadingResultHeaders)+len(keys)+len(trailingResultHeaders))
	for _, r := range results {
		record = record[:0]
		for _, v := range resultRow(r, keys) {
			record = append(record, csvValue(v))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv entry %d: %w", r.EntryID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteIrregularitiesCSV writes one line per irregularity.
func WriteIrregularitiesCSV(w io.Writer, records []model.IrregularityRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(irregularityHeaders); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, rec := range records {
		row := irregularityRow(rec)
		record := make([]string, len(row))
		for j, v := range row {
			record[j] = csvValue(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv irregularity %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// csvValue renders amounts with two decimals and everything else as text.
func csvValue(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', 2, 64)
	}
	return cast.ToString(v)
}
