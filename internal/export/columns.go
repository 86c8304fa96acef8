// Package export writes audit runs out as Excel workbooks, CSV files and
// plain text executive reports.
package export

import (
	"github.com/Veraticus/journal-sift/internal/calendar"
	"github.com/Veraticus/journal-sift/internal/model"
)

// Fixed result columns; criterion flag columns follow "Material".
var (
	leadingResultHeaders  = []string{"Entry ID", "Ref", "Date", "Debit", "Credit", "Audit Amount", "Absolute Amount", "Material"}
	trailingResultHeaders = []string{"Total Criteria", "Summary"}
	irregularityHeaders   = []string{"Entry ID", "Ref", "Criterion", "Risk", "Amount", "Detail"}
)

// resultHeaders returns the header row for result tables.
func resultHeaders(keys []string) []string {
	headers := make([]string, 0, len(leadingResultHeaders)+len(keys)+len(trailingResultHeaders))
	headers = append(headers, leadingResultHeaders...)
	headers = append(headers, keys...)
	return append(headers, trailingResultHeaders...)
}

// resultRow lays one result out under resultHeaders.
func resultRow(r model.EvaluationResult, keys []string) []any {
	row := make([]any, 0, len(leadingResultHeaders)+len(keys)+len(trailingResultHeaders))

	date := ""
	if r.Date != nil {
		date = r.Date.Format(calendar.DateLayout)
	}

	row = append(row,
		int(r.EntryID),
		r.Ref,
		date,
		r.DebitAmount,
		r.CreditAmount,
		r.AuditAmount,
		r.AbsoluteAmount,
		yesNo(r.IsMaterial),
	)
	for _, k := range keys {
		row = append(row, r.Flags[k])
	}
	return append(row, r.TotalMatched, r.Summary)
}

func irregularityRow(rec model.IrregularityRecord) []any {
	return []any{
		int(rec.EntryID),
		rec.Ref,
		rec.CriterionKey,
		string(rec.RiskLevel),
		rec.Amount,
		rec.Detail,
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
