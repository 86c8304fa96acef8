package audit

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/Veraticus/journal-sift/internal/calendar"
	"github.com/Veraticus/journal-sift/internal/common"
	"github.com/Veraticus/journal-sift/internal/model"
)

const (
	// roundAmountUnit is the figure whose exact multiples are suspicious.
	roundAmountUnit = 10000
	// balanceTolerance absorbs floating point noise between debit and credit.
	balanceTolerance = 0.01
)

var roundUnit = decimal.NewFromInt(roundAmountUnit)

// Evaluator applies every catalog criterion to single entries.
// It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	holidays    *calendar.Holidays
	catalog     Catalog
	materiality Materiality
}

// NewEvaluator creates an evaluator over the given catalog and holiday calendar.
func NewEvaluator(catalog Catalog, holidays *calendar.Holidays, materiality Materiality) *Evaluator {
	return &Evaluator{
		catalog:     catalog,
		holidays:    holidays,
		materiality: materiality,
	}
}

// Evaluate runs all criteria, in catalog order, against one entry. It also
// returns an irregularity for each matched high-risk criterion when the
// entry is material.
func (e *Evaluator) Evaluate(entry model.NormalizedEntry) (model.EvaluationResult, []model.IrregularityRecord) {
	result := model.EvaluationResult{
		EntryID:        entry.Raw.ID,
		Ref:            entry.Raw.Ref,
		Date:           entry.Date,
		DebitAmount:    entry.DebitAmount,
		CreditAmount:   entry.CreditAmount,
		AuditAmount:    entry.AuditAmount,
		AbsoluteAmount: entry.AbsoluteAmount,
		IsMaterial:     e.materiality.IsMaterial(entry.AbsoluteAmount),
		Flags:          make(map[string]int, len(e.catalog)),
		Details:        make(map[string]string),
	}

	var irregularities []model.IrregularityRecord
	summary := make([]string, 0, len(e.catalog))

	for _, crit := range e.catalog {
		matched, detail := e.apply(crit, entry)
		if !matched {
			result.Flags[crit.Key] = 0
			continue
		}

		result.Flags[crit.Key] = 1
		result.Details[crit.Key] = detail
		result.TotalMatched++
		summary = append(summary, crit.Key+": "+detail)

		if crit.Risk == model.RiskHigh && result.IsMaterial {
			irregularities = append(irregularities, model.IrregularityRecord{
				EntryID:      entry.Raw.ID,
				Ref:          entry.Raw.Ref,
				CriterionKey: crit.Key,
				Detail:       detail,
				Amount:       entry.AbsoluteAmount,
				RiskLevel:    crit.Risk,
			})
		}
	}

	if len(summary) == 0 {
		result.Summary = "None"
	} else {
		result.Summary = strings.Join(summary, " | ")
	}

	return result, irregularities
}

func (e *Evaluator) apply(crit model.Criterion, entry model.NormalizedEntry) (bool, string) {
	switch crit.Kind {
	case model.RuleKeyword:
		return matchKeywords(crit, entry.Raw)
	case model.RuleCalendar:
		return e.matchCalendar(entry.Date)
	case model.RuleRoundAmount:
		return matchRoundAmount(entry.AbsoluteAmount)
	case model.RuleBalance:
		return matchBalance(entry.DebitAmount, entry.CreditAmount)
	default:
		return false, ""
	}
}

// matchKeywords stops at the first keyword found, scanning columns in
// declared order and keywords in declared order within each column.
func matchKeywords(crit model.Criterion, raw model.RawEntry) (bool, string) {
	for _, column := range crit.Columns {
		v, ok := raw.Value(column)
		if !ok {
			continue
		}
		text := strings.ToLower(cast.ToString(v))
		for _, keyword := range crit.Keywords {
			if strings.Contains(text, strings.ToLower(keyword)) {
				return true, fmt.Sprintf("'%s' found in %s", keyword, column)
			}
		}
	}
	return false, ""
}

// matchCalendar flags weekend and holiday postings; a holiday detail
// replaces a weekend detail.
func (e *Evaluator) matchCalendar(date *time.Time) (bool, string) {
	if date == nil {
		return false, ""
	}

	matched := false
	detail := ""
	day := date.Format(calendar.DateLayout)

	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		matched = true
		detail = "Weekend: " + day
	}
	if e.holidays.Contains(*date) {
		matched = true
		detail = "Holiday: " + day
	}

	return matched, detail
}

func matchRoundAmount(absoluteAmount float64) (bool, string) {
	if absoluteAmount <= 0 {
		return false, ""
	}
	if !decimal.NewFromFloat(absoluteAmount).Mod(roundUnit).IsZero() {
		return false, ""
	}
	return true, fmt.Sprintf("Suspicious amount: $%s (multiple of 10,000)", common.FormatMoney(absoluteAmount))
}

func matchBalance(debit, credit float64) (bool, string) {
	if math.Abs(debit-credit) <= balanceTolerance {
		return false, ""
	}
	return true, fmt.Sprintf("Difference: Debit=$%s, Credit=$%s", common.FormatMoney(debit), common.FormatMoney(credit))
}
