package audit

import (
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/Veraticus/journal-sift/internal/model"
)

// extraDateLayouts covers spreadsheet renderings that cast does not parse.
// Slash and dash dates are read month first.
var extraDateLayouts = []string{
	"2006/01/02",
	"2006/1/2",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-06",
	"01-02-2006",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04",
}

// Normalize derives amounts and dates for every entry, preserving order.
func Normalize(entries []model.RawEntry, schema model.Schema) []model.NormalizedEntry {
	out := make([]model.NormalizedEntry, len(entries))
	for i, raw := range entries {
		out[i] = NormalizeEntry(raw, schema)
	}
	return out
}

// NormalizeEntry derives the audit amounts and posting date for one entry.
// Unparsable amounts count as zero and unparsable dates as unknown.
func NormalizeEntry(raw model.RawEntry, schema model.Schema) model.NormalizedEntry {
	n := model.NormalizedEntry{Raw: raw}

	n.DebitAmount = coerceAmount(raw, schema.Debit)
	if schema.HasCredit() {
		n.CreditAmount = coerceAmount(raw, schema.Credit)
		n.AuditAmount = n.DebitAmount - n.CreditAmount
	} else {
		n.AuditAmount = n.DebitAmount
	}
	n.AbsoluteAmount = math.Abs(n.AuditAmount)

	if schema.HasDate() {
		if v, ok := raw.Value(schema.Date); ok {
			n.Date = parseDate(v)
		}
	}

	return n
}

func coerceAmount(raw model.RawEntry, column string) float64 {
	if column == "" {
		return 0
	}
	v, ok := raw.Value(column)
	if !ok {
		return 0
	}
	if s, isString := v.(string); isString {
		v = strings.TrimSpace(s)
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseDate(v any) *time.Time {
	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return nil
		}
		return &val
	case *time.Time:
		if val == nil || val.IsZero() {
			return nil
		}
		t := *val
		return &t
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil
		}
		if t, err := cast.StringToDate(s); err == nil {
			return &t
		}
		for _, layout := range extraDateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
	}
	return nil
}
