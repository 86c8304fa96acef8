package audit

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/journal-sift/internal/model"
)

func rawEntry(values map[string]any) model.RawEntry {
	return model.RawEntry{ID: 0, Ref: "test:2", Values: values}
}

func TestNormalizeEntry_Amounts(t *testing.T) {
	withCredit := model.Schema{Debit: "Debit", Credit: "Credit", Date: "Date"}
	debitOnly := model.Schema{Debit: "Amount"}

	tests := []struct {
		values    map[string]any
		name      string
		schema    model.Schema
		wantDebit float64
		wantCred  float64
		wantAudit float64
		wantAbs   float64
	}{
		{
			name:      "debit minus credit",
			schema:    withCredit,
			values:    map[string]any{"Debit": 100.0, "Credit": 90.0},
			wantDebit: 100, wantCred: 90, wantAudit: 10, wantAbs: 10,
		},
		{
			name:      "credit heavier gives negative audit amount",
			schema:    withCredit,
			values:    map[string]any{"Debit": "50", "Credit": "80"},
			wantDebit: 50, wantCred: 80, wantAudit: -30, wantAbs: 30,
		},
		{
			name:      "no credit column uses debit alone",
			schema:    debitOnly,
			values:    map[string]any{"Amount": -2500.0},
			wantDebit: -2500, wantAudit: -2500, wantAbs: 2500,
		},
		{
			name:      "non numeric debit coerces to zero",
			schema:    withCredit,
			values:    map[string]any{"Debit": "abc", "Credit": 10.0},
			wantDebit: 0, wantCred: 10, wantAudit: -10, wantAbs: 10,
		},
		{
			name:      "thousands separators are not numbers",
			schema:    debitOnly,
			values:    map[string]any{"Amount": "1,000"},
			wantDebit: 0, wantAudit: 0, wantAbs: 0,
		},
		{
			name:      "surrounding whitespace is tolerated",
			schema:    debitOnly,
			values:    map[string]any{"Amount": " 100.25 "},
			wantDebit: 100.25, wantAudit: 100.25, wantAbs: 100.25,
		},
		{
			name:      "missing cells are zero",
			schema:    withCredit,
			values:    map[string]any{},
			wantDebit: 0, wantCred: 0, wantAudit: 0, wantAbs: 0,
		},
		{
			name:      "NaN is zero",
			schema:    debitOnly,
			values:    map[string]any{"Amount": "NaN"},
			wantDebit: 0, wantAudit: 0, wantAbs: 0,
		},
		{
			name:      "integer cells",
			schema:    withCredit,
			values:    map[string]any{"Debit": 20000, "Credit": int64(0)},
			wantDebit: 20000, wantCred: 0, wantAudit: 20000, wantAbs: 20000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got model.NormalizedEntry
			require.NotPanics(t, func() {
				got = NormalizeEntry(rawEntry(tt.values), tt.schema)
			})
			assert.Equal(t, tt.wantDebit, got.DebitAmount)
			assert.Equal(t, tt.wantCred, got.CreditAmount)
			assert.Equal(t, tt.wantAudit, got.AuditAmount)
			assert.Equal(t, tt.wantAbs, got.AbsoluteAmount)
			assert.False(t, math.Signbit(got.AbsoluteAmount))
		})
	}
}

func TestNormalizeEntry_Dates(t *testing.T) {
	schema := model.Schema{Debit: "Debit", Date: "Date"}
	saturday := time.Date(2022, 1, 8, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		value any
		want  *time.Time
		name  string
	}{
		{name: "iso date", value: "2022-01-08", want: &saturday},
		{name: "iso datetime", value: "2022-01-08 00:00:00", want: &saturday},
		{name: "rfc3339", value: "2022-01-08T00:00:00Z", want: &saturday},
		{name: "month first slashes", value: "01/08/2022", want: &saturday},
		{name: "short month first", value: "1/8/22", want: &saturday},
		{name: "spreadsheet dashes", value: "01-08-22", want: &saturday},
		{name: "slashed iso", value: "2022/01/08", want: &saturday},
		{name: "time value", value: saturday, want: &saturday},
		{name: "garbage", value: "sin fecha", want: nil},
		{name: "number", value: 44569.0, want: nil},
		{name: "blank", value: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeEntry(rawEntry(map[string]any{"Date": tt.value, "Debit": 1.0}), schema)
			if tt.want == nil {
				assert.Nil(t, got.Date)
				return
			}
			require.NotNil(t, got.Date)
			assert.Equal(t, tt.want.Format("2006-01-02"), got.Date.Format("2006-01-02"))
		})
	}
}

func TestNormalizeEntry_NoDateColumn(t *testing.T) {
	got := NormalizeEntry(rawEntry(map[string]any{"Date": "2022-01-08", "Debit": 1.0}), model.Schema{Debit: "Debit"})
	assert.Nil(t, got.Date, "date is only read from the resolved column")
}

func TestNormalize_PreservesOrder(t *testing.T) {
	entries := []model.RawEntry{
		{ID: 7, Values: map[string]any{"Debit": 1.0}},
		{ID: 3, Values: map[string]any{"Debit": 2.0}},
		{ID: 5, Values: map[string]any{"Debit": 3.0}},
	}

	got := Normalize(entries, model.Schema{Debit: "Debit"})
	require.Len(t, got, 3)
	for i, n := range got {
		assert.Equal(t, entries[i].ID, n.Raw.ID)
		assert.Equal(t, float64(i+1), n.DebitAmount)
	}
}
