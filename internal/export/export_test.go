package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/journal-sift/internal/audit"
	"github.com/Veraticus/journal-sift/internal/model"
	"github.com/Veraticus/journal-sift/internal/testutil/entries"
)

func sampleRun(t *testing.T) (*model.AuditRun, *model.Table) {
	t.Helper()
	engine, err := audit.NewEngine(audit.Options{Materiality: entries.SampleMateriality})
	require.NoError(t, err)
	table := entries.SampleJournal(t)
	run, err := engine.Run(context.Background(), table)
	require.NoError(t, err)
	return run, table
}

func readCSV(t *testing.T, data string) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteCSV(t *testing.T) {
	run, _ := sampleRun(t)
	keys := audit.DefaultCatalog().Keys()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, run.Results, keys))

	records := readCSV(t, buf.String())
	require.Len(t, records, 7)

	header := records[0]
	require.Len(t, header, 8+audit.CatalogSize+2)
	assert.Equal(t, "Entry ID", header[0])
	assert.Equal(t, audit.KeyPayments, header[8])
	assert.Equal(t, "Summary", header[len(header)-1])

	first := records[1]
	assert.Equal(t, []string{"0", "sample.xlsx:2", "2022-01-08", "250000.00", "50000.00", "200000.00", "200000.00", "Yes"}, first[:8])
	assert.Equal(t, "1", first[8], "payments flag")
	assert.Equal(t, "0", first[9], "collections flag")
	assert.Equal(t, "5", first[len(first)-2])
	assert.True(t, strings.HasPrefix(first[len(first)-1], "5.1_Payments: 'pago' found in Comentario | "))

	noDate := records[5]
	assert.Equal(t, "", noDate[2])
	assert.Equal(t, "No", noDate[7])
	assert.Equal(t, "None", noDate[len(noDate)-1])
}

func TestWriteCSV_Critical(t *testing.T) {
	run, _ := sampleRun(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, run.Stats.Critical, audit.DefaultCatalog().Keys()))

	records := readCSV(t, buf.String())
	require.Len(t, records, 5)
	ids := []string{records[1][0], records[2][0], records[3][0], records[4][0]}
	assert.Equal(t, []string{"0", "5", "1", "3"}, ids)
}

func TestWriteIrregularitiesCSV(t *testing.T) {
	run, _ := sampleRun(t)

	var buf bytes.Buffer
	require.NoError(t, WriteIrregularitiesCSV(&buf, run.Irregularities))

	records := readCSV(t, buf.String())
	require.Len(t, records, 10)
	assert.Equal(t, irregularityHeaders, records[0])
	assert.Equal(t, []string{"0", "sample.xlsx:2", audit.KeyWeekendsHolidays, "high", "200000.00", "Weekend: 2022-01-08"}, records[1])
}

func TestWriteXLSX(t *testing.T) {
	run, table := sampleRun(t)
	keys := audit.DefaultCatalog().Keys()

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, run, keys, table))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t,
		[]string{SheetResults, SheetCritical, SheetIrregularities, SheetSummary, SheetSource},
		f.GetSheetList())

	results, err := f.GetRows(SheetResults)
	require.NoError(t, err)
	require.Len(t, results, 7)
	assert.Equal(t, resultHeaders(keys), results[0])
	assert.Equal(t, "sample.xlsx:2", results[1][1])
	assert.Equal(t, "2022-01-08", results[1][2])

	critical, err := f.GetRows(SheetCritical)
	require.NoError(t, err)
	require.Len(t, critical, 5)
	assert.Equal(t, "5", critical[2][0])

	irregular, err := f.GetRows(SheetIrregularities)
	require.NoError(t, err)
	assert.Len(t, irregular, 10)

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"PARAMETER", "VALUE"}, summary[0])
	assert.Equal(t, []string{"Total Entries Analyzed", "6"}, summary[1])
	assert.Equal(t, []string{"Materiality Applied", "$170,000.00"}, summary[4])
	assert.Equal(t, "CRITERION", summary[13][0])
	assert.Equal(t, []string{"5.11 BalanceDifferences", "4", "66.7%", "HIGH", "Significant differences between debit and credit"}, summary[14])
	assert.Equal(t, "5.10 SuspiciousAmounts", summary[15][0])

	src, err := f.GetRows(SheetSource)
	require.NoError(t, err)
	require.Len(t, src, 7)
	assert.Equal(t, entries.SampleColumns(), src[0])
	assert.Equal(t, "Pago honorarios abogado", src[1][1])
}

func TestWriteXLSX_EmptyRun(t *testing.T) {
	engine, err := audit.NewEngine(audit.Options{})
	require.NoError(t, err)
	run, err := engine.Run(context.Background(), entries.NewBuilder(t, "Debit").Build())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, run, audit.DefaultCatalog().Keys(), nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetResults, SheetSummary}, f.GetSheetList())
}

func TestExecutiveReport(t *testing.T) {
	run, _ := sampleRun(t)
	generated := time.Date(2024, 5, 2, 14, 30, 0, 0, time.UTC)

	report := ExecutiveReport(run, audit.DefaultCatalog().Keys(), generated)

	for _, want := range []string{
		"AUDIT EXECUTIVE REPORT",
		"• Source: sample.xlsx",
		"• Total entries analyzed: 6",
		"• Material entries (>= $170,000.00): 4 (66.7%)",
		"• Entries matching multiple criteria: 4",
		"• Critical entries identified: 4",
		"• Total material amount: $1,080,000.50",
		"• 🔴 5.11 BalanceDifferences: 4 entries (66.7%)",
		"• 🟢 5.2 CollectionsSales: 1 entries (16.7%)",
		"• Total critical entries: 4",
		"1. Entry 0 (sample.xlsx:2): $",
		"- 5 criteria",
		"• Total irregularities: 9",
		"  • 5.7_WeekendsHolidays: 2 irregularities",
		"  • 5.11_BalanceDifferences: 4 irregularities",
		"3. Verify postings on weekends and holidays (2 detected)",
		"4. Investigate possible fraud in suspicious amounts (3 detected)",
		"GENERATED: 2024-05-02 14:30:00",
		"RUN: " + run.ID,
	} {
		assert.Contains(t, report, want)
	}

	// High-risk criteria come first, each group ordered by count.
	order := []string{"5.11 BalanceDifferences", "5.7 WeekendsHolidays", "5.3 Imports", "5.4 InventoryWriteOffs", "5.10 SuspiciousAmounts", "5.1 Payments"}
	last := -1
	for _, name := range order {
		i := strings.Index(report, name+":")
		require.GreaterOrEqual(t, i, 0, name)
		assert.Greater(t, i, last, "%s out of order", name)
		last = i
	}
}

func TestExecutiveReport_TopTen(t *testing.T) {
	builder := entries.NewBuilder(t, "Comment", "Debit")
	for i := 0; i < 12; i++ {
		builder.Row("Pago", float64(200000+i))
	}
	engine, err := audit.NewEngine(audit.Options{})
	require.NoError(t, err)
	run, err := engine.Run(context.Background(), builder.Build())
	require.NoError(t, err)
	require.Equal(t, 12, run.Stats.CriticalEntries)

	report := ExecutiveReport(run, audit.DefaultCatalog().Keys(), time.Now())

	assert.Contains(t, report, "10. Entry")
	assert.NotContains(t, report, "11. Entry")
}
