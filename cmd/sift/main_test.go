package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/journal-sift/internal/common"
)

const sampleCSV = `Fecha,Comentario,Cuenta,Debe,Haber
2022-01-08,Pago honorarios abogado,Gastos legales,250000,50000
2022-03-02,Importación mercadería,Compras del exterior,300000,0
2022-03-03,Cobro factura 123,Clientes,1500,1500
2022-12-25,Ajuste de cierre,Resultados,180000.5,0
sin fecha,Registro manual,Caja,n/a,
2022-06-01,Depósito compañía afiliada,Bancos,400000,0
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestAuditHistoryShow(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	input := filepath.Join(dir, "libro.csv")
	require.NoError(t, os.WriteFile(input, []byte(sampleCSV), 0o600))
	db := filepath.Join(dir, "sift.db")
	workbook := filepath.Join(dir, "results.xlsx")
	report := filepath.Join(dir, "report.txt")

	out, err := execute(t, "audit", input,
		"--db", db,
		"--materiality", "170000",
		"--no-progress",
		"--xlsx", workbook,
		"--report", report)
	require.NoError(t, err)

	assert.Contains(t, out, "Audit of libro.csv")
	assert.Contains(t, out, "Total entries:   6")
	assert.Contains(t, out, "Irregularities:  9")

	f, err := excelize.OpenFile(workbook)
	require.NoError(t, err)
	assert.Contains(t, f.GetSheetList(), "Source Data")
	require.NoError(t, f.Close())

	text, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(text), "IRREGULARITIES DETECTED")

	match := regexp.MustCompile(`Run saved as ([0-9a-f-]{36})`).FindStringSubmatch(out)
	require.Len(t, match, 2, out)
	runID := match[1]

	out, err = execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, runID)
	assert.Contains(t, out, "libro.csv")

	irregular := filepath.Join(dir, "irregularities.csv")
	out, err = execute(t, "show", runID, "--db", db, "--irregularities-csv", irregular)
	require.NoError(t, err)
	assert.Contains(t, out, "Audit run "+runID)
	assert.Contains(t, out, "2022-EC")
	_, err = os.Stat(irregular)
	assert.NoError(t, err)

	_, err = execute(t, "show", "no-such-run", "--db", db)
	require.Error(t, err)
	assert.True(t, common.IsUserError(err))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAudit_MissingFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	_, err := execute(t, "audit", filepath.Join(dir, "missing.csv"), "--db", filepath.Join(dir, "sift.db"), "--no-save")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "File not found")
}

func TestCriteriaCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := execute(t, "criteria")
	require.NoError(t, err)
	assert.Contains(t, out, "Audit Criteria")
	assert.Contains(t, out, "5.1_Payments")
	assert.Contains(t, out, "5.11_BalanceDifferences")
}

func TestMigrateStatus(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	db := filepath.Join(dir, "sift.db")

	out, err := execute(t, "migrate", "--status", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 0")
	assert.Contains(t, out, "Pending:")

	out, err = execute(t, "migrate", "--status=false", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "completed successfully")

	out, err = execute(t, "migrate", "--status", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 2")
	assert.NotContains(t, out, "Pending:")
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{in: "", want: 0},
		{in: ";", want: ';'},
		{in: `\t`, want: '\t'},
		{in: "tab", want: '\t'},
		{in: "|", want: '|'},
		{in: ";;", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDelimiter(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadHolidays(t *testing.T) {
	h, err := loadHolidays("")
	require.NoError(t, err)
	assert.Equal(t, "2022-EC", h.Version)

	path := filepath.Join(t.TempDir(), "holidays.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 2023-EC\nholidays:\n  - 2023-01-02\n"), 0o600))

	merged, err := loadHolidays(path)
	require.NoError(t, err)
	assert.Equal(t, "2022-EC+2023-EC", merged.Version)
	assert.Equal(t, h.Len()+1, merged.Len())

	_, err = loadHolidays(filepath.Join(t.TempDir(), "none.yaml"))
	assert.True(t, common.IsUserError(err))
}
