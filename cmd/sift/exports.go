package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/journal-sift/internal/export"
	"github.com/Veraticus/journal-sift/internal/model"
)

// exportTargets are the optional output files of audit and show.
type exportTargets struct {
	XLSX           string
	CSV            string
	CriticalCSV    string
	Irregularities string
	Report         string
}

func addExportFlags(cmd *cobra.Command, t *exportTargets) {
	cmd.Flags().StringVar(&t.XLSX, "xlsx", "", "write an Excel workbook with results, critical entries, irregularities and summary")
	cmd.Flags().StringVar(&t.CSV, "csv", "", "write every evaluation result as CSV")
	cmd.Flags().StringVar(&t.CriticalCSV, "critical-csv", "", "write critical entries as CSV")
	cmd.Flags().StringVar(&t.Irregularities, "irregularities-csv", "", "write irregularity records as CSV")
	cmd.Flags().StringVar(&t.Report, "report", "", "write the executive text report")
}

// write produces every requested export. source may be nil when the
// original table is no longer available.
func (t exportTargets) write(run *model.AuditRun, keys []string, source *model.Table) error {
	if t.XLSX != "" {
		if err := writeFile(t.XLSX, func(w io.Writer) error {
			return export.WriteXLSX(w, run, keys, source)
		}); err != nil {
			return err
		}
	}

	if t.CSV != "" {
		if err := writeFile(t.CSV, func(w io.Writer) error {
			return export.WriteCSV(w, run.Results, keys)
		}); err != nil {
			return err
		}
	}

	if t.CriticalCSV != "" {
		if err := writeFile(t.CriticalCSV, func(w io.Writer) error {
			return export.WriteCSV(w, run.Stats.Critical, keys)
		}); err != nil {
			return err
		}
	}

	if t.Irregularities != "" {
		if err := writeFile(t.Irregularities, func(w io.Writer) error {
			return export.WriteIrregularitiesCSV(w, run.Irregularities)
		}); err != nil {
			return err
		}
	}

	if t.Report != "" {
		if err := writeFile(t.Report, func(w io.Writer) error {
			_, err := fmt.Fprint(w, export.ExecutiveReport(run, keys, time.Now()))
			return err
		}); err != nil {
			return err
		}
	}

	return nil
}
