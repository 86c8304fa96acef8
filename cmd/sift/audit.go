package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/journal-sift/internal/audit"
	"github.com/Veraticus/journal-sift/internal/calendar"
	"github.com/Veraticus/journal-sift/internal/cli"
	"github.com/Veraticus/journal-sift/internal/common"
	"github.com/Veraticus/journal-sift/internal/config"
	"github.com/Veraticus/journal-sift/internal/ingest"
	"github.com/Veraticus/journal-sift/internal/model"
)

type auditFlags struct {
	sheet      string
	delimiter  string
	exports    exportTargets
	noSave     bool
	noProgress bool
}

func auditCmd() *cobra.Command {
	var flags auditFlags

	cmd := &cobra.Command{
		Use:   "audit <file>",
		Short: "Audit a journal entry export",
		Long: `Screen every journal entry in an Excel, CSV or OFX/QFX file against the
audit criteria catalog, then print a summary and save the run.

Examples:
  # Audit a ledger export with the default materiality
  sift audit ~/audit/libro_diario_2022.xlsx

  # Lower the materiality threshold and write the Excel workbook
  sift audit ledger.csv --materiality 50000 --xlsx results.xlsx

  # Use a different holiday calendar and skip saving
  sift audit ledger.xlsx --holidays holidays-2023.yaml --no-save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, args[0], flags)
		},
	}

	cmd.Flags().Float64("materiality", config.DefaultMateriality, "materiality threshold in currency units")
	cmd.Flags().Int("workers", config.DefaultWorkers, "number of evaluation workers")
	cmd.Flags().String("holidays", "", "holiday calendar file (yaml, json or toml)")
	cmd.Flags().StringVar(&flags.sheet, "sheet", "", "worksheet to read (default: first sheet)")
	cmd.Flags().StringVar(&flags.delimiter, "delimiter", "", "CSV delimiter (default: detected)")
	cmd.Flags().BoolVar(&flags.noSave, "no-save", false, "do not record the run in the history database")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "hide the progress bar")
	addExportFlags(cmd, &flags.exports)

	_ = viper.BindPFlag(config.KeyMateriality, cmd.Flags().Lookup("materiality"))
	_ = viper.BindPFlag(config.KeyWorkers, cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag(config.KeyHolidaysFile, cmd.Flags().Lookup("holidays"))

	return cmd
}

func runAudit(cmd *cobra.Command, path string, flags auditFlags) error {
	delimiter, err := parseDelimiter(flags.delimiter)
	if err != nil {
		return common.NewUserError(err.Error(), common.ErrInvalidConfig)
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interrupts.HandleInterrupts(cmd.Context(), !flags.noSave)
	defer interrupts.Stop()

	holidays, err := loadHolidays(appConfig.HolidaysFile)
	if err != nil {
		return err
	}

	common.LogInfo("Loading journal entries", common.Fields{"path": path})
	table, err := ingest.LoadFile(ctx, path, ingest.Options{Sheet: flags.sheet, Delimiter: delimiter})
	if err != nil {
		return loadError(path, err)
	}

	opts := audit.Options{
		Holidays:    holidays,
		Materiality: appConfig.Materiality,
		Workers:     appConfig.Workers,
	}
	if len(table.Entries) == 0 {
		common.LogWarn("Input has a header row but no entries", common.Fields{"path": path})
	}
	if !flags.noProgress && len(table.Entries) > 0 {
		opts.Progress = cli.NewProgress(cmd.ErrOrStderr(), len(table.Entries))
	}

	engine, err := audit.NewEngine(opts)
	if err != nil {
		return err
	}

	run, err := engine.Run(ctx, table)
	if err != nil {
		if interrupts.WasInterrupted() {
			return fmt.Errorf("audit interrupted: %w", err)
		}
		var cfgErr *audit.ConfigurationError
		if errors.As(err, &cfgErr) {
			return common.NewUserError(fmt.Sprintf("Cannot audit %s", filepath.Base(path)), err)
		}
		return fmt.Errorf("audit failed: %w", err)
	}

	if !flags.noSave {
		if err := saveRun(ctx, run); err != nil {
			return err
		}
	}

	if err := flags.exports.write(run, engine.Catalog().Keys(), table); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Audit of %s", filepath.Base(path))))
	fmt.Fprintln(out, cli.RenderRunSummary(run, engine.Catalog()))
	if !flags.noSave {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Run saved as %s (sift show %s)", run.ID, run.ID)))
	}
	return nil
}

func saveRun(ctx context.Context, run *model.AuditRun) error {
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStore(store)

	if err := store.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("failed to save audit run: %w", err)
	}
	return nil
}

// loadHolidays returns the built-in calendar, extended by path when set.
func loadHolidays(path string) (*calendar.Holidays, error) {
	if path == "" {
		return calendar.Default(), nil
	}

	extra, err := calendar.LoadFile(path)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("Could not read holiday calendar %s", path), err)
	}
	common.LogInfo("Loaded holiday calendar", common.Fields{
		"path":    path,
		"version": extra.Version,
		"dates":   extra.Len(),
	})
	return calendar.Default().Merge(extra), nil
}

func loadError(path string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return common.NewUserError(fmt.Sprintf("File not found: %s", path), err)
	case errors.Is(err, common.ErrUnsupportedFormat):
		return common.NewUserError(fmt.Sprintf("Unsupported file type: %s (use .xlsx, .csv or .ofx)", path), err)
	case errors.Is(err, common.ErrNoEntries):
		return common.NewUserError(fmt.Sprintf("No journal entries found in %s", path), err)
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}
