package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/journal-sift/internal/audit"
	"github.com/Veraticus/journal-sift/internal/cli"
	"github.com/Veraticus/journal-sift/internal/common"
)

func showCmd() *cobra.Command {
	var exports exportTargets

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a saved audit run and optionally re-export it",
		Long: `Print the summary of a saved audit run. Export flags write the same files
the audit command produces, minus the source data sheet.

Examples:
  sift show 3f0c2a4e-9b1d-4c55-8e0f-2d6a7b1c9e10
  sift show 3f0c2a4e-9b1d-4c55-8e0f-2d6a7b1c9e10 --report report.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			run, err := store.GetRun(ctx, args[0])
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError(fmt.Sprintf("No audit run with ID %s", args[0]), err)
			}
			if err != nil {
				return fmt.Errorf("failed to load audit run: %w", err)
			}

			catalog := audit.DefaultCatalog()
			if err := exports.write(run, catalog.Keys(), nil); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Audit run %s", run.ID)))
			fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("Recorded %s, holidays %s",
				run.CreatedAt.Local().Format("2006-01-02 15:04"), run.HolidaySet)))
			fmt.Fprintln(out, cli.RenderRunSummary(run, catalog))
			return nil
		},
	}

	addExportFlags(cmd, &exports)

	return cmd
}
