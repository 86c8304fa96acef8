package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/journal-sift/internal/cli"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous audit runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			runs, err := store.ListRuns(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to list audit runs: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle("Audit History"))
			fmt.Fprintln(out, cli.RenderHistory(runs, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to show")

	return cmd
}
