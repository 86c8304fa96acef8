package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/journal-sift/internal/audit"
	"github.com/Veraticus/journal-sift/internal/cli"
)

func criteriaCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "criteria",
		Short: "List the audit criteria catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := audit.DefaultCatalog()
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(catalog)
			}

			fmt.Fprintln(out, cli.FormatTitle("Audit Criteria"))
			fmt.Fprintln(out, cli.RenderCatalog(catalog))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")

	return cmd
}
