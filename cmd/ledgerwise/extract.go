package main

import (
	"fmt"

	"github.com/Veraticus/ledgerwise/internal/cli"
	"github.com/Veraticus/ledgerwise/internal/engine"
	"github.com/spf13/cobra"
)

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract FILE...",
		Short: "Extract invoice fields from text",
		Long: `Extract reads invoice text (already converted from PDF or image) and
prints the fields it recognized. Use "-" to read from standard input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runExtract,
	}

	cmd.Flags().Bool("json", false, "Print records as JSON")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	inputs, err := collectInputs(args)
	if err != nil {
		return err
	}

	svc := engine.NewService(nil, nil, nil)
	out := cmd.OutOrStdout()
	for _, path := range inputs {
		rec, err := loadRecord(svc, path, cmd.InOrStdin())
		if err != nil {
			return err
		}

		if asJSON {
			if err := writeJSON(out, rec); err != nil {
				return fmt.Errorf("failed to encode record: %w", err)
			}
			continue
		}
		if _, err := fmt.Fprintln(out, cli.RenderBox(path, cli.FormatRecord(rec))); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	return nil
}
