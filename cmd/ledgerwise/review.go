package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Veraticus/ledgerwise/internal/cli"
	"github.com/Veraticus/ledgerwise/internal/common"
	"github.com/Veraticus/ledgerwise/internal/model"
	"github.com/Veraticus/ledgerwise/internal/tui"
	"github.com/spf13/cobra"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review FILE...",
		Short: "Confirm the account of each invoice interactively",
		Long: `Review classifies every invoice and asks you to confirm an account for
each one. Every confirmation is learned, so later invoices from the same
supplier or with the same reference format rank that account first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runReview,
	}

	cmd.Flags().Bool("plain", false, "Use line prompts instead of the full-screen picker")

	return cmd
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	plain, _ := cmd.Flags().GetBool("plain")

	inputs, err := collectInputs(args)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, appConfig)
	if err != nil {
		return err
	}
	defer closeStore(store)
	svc := newService(store)

	files, err := classifyInputs(cmd, svc, inputs, true)
	if err != nil {
		return err
	}

	confirm := func(ctx context.Context, rec model.ExtractedRecord, chosen model.AccountSuggestion) error {
		return svc.Reinforce(ctx, &rec, &chosen)
	}

	var summary tui.Summary
	if plain {
		summary, err = reviewPlain(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), files, confirm)
	} else {
		items := make([]tui.Item, len(files))
		for i, f := range files {
			items[i] = tui.Item{Name: f.Path, Record: f.Record, Result: f.Result}
		}
		summary, err = tui.Run(ctx, items, confirm)
	}
	if err != nil {
		return err
	}

	return writeSummary(cmd.OutOrStdout(), summary)
}

func reviewPlain(ctx context.Context, in io.Reader, out io.Writer, files []classifiedFile, confirm tui.ConfirmFunc) (tui.Summary, error) {
	prompter := cli.NewPrompter(in, out)
	summary := tui.Summary{}

	for i, f := range files {
		chosen, err := prompter.ChooseAccount(ctx, f.Record, f.Result.Suggestions)
		if errors.Is(err, cli.ErrInputTerminated) || errors.Is(err, cli.ErrInputCancelled) || errors.Is(err, context.Canceled) {
			summary.Remaining = len(files) - i
			return summary, nil
		}
		if err != nil {
			return summary, err
		}

		if chosen == nil {
			summary.Skipped++
			continue
		}
		if err := confirm(ctx, f.Record, *chosen); err != nil {
			common.LogError(err, "failed to learn confirmed account", common.Fields{
				"file":    f.Path,
				"account": chosen.AccountCode,
			})
			summary.Errors = append(summary.Errors, fmt.Errorf("%s: %w", f.Path, err))
			continue
		}
		summary.Confirmed++
	}
	return summary, nil
}

func writeSummary(w io.Writer, summary tui.Summary) error {
	if _, err := fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("%d confirmée(s), %d passée(s), %d restante(s)",
		summary.Confirmed, summary.Skipped, summary.Remaining))); err != nil {
		return err
	}
	for _, err := range summary.Errors {
		if _, werr := fmt.Fprintln(w, cli.FormatWarning(err.Error())); werr != nil {
			return werr
		}
	}
	return nil
}
