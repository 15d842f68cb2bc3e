package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/ledgerwise/internal/cli"
	"github.com/Veraticus/ledgerwise/internal/common"
	"github.com/Veraticus/ledgerwise/internal/engine"
	"github.com/Veraticus/ledgerwise/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type classifiedFile struct {
	Path   string                `json:"path"`
	Record model.ExtractedRecord `json:"record"`
	Result engine.Result         `json:"result"`
}

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify FILE...",
		Short: "Suggest ledger accounts for invoices",
		Long: `Classify extracts every invoice, ranks the candidate accounts from the
keyword, supplier and reference rules and from learned patterns, and proposes
the journal entry for the best account.

Field flags correct the extracted record before classification; a corrected
record is treated as manually edited.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassify,
	}

	addRecordFlags(cmd.Flags())
	cmd.Flags().Bool("json", false, "Print results as JSON")

	return cmd
}

func addRecordFlags(flags *pflag.FlagSet) {
	flags.String("supplier", "", "Override the supplier name")
	flags.String("label", "", "Override the invoice label")
	flags.String("reference", "", "Override the invoice reference")
	flags.String("amount", "", "Override the total amount (TTC)")
	flags.String("tax", "", "Override the tax amount (TVA)")
}

// applyOverrides returns rec corrected by the record flags that were set.
func applyOverrides(flags *pflag.FlagSet, rec model.ExtractedRecord) (model.ExtractedRecord, error) {
	changed := false
	for _, name := range []string{"supplier", "label", "reference", "amount", "tax"} {
		if flags.Changed(name) {
			changed = true
		}
	}
	if !changed {
		return rec, nil
	}

	amount, err := decimalFlag(flags, "amount")
	if err != nil {
		return rec, err
	}
	tax, err := decimalFlag(flags, "tax")
	if err != nil {
		return rec, err
	}

	return rec.Edited(func(r *model.ExtractedRecord) {
		if flags.Changed("supplier") {
			r.Supplier, _ = flags.GetString("supplier")
		}
		if flags.Changed("label") {
			r.Label, _ = flags.GetString("label")
		}
		if flags.Changed("reference") {
			r.Reference, _ = flags.GetString("reference")
		}
		if amount != nil {
			r.Amount = amount
		}
		if tax != nil {
			r.TaxAmount = tax
		}
	}), nil
}

func decimalFlag(flags *pflag.FlagSet, name string) (*decimal.Decimal, error) {
	if !flags.Changed(name) {
		return nil, nil
	}
	raw, _ := flags.GetString(name)
	raw = strings.ReplaceAll(strings.ReplaceAll(raw, " ", ""), ",", ".")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("--%s must be a number", name), fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
	}
	return &d, nil
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	asJSON, _ := cmd.Flags().GetBool("json")

	inputs, err := collectInputs(args)
	if err != nil {
		return err
	}

	svc, closeFn := openService(ctx)
	defer closeFn()

	files, err := classifyInputs(cmd, svc, inputs, !asJSON)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if len(files) == 1 {
			return writeJSON(out, files[0].Result)
		}
		return writeJSON(out, files)
	}

	for _, f := range files {
		if err := writeClassified(out, f); err != nil {
			return err
		}
	}
	return nil
}

// classifyInputs loads and classifies every input, showing a progress bar
// for batches.
func classifyInputs(cmd *cobra.Command, svc *engine.Service, inputs []string, showProgress bool) ([]classifiedFile, error) {
	ctx := cmd.Context()

	var progress *cli.Progress
	if showProgress && len(inputs) > 1 {
		progress = cli.NewProgress(cmd.ErrOrStderr(), len(inputs), "Classification")
	}

	files := make([]classifiedFile, 0, len(inputs))
	for _, path := range inputs {
		if err := ctx.Err(); err != nil {
			return files, err
		}

		rec, err := loadRecord(svc, path, cmd.InOrStdin())
		if err != nil {
			return files, err
		}
		rec, err = applyOverrides(cmd.Flags(), rec)
		if err != nil {
			return files, err
		}

		files = append(files, classifiedFile{
			Path:   path,
			Record: rec,
			Result: svc.Classify(ctx, rec),
		})

		if progress != nil {
			progress.Step()
		}
	}
	if progress != nil {
		progress.Finish()
	}
	return files, nil
}

func writeClassified(w io.Writer, f classifiedFile) error {
	if _, err := fmt.Fprintln(w, cli.RenderBox(f.Path, cli.FormatRecord(f.Record))); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	if _, err := fmt.Fprintln(w, cli.FormatTitle("Comptes suggérés")); err != nil {
		return fmt.Errorf("failed to write title: %w", err)
	}
	if err := cli.WriteSuggestions(w, f.Result.Suggestions); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, cli.FormatTitle("Écriture proposée")); err != nil {
		return fmt.Errorf("failed to write title: %w", err)
	}
	if err := cli.WriteJournalEntry(w, f.Result.JournalEntry); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
