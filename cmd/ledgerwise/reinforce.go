package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/ledgerwise/internal/cli"
	"github.com/Veraticus/ledgerwise/internal/common"
	"github.com/Veraticus/ledgerwise/internal/ledger"
	"github.com/Veraticus/ledgerwise/internal/model"
	"github.com/spf13/cobra"
)

func reinforceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reinforce FILE --account CODE",
		Short: "Teach the account chosen for an invoice",
		Long: `Reinforce records that an invoice belongs to an account. The supplier,
the label keywords and the reference format of the invoice become patterns
that suggest this account for similar invoices.`,
		Args: cobra.ExactArgs(1),
		RunE: runReinforce,
	}

	cmd.Flags().StringP("account", "a", "", "Account code chosen for the invoice (required)")
	_ = cmd.MarkFlagRequired("account")
	addRecordFlags(cmd.Flags())

	return cmd
}

func runReinforce(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	code, _ := cmd.Flags().GetString("account")
	code = strings.TrimSpace(code)
	if ledger.ClassOf(code) == 0 {
		return common.NewUserError(fmt.Sprintf("%q is not an account code", code), common.ErrInvalidInput)
	}

	store, err := openStore(ctx, appConfig)
	if err != nil {
		return err
	}
	defer closeStore(store)
	svc := newService(store)

	rec, err := loadRecord(svc, args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	rec, err = applyOverrides(cmd.Flags(), rec)
	if err != nil {
		return err
	}

	chosen := chosenSuggestion(svc.Classify(ctx, rec).Suggestions, code)
	if err := svc.Reinforce(ctx, &rec, &chosen); err != nil {
		return fmt.Errorf("failed to reinforce: %w", err)
	}
	if err := store.Flush(ctx); err != nil {
		return fmt.Errorf("failed to save patterns: %w", err)
	}
	common.LogInfo("account confirmed", common.Fields{
		"file":     args[0],
		"account":  chosen.AccountCode,
		"source":   string(chosen.Source),
		"supplier": rec.Supplier,
	})

	_, err = fmt.Fprintln(cmd.OutOrStdout(),
		cli.FormatSuccess(fmt.Sprintf("Compte %s %s enregistré", chosen.AccountCode, chosen.AccountLabel)))
	return err
}

// chosenSuggestion returns the suggestion for code, or a manual one when the
// user picked an account that was not suggested.
func chosenSuggestion(suggestions model.Suggestions, code string) model.AccountSuggestion {
	for _, s := range suggestions {
		if s.AccountCode == code {
			return s
		}
	}

	acct := ledger.Lookup(code)
	return model.AccountSuggestion{
		AccountCode:     acct.Code,
		AccountLabel:    acct.Label,
		AccountClass:    acct.Class,
		ConfidenceScore: 1.0,
		Justification:   "Saisi par l'utilisateur",
		Source:          model.SourceManual,
	}
}
