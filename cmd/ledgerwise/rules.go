package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/ledgerwise/internal/common"
	"github.com/Veraticus/ledgerwise/internal/rules"
	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the built-in classification rules",
		Long: `List the static keyword, supplier and reference format rules the
classifier consults before any learned pattern.`,
		Args: cobra.NoArgs,
		RunE: runRules,
	}

	cmd.Flags().StringP("kind", "k", "", "Only show rules of this kind (keyword, supplier, reference_format)")
	cmd.Flags().StringP("account", "a", "", "Only show rules for this account code")

	return cmd
}

func runRules(cmd *cobra.Command, _ []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	account, _ := cmd.Flags().GetString("account")

	selected, err := filterRules(rules.NewDefaultClassifier().Rules(), strings.TrimSpace(kind), strings.TrimSpace(account))
	if err != nil {
		return err
	}
	return writeRules(cmd.OutOrStdout(), selected)
}

func filterRules(all []rules.Rule, kind, account string) ([]rules.Rule, error) {
	switch rules.Kind(kind) {
	case "", rules.KindKeyword, rules.KindSupplier, rules.KindReferenceFormat:
	default:
		return nil, common.NewUserError(fmt.Sprintf("unknown rule kind %q", kind), common.ErrInvalidInput)
	}

	selected := make([]rules.Rule, 0, len(all))
	for _, r := range all {
		if kind != "" && r.Kind() != rules.Kind(kind) {
			continue
		}
		if account != "" && r.Account().Code != account {
			continue
		}
		selected = append(selected, r)
	}
	return selected, nil
}

func writeRules(w io.Writer, list []rules.Rule) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TYPE\tMOTIF\tCOMPTE\tLIBELLÉ\tCONFIANCE")
	for _, r := range list {
		acct := r.Account()
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\n", r.Kind(), r.Pattern(), acct.Code, acct.Label, r.Confidence())
	}
	return tw.Flush()
}
