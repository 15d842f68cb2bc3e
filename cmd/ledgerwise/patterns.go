package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/ledgerwise/internal/cli"
	"github.com/Veraticus/ledgerwise/internal/model"
	"github.com/spf13/cobra"
)

func patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Inspect learned patterns",
		Long:  `Inspect the supplier, keyword and reference patterns learned from confirmed invoices.`,
	}

	cmd.AddCommand(patternsListCmd())
	cmd.AddCommand(patternsStatsCmd())

	return cmd
}

func patternsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List learned patterns, most confident first",
		Args:  cobra.NoArgs,
		RunE:  runPatternsList,
	}

	cmd.Flags().StringP("account", "a", "", "Only show patterns for this account code")
	cmd.Flags().Float64("min-confidence", 0, "Only show patterns at or above this confidence")
	cmd.Flags().Bool("json", false, "Print patterns as JSON")

	return cmd
}

func runPatternsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	account, _ := cmd.Flags().GetString("account")
	minConfidence, _ := cmd.Flags().GetFloat64("min-confidence")
	asJSON, _ := cmd.Flags().GetBool("json")

	store, err := openStore(ctx, appConfig)
	if err != nil {
		return err
	}
	defer closeStore(store)

	patterns := filterPatterns(store.Patterns(ctx), strings.TrimSpace(account), minConfidence)

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, patterns)
	}
	if len(patterns) == 0 {
		_, err := fmt.Fprintln(out, cli.FormatInfo("Aucun motif appris"))
		return err
	}
	return cli.WritePatterns(out, patterns)
}

func filterPatterns(patterns []model.LearningPattern, account string, minConfidence float64) []model.LearningPattern {
	filtered := make([]model.LearningPattern, 0, len(patterns))
	for _, p := range patterns {
		if account != "" && p.AccountCode != account {
			continue
		}
		if p.Confidence < minConfidence {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func patternsStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize learned patterns per account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx, appConfig)
			if err != nil {
				return err
			}
			defer closeStore(store)

			patterns := store.Patterns(ctx)
			stats := patternStats(patterns)

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%d motifs appris", len(patterns)))); err != nil {
				return err
			}
			for _, s := range stats {
				if _, err := fmt.Fprintf(out, "  %-6s %3d motif(s)  %4d occurrence(s)\n", s.account, s.patterns, s.occurrences); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

type accountStats struct {
	account     string
	patterns    int
	occurrences int
}

// patternStats groups patterns by account, in order of first appearance.
func patternStats(patterns []model.LearningPattern) []accountStats {
	var stats []accountStats
	index := make(map[string]int)
	for _, p := range patterns {
		i, ok := index[p.AccountCode]
		if !ok {
			i = len(stats)
			index[p.AccountCode] = i
			stats = append(stats, accountStats{account: p.AccountCode})
		}
		stats[i].patterns++
		stats[i].occurrences += p.Occurrences
	}
	return stats
}
