package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	solanamove "github.com/yiranlandtour/solana-move"
)

var explainCmd = &cobra.Command{
	Use:   "explain <RULE_ID>",
	Short: "Show detailed information about a detection rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	var opts []solanamove.Option
	if flagRules != "" {
		opts = append(opts, solanamove.WithCustomRules(flagRules))
	}
	detail, err := solanamove.ExplainRule(args[0], opts...)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	if strings.ToLower(flagFormat) == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	}

	fmt.Fprintf(w, "%s: %s\n", detail.ID, detail.Name)
	fmt.Fprintf(w, "Severity: %s\n", detail.Severity)
	fmt.Fprintf(w, "Category: %s\n", detail.Category)
	if detail.Description != "" {
		fmt.Fprintf(w, "\n%s\n", strings.TrimSpace(detail.Description))
	}
	if len(detail.Patterns) > 0 {
		fmt.Fprintf(w, "\nPatterns:\n")
		for _, p := range detail.Patterns {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
	if len(detail.TruePositives) > 0 {
		fmt.Fprintf(w, "\nFlags:\n")
		for _, ex := range detail.TruePositives {
			fmt.Fprintf(w, "  %s\n", ex)
		}
	}
	if len(detail.FalsePositives) > 0 {
		fmt.Fprintf(w, "\nDoes not flag:\n")
		for _, ex := range detail.FalsePositives {
			fmt.Fprintf(w, "  %s\n", ex)
		}
	}
	return nil
}
