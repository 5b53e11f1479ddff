package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	solanamove "github.com/yiranlandtour/solana-move"
)

var flagCategory string

var listRulesCmd = &cobra.Command{
	Use:   "list-rules",
	Short: "List all available detection rules",
	RunE:  runListRules,
}

func init() {
	listRulesCmd.Flags().StringVar(&flagCategory, "category", "", "Filter by category")
	rootCmd.AddCommand(listRulesCmd)
}

func runListRules(cmd *cobra.Command, args []string) error {
	opts := []solanamove.Option{
		solanamove.WithCategory(flagCategory),
		solanamove.WithDisabledRules(flagDisableRules...),
	}
	if flagRules != "" {
		opts = append(opts, solanamove.WithCustomRules(flagRules))
	}
	infos := solanamove.ListRules(opts...)

	w := cmd.OutOrStdout()

	if strings.ToLower(flagFormat) == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tNAME\tSEVERITY\tCATEGORY\n")
	fmt.Fprintf(tw, "--\t----\t--------\t--------\n")
	for _, r := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Severity, r.Category)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d rules loaded\n", len(infos))

	return nil
}
