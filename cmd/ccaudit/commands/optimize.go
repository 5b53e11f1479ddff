package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yiranlandtour/solana-move/internal/engine/gasopt"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize <file>",
	Short: "Suggest gas optimizations for a contract file",
	Args:  cobra.ExactArgs(1),
	RunE:  runOptimize,
}

func init() {
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	suggestions := gasopt.Analyze(source)
	w := cmd.OutOrStdout()

	if strings.ToLower(flagFormat) == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(suggestions)
	}

	if len(suggestions) == 0 {
		fmt.Fprintln(w, "No gas optimizations found.")
		return nil
	}

	for i, s := range suggestions {
		fmt.Fprintf(w, "%d. [%s] %s (%s)\n", i+1, strings.ToUpper(s.Impact), s.Description, s.GasSaving)
		if s.Before != "" {
			fmt.Fprintf(w, "   before: %s\n", s.Before)
		}
		if s.After != "" {
			fmt.Fprintf(w, "   after:  %s\n", s.After)
		}
	}
	return nil
}
