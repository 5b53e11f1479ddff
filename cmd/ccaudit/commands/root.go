package commands

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yiranlandtour/solana-move/internal/logging"
)

var (
	flagSeverity     string
	flagFormat       string
	flagOutput       string
	flagWorkers      int
	flagRules        string
	flagNoColor      bool
	flagDebug        bool
	flagDisableRules []string
)

var rootCmd = &cobra.Command{
	Use:   "ccaudit",
	Short: "Static security auditor for Solana Move contracts",
	Long:  `ccaudit audits Move contract source for common smart-contract weaknesses: reentrancy, missing access control, unchecked arithmetic, flash-loan and oracle misuse, and hygiene issues. It also suggests gas optimizations.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("no-color") && !term.IsTerminal(int(os.Stdout.Fd())) {
			flagNoColor = true
		}
		return logging.Init(flagDebug)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSeverity, "severity", "low", "Minimum severity to report (critical, high, medium, low)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "terminal", "Output format (terminal, markdown, json, sarif)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "Number of worker goroutines (default: NumCPU)")
	rootCmd.PersistentFlags().StringVar(&flagRules, "rules", "", "Additional rules directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringSliceVar(&flagDisableRules, "disable-rule", nil, "Rule IDs to disable (comma-separated, repeatable)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
