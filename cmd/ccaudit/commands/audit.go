package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yiranlandtour/solana-move/internal/config"
	"github.com/yiranlandtour/solana-move/internal/engine/behavioral"
	"github.com/yiranlandtour/solana-move/internal/engine/drift"
	"github.com/yiranlandtour/solana-move/internal/engine/pattern"
	"github.com/yiranlandtour/solana-move/internal/engine/practices"
	"github.com/yiranlandtour/solana-move/internal/engine/structural"
	"github.com/yiranlandtour/solana-move/internal/logging"
	"github.com/yiranlandtour/solana-move/internal/output"
	"github.com/yiranlandtour/solana-move/internal/rules"
	"github.com/yiranlandtour/solana-move/internal/rules/builtin"
	"github.com/yiranlandtour/solana-move/internal/scanner"
	"github.com/yiranlandtour/solana-move/internal/state"
	"github.com/yiranlandtour/solana-move/internal/types"
	"github.com/yiranlandtour/solana-move/internal/update"
)

var (
	flagFailOn    string
	flagCI        bool
	flagVerbose   bool
	flagMonitor   bool
	flagStatePath string
)

var auditCmd = &cobra.Command{
	Use:   "audit <path>",
	Short: "Audit a contract file or directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Exit with code 1 if findings at or above this severity (critical, high, medium, low)")
	auditCmd.Flags().BoolVar(&flagCI, "ci", false, "CI mode: equivalent to --fail-on high --no-color")
	auditCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Show remediation hints in terminal output")
	auditCmd.Flags().BoolVar(&flagMonitor, "monitor", false, "Track content hashes across runs and flag dangerous drift")
	auditCmd.Flags().StringVar(&flagStatePath, "state-path", "", "Path to state file for --monitor (default: ~/.ccaudit/state.json)")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	cfg := loadAuditConfig(cmd, targetPath)
	applyCIDefaults()

	minSev, err := parseSeverityFlag()
	if err != nil {
		return err
	}

	compiled, err := loadAndCompileRules(cfg)
	if err != nil {
		return err
	}
	logging.L().Debugw("rules compiled", "count", len(compiled))

	s, store := buildScanner(compiled, cfg, minSev)

	ctx, cancel := contextWithInterrupt()
	defer cancel()

	report, err := s.Scan(ctx, targetPath)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}
	report.RulesLoaded = len(compiled)
	report.Target = targetPath

	if store != nil {
		if err := store.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: saving state: %v\n", err)
		}
	}

	if err := writeOutput(report); err != nil {
		return err
	}

	notifyUpdate()

	return checkFailOnThreshold(report)
}

func loadAuditConfig(cmd *cobra.Command, targetPath string) config.Config {
	cfg, err := config.Load(targetPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if !cmd.Flags().Changed("severity") && cfg.Severity != "" {
		flagSeverity = cfg.Severity
	}
	if !cmd.Flags().Changed("format") && cfg.Format != "" {
		flagFormat = cfg.Format
	}
	if !cmd.Flags().Changed("fail-on") && cfg.FailOn != "" {
		flagFailOn = cfg.FailOn
	}
	if !cmd.Flags().Changed("rules") && cfg.Rules != "" {
		flagRules = cfg.Rules
	}
	if !cmd.Flags().Changed("workers") && cfg.Workers > 0 {
		flagWorkers = cfg.Workers
	}
	return cfg
}

func applyCIDefaults() {
	if flagCI {
		if flagFailOn == "" {
			flagFailOn = "high"
		}
		if flagFormat == "terminal" {
			flagNoColor = true
		}
	}
	if os.Getenv("NO_COLOR") != "" {
		flagNoColor = true
	}
}

func parseSeverityFlag() (types.Severity, error) {
	if flagSeverity == "" {
		return types.SeverityLow, nil
	}
	sev, err := types.ParseSeverity(flagSeverity)
	if err != nil {
		return 0, fmt.Errorf("invalid --severity: %w", err)
	}
	return sev, nil
}

func loadAndCompileRules(cfg config.Config) ([]*rules.CompiledRule, error) {
	rawRules, err := rules.LoadFromFS(builtin.FS())
	if err != nil {
		return nil, fmt.Errorf("loading built-in rules: %w", err)
	}

	if flagRules != "" {
		customRules, err := rules.LoadFromDir(flagRules)
		if err != nil {
			return nil, fmt.Errorf("loading custom rules from %s: %w", flagRules, err)
		}
		rawRules = append(rawRules, customRules...)
	}

	compiled, errs := rules.CompileAll(rawRules)
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "warning: %v\n", e)
	}

	if len(cfg.RuleOverrides) > 0 {
		overrides := make(map[string]rules.RuleOverride, len(cfg.RuleOverrides))
		for id, ovr := range cfg.RuleOverrides {
			overrides[id] = rules.RuleOverride{Severity: ovr.Severity, Disabled: ovr.Disabled}
		}
		var ovrErrs []error
		compiled, ovrErrs = rules.ApplyOverrides(compiled, overrides)
		for _, e := range ovrErrs {
			fmt.Fprintf(os.Stderr, "warning: %v\n", e)
		}
	}

	if len(flagDisableRules) > 0 {
		disabled := make(map[string]bool)
		for _, id := range flagDisableRules {
			disabled[strings.TrimSpace(id)] = true
		}
		compiled = rules.FilterByIDs(compiled, disabled)
	}

	return compiled, nil
}

func buildScanner(compiled []*rules.CompiledRule, cfg config.Config, minSev types.Severity) (*scanner.Scanner, *state.Store) {
	s := scanner.New(flagWorkers)
	s.SetMinSeverity(minSev)
	if len(cfg.Ignore) > 0 {
		s.SetIgnorePatterns(cfg.Ignore)
	}

	s.RegisterAnalyzer(pattern.NewMatcher(compiled))
	s.RegisterAnalyzer(structural.New(compiled))
	s.RegisterAnalyzer(behavioral.New(compiled))
	s.RegisterAnalyzer(practices.New(compiled))

	var store *state.Store
	if flagMonitor {
		statePath := flagStatePath
		if statePath == "" {
			statePath = state.DefaultPath()
		}
		store = state.New(statePath)
		if err := store.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: loading state: %v\n", err)
		}
		s.RegisterAnalyzer(drift.New(store))
	}

	return s, store
}

func contextWithInterrupt() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}

func writeOutput(report *types.AuditReport) error {
	output.ToolVersion = Version

	formatter, err := output.ByName(strings.ToLower(flagFormat), flagNoColor)
	if err != nil {
		return err
	}
	if tf, ok := formatter.(*output.TerminalFormatter); ok {
		tf.Verbose = flagVerbose
	}

	w := os.Stdout
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	return formatter.Format(w, report)
}

func notifyUpdate() {
	if r := update.CheckLatest(Version, "yiranlandtour/solana-move"); r != nil && r.NeedsUpdate() {
		fmt.Fprintf(os.Stderr, "\nccaudit %s is available (you have %s): %s\n", r.Latest, r.Current, r.UpdateURL)
	}
}

func checkFailOnThreshold(report *types.AuditReport) error {
	if flagFailOn == "" {
		return nil
	}
	threshold, err := types.ParseSeverity(flagFailOn)
	if err != nil {
		return fmt.Errorf("invalid --fail-on: %w", err)
	}
	for _, f := range report.Findings {
		if f.Severity >= threshold {
			os.Exit(1)
		}
	}
	return nil
}
