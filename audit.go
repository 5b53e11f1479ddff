// Package solanamove provides a public API for static security auditing of
// Solana Move contract source.
//
// This is the library entry point. For the CLI tool, see cmd/ccaudit/.
package solanamove

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/yiranlandtour/solana-move/internal/engine/behavioral"
	"github.com/yiranlandtour/solana-move/internal/engine/gasopt"
	"github.com/yiranlandtour/solana-move/internal/engine/pattern"
	"github.com/yiranlandtour/solana-move/internal/engine/practices"
	"github.com/yiranlandtour/solana-move/internal/engine/structural"
	"github.com/yiranlandtour/solana-move/internal/rules"
	"github.com/yiranlandtour/solana-move/internal/rules/builtin"
	"github.com/yiranlandtour/solana-move/internal/scanner"
	"github.com/yiranlandtour/solana-move/internal/types"
)

// Re-export core types from internal/types so consumers don't need to
// import internal packages.
type (
	Severity      = types.Severity
	Finding       = types.Finding
	AuditReport   = types.AuditReport
	GasSuggestion = gasopt.Suggestion
)

const (
	SeverityLow      = types.SeverityLow
	SeverityMedium   = types.SeverityMedium
	SeverityHigh     = types.SeverityHigh
	SeverityCritical = types.SeverityCritical
)

// ErrNoInput is returned by AuditSource when the source argument is nil.
// Empty (non-nil) source is valid input.
var ErrNoInput = types.ErrNoInput

// RuleOverride allows changing the severity of a rule or disabling it.
type RuleOverride struct {
	Severity string
	Disabled bool
}

// RuleInfo provides summary metadata about a detection rule.
type RuleInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Severity string `json:"severity"`
	Category string `json:"category"`
}

// RuleDetail provides full information about a rule, including patterns and examples.
type RuleDetail struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Severity       string   `json:"severity"`
	Category       string   `json:"category"`
	Description    string   `json:"description"`
	Patterns       []string `json:"patterns"`
	TruePositives  []string `json:"true_positives"`
	FalsePositives []string `json:"false_positives"`
}

// Audit audits a contract file or directory on disk.
func Audit(ctx context.Context, path string, opts ...Option) (*AuditReport, error) {
	cfg := applyOpts(opts)
	s, compiled, err := buildScanner(cfg)
	if err != nil {
		return nil, err
	}
	report, err := s.Scan(ctx, path)
	if err != nil {
		return nil, err
	}
	report.RulesLoaded = len(compiled)
	report.Target = path
	return report, nil
}

// AuditSource audits a single in-memory unit of contract source. A nil
// source returns ErrNoInput; empty source is valid and yields only
// whole-unit findings.
func AuditSource(ctx context.Context, source []byte, opts ...Option) (*AuditReport, error) {
	cfg := applyOpts(opts)
	s, compiled, err := buildScanner(cfg)
	if err != nil {
		return nil, err
	}
	report, err := s.AuditSource(ctx, source)
	if err != nil {
		return nil, err
	}
	report.RulesLoaded = len(compiled)
	return report, nil
}

// Optimize returns gas optimization suggestions for the given source.
// Suggestions never affect the security score.
func Optimize(source []byte) []GasSuggestion {
	return gasopt.Analyze(source)
}

// ListRules returns all available detection rules sorted by ID.
// Use WithCategory to filter by category.
func ListRules(opts ...Option) []RuleInfo {
	cfg := applyOpts(opts)
	compiled, _ := loadAndCompile(cfg)

	sort.Slice(compiled, func(i, j int) bool {
		return compiled[i].ID < compiled[j].ID
	})

	if cfg.category != "" {
		var filtered []*rules.CompiledRule
		for _, r := range compiled {
			if strings.EqualFold(r.Category, cfg.category) {
				filtered = append(filtered, r)
			}
		}
		compiled = filtered
	}

	infos := make([]RuleInfo, len(compiled))
	for i, r := range compiled {
		infos[i] = RuleInfo{
			ID:       r.ID,
			Name:     r.Name,
			Severity: r.Severity.String(),
			Category: r.Category,
		}
	}
	return infos
}

// ExplainRule returns detailed information about a specific rule.
func ExplainRule(id string, opts ...Option) (*RuleDetail, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	cfg := applyOpts(opts)
	compiled, _ := loadAndCompile(cfg)

	var found *rules.CompiledRule
	for _, r := range compiled {
		if r.ID == id {
			found = r
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("rule %q not found", id)
	}

	var patterns []string
	for _, p := range found.Patterns {
		switch p.Type {
		case rules.PatternRegex:
			patterns = append(patterns, fmt.Sprintf("[regex] %s", p.Regex.String()))
		case rules.PatternContains:
			patterns = append(patterns, fmt.Sprintf("[contains] %s", p.Value))
		}
	}
	for _, term := range found.Requires {
		patterns = append(patterns, fmt.Sprintf("[requires] %s", term.Value))
	}
	for _, term := range found.Forbids {
		patterns = append(patterns, fmt.Sprintf("[forbids] %s", term.Value))
	}

	return &RuleDetail{
		ID:             found.ID,
		Name:           found.Name,
		Severity:       found.Severity.String(),
		Category:       found.Category,
		Description:    found.Description,
		Patterns:       patterns,
		TruePositives:  found.Examples.TruePositive,
		FalsePositives: found.Examples.FalsePositive,
	}, nil
}

// --- internal helpers ---

func applyOpts(opts []Option) *auditConfig {
	cfg := &auditConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// loadAndCompile loads built-in (and optionally custom) rules, compiles
// them, and applies overrides/filters. Used by all public functions.
func loadAndCompile(cfg *auditConfig) ([]*rules.CompiledRule, error) {
	rawRules, err := rules.LoadFromFS(builtin.FS())
	if err != nil {
		return nil, fmt.Errorf("loading built-in rules: %w", err)
	}

	if cfg.customRulesDir != "" {
		custom, err := rules.LoadFromDir(cfg.customRulesDir)
		if err != nil {
			return nil, fmt.Errorf("loading custom rules from %s: %w", cfg.customRulesDir, err)
		}
		rawRules = append(rawRules, custom...)
	}

	compiled, compileErrs := rules.CompileAll(rawRules)
	for _, e := range compileErrs {
		fmt.Fprintf(os.Stderr, "ccaudit: warning: %v\n", e)
	}

	if len(cfg.ruleOverrides) > 0 {
		overrides := make(map[string]rules.RuleOverride, len(cfg.ruleOverrides))
		for id, ovr := range cfg.ruleOverrides {
			overrides[id] = rules.RuleOverride{Severity: ovr.Severity, Disabled: ovr.Disabled}
		}
		var overrideErrs []error
		compiled, overrideErrs = rules.ApplyOverrides(compiled, overrides)
		for _, e := range overrideErrs {
			fmt.Fprintf(os.Stderr, "ccaudit: warning: %v\n", e)
		}
	}

	if len(cfg.disabledRules) > 0 {
		disabled := make(map[string]bool, len(cfg.disabledRules))
		for _, id := range cfg.disabledRules {
			disabled[strings.TrimSpace(id)] = true
		}
		compiled = rules.FilterByIDs(compiled, disabled)
	}

	return compiled, nil
}

// buildScanner creates a fully wired Scanner with all standard analyzers
// registered in their fixed order.
func buildScanner(cfg *auditConfig) (*scanner.Scanner, []*rules.CompiledRule, error) {
	compiled, err := loadAndCompile(cfg)
	if err != nil {
		return nil, nil, err
	}

	s := scanner.New(cfg.workers)
	s.RegisterAnalyzer(pattern.NewMatcher(compiled))
	s.RegisterAnalyzer(structural.New(compiled))
	s.RegisterAnalyzer(behavioral.New(compiled))
	s.RegisterAnalyzer(practices.New(compiled))

	if cfg.minSeverity > 0 {
		s.SetMinSeverity(cfg.minSeverity)
	}
	if len(cfg.ignorePatterns) > 0 {
		s.SetIgnorePatterns(cfg.ignorePatterns)
	}

	return s, compiled, nil
}
