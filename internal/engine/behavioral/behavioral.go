// Package behavioral detects risky protocol behavior from vocabulary
// evidence over the whole unit: terms that must appear together with
// terms that must not. Findings here describe the unit, not a line.
package behavioral

import (
	"context"
	"strings"

	"github.com/yiranlandtour/solana-move/internal/rules"
	"github.com/yiranlandtour/solana-move/internal/scanner"
	"github.com/yiranlandtour/solana-move/internal/types"
)

const analyzerName = "behavioral"

type Analyzer struct {
	rules []*rules.CompiledRule
}

func New(ruleset []*rules.CompiledRule) *Analyzer {
	return &Analyzer{rules: rules.ByPhase(ruleset, rules.PhaseBehavioral)}
}

func (a *Analyzer) Name() string { return analyzerName }

// Analyze evaluates each vocabulary rule against the full unit text.
// A rule fires when every required term is present and no forbidden term
// is. Each rule yields at most one whole-unit finding with line zero.
func (a *Analyzer) Analyze(ctx context.Context, target *scanner.Target) ([]types.Finding, error) {
	content := string(target.Content)
	lower := strings.ToLower(content)

	var findings []types.Finding
	for _, rule := range a.rules {
		if ctx.Err() != nil {
			return findings, ctx.Err()
		}
		if !rule.MatchesVocabulary(content, lower) {
			continue
		}
		findings = append(findings, types.Finding{
			RuleID:      rule.ID,
			Severity:    rule.Severity,
			Category:    rule.Category,
			Description: rule.Message,
			File:        target.RelPath,
			Suggestion:  rule.Suggestion,
			CodeFix:     rule.Fix,
			Analyzer:    analyzerName,
		})
	}
	return findings, nil
}
