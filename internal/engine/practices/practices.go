// Package practices covers hygiene checks that are advisory rather than
// exploitable: missing event emission, unvalidated entry points. It shares
// the vocabulary rule machinery with the behavioral pass but runs as its
// own phase so rules and reports stay separable.
package practices

import (
	"context"
	"strings"

	"github.com/yiranlandtour/solana-move/internal/rules"
	"github.com/yiranlandtour/solana-move/internal/scanner"
	"github.com/yiranlandtour/solana-move/internal/types"
)

const analyzerName = "practices"

type Analyzer struct {
	rules []*rules.CompiledRule
}

func New(ruleset []*rules.CompiledRule) *Analyzer {
	return &Analyzer{rules: rules.ByPhase(ruleset, rules.PhasePractice)}
}

func (a *Analyzer) Name() string { return analyzerName }

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
