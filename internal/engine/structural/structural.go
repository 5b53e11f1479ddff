// Package structural flags source-shape issues that a line-oriented pass
// can catch without parsing: hardcoded magic values, bare assertions and
// the like. Unlike the pattern pass it works strictly line by line and can
// render a concrete replacement for the offending text.
package structural

import (
	"context"
	"strings"

	"github.com/yiranlandtour/solana-move/internal/rules"
	"github.com/yiranlandtour/solana-move/internal/scanner"
	"github.com/yiranlandtour/solana-move/internal/types"
)

const analyzerName = "structural"

type Analyzer struct {
	rules []*rules.CompiledRule
}

func New(ruleset []*rules.CompiledRule) *Analyzer {
	return &Analyzer{rules: rules.ByCheck(ruleset, rules.CheckStructural)}
}

func (a *Analyzer) Name() string { return analyzerName }

// Analyze checks every line of the target against every structural rule.
// One line can produce at most one finding per rule; the matched text is
// the first hit on that line.
func (a *Analyzer) Analyze(ctx context.Context, target *scanner.Target) ([]types.Finding, error) {
	var findings []types.Finding
	lines := target.Lines()
	for num, line := range lines {
		if ctx.Err() != nil {
			return findings, ctx.Err()
		}
		for _, rule := range a.rules {
			matched, ok := matchLine(rule, line)
			if !ok {
				continue
			}
			if suppressed(rule, line) {
				continue
			}
			findings = append(findings, types.Finding{
				RuleID:      rule.ID,
				Severity:    rule.Severity,
				Category:    rule.Category,
				Description: rule.Message,
				File:        target.RelPath,
				Line:        num + 1 + target.LineOffset,
				MatchedText: strings.TrimSpace(line),
				Suggestion:  rule.Suggestion,
				CodeFix:     renderFix(rule.Fix, matched),
				Analyzer:    analyzerName,
			})
		}
	}
	return findings, nil
}

func matchLine(rule *rules.CompiledRule, line string) (string, bool) {
	for _, p := range rule.Patterns {
		switch p.Type {
		case rules.PatternRegex:
			if m := p.Regex.FindString(line); m != "" {
				return m, true
			}
		case rules.PatternContains:
			if strings.Contains(strings.ToLower(line), p.Value) {
				return p.Value, true
			}
		}
	}
	return "", false
}

// suppressed reports whether a line-scope guard vetoes the match. Block
// guards do not apply to structural rules; a guard declared with block
// scope still checks only the matched line.
func suppressed(rule *rules.CompiledRule, line string) bool {
	for _, g := range rule.Guards {
		switch g.Type {
		case rules.PatternRegex:
			if g.Regex.MatchString(line) {
				return true
			}
		case rules.PatternContains:
			if strings.Contains(strings.ToLower(line), g.Value) {
				return true
			}
		}
	}
	return false
}

// renderFix substitutes the matched text into the rule's fix template.
// {match} is the only supported placeholder.
func renderFix(template, matched string) string {
	if template == "" {
		return ""
	}
	return strings.ReplaceAll(template, "{match}", matched)
}
