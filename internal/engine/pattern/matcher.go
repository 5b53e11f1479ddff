// Package pattern implements the pattern scanner: every pattern rule is
// applied to the whole source once, each non-overlapping match becomes a
// finding located at the 1-based line of the match start. Negative-lookahead
// conditions from the original detectors are expressed as guard patterns,
// checked on the matched line or on the block following the match.
package pattern

import (
	"context"
	"regexp"
	"strings"

	"github.com/yiranlandtour/solana-move/internal/rules"
	"github.com/yiranlandtour/solana-move/internal/scanner"
	"github.com/yiranlandtour/solana-move/internal/types"
)

// blockGuardWindow caps how many lines after a match a block-scoped guard
// is searched when no function boundary is found first.
const blockGuardWindow = 8

// funcBoundary marks the start of a new function definition; block-scoped
// guard searches stop there so one function's checks never suppress
// findings in another.
var funcBoundary = regexp.MustCompile(`^\s*(public\s+|private\s+)?fn\s`)

// Matcher implements the Analyzer interface using compiled pattern rules.
type Matcher struct {
	rules []*rules.CompiledRule
}

// NewMatcher creates a pattern matcher from the compiled rule set. Rules
// with other check kinds are ignored.
func NewMatcher(compiled []*rules.CompiledRule) *Matcher {
	return &Matcher{rules: rules.ByCheck(compiled, rules.CheckPattern)}
}

func (m *Matcher) Name() string { return "pattern" }

func (m *Matcher) Analyze(ctx context.Context, target *scanner.Target) ([]types.Finding, error) {
	var findings []types.Finding
	content := string(target.Content)
	lines := target.Lines()

	for _, rule := range m.rules {
		if ctx.Err() != nil {
			return findings, ctx.Err()
		}
		for _, pat := range rule.Patterns {
			for _, hit := range matchPattern(pat, content) {
				if suppressed(rule.Guards, lines, hit.line) {
					continue
				}
				findings = append(findings, types.Finding{
					RuleID:      rule.ID,
					Severity:    rule.Severity,
					Category:    rule.Category,
					Description: rule.Message,
					File:        target.RelPath,
					Line:        hit.line + target.LineOffset,
					MatchedText: truncate(hit.text, 200),
					Suggestion:  rule.Suggestion,
					CodeFix:     rule.Fix,
					Analyzer:    "pattern",
				})
			}
		}
	}

	return findings, nil
}

type matchHit struct {
	line int
	text string
}

func matchPattern(pat rules.CompiledPattern, content string) []matchHit {
	var hits []matchHit
	switch pat.Type {
	case rules.PatternRegex:
		if pat.Regex == nil {
			return nil
		}
		for _, loc := range pat.Regex.FindAllStringIndex(content, -1) {
			hits = append(hits, matchHit{
				line: lineNumberAtOffset(content, loc[0]),
				text: content[loc[0]:loc[1]],
			})
		}
	case rules.PatternContains:
		lower := strings.ToLower(content)
		target := pat.Value // already lowercased during compilation
		idx := 0
		for {
			pos := strings.Index(lower[idx:], target)
			if pos == -1 {
				break
			}
			absPos := idx + pos
			hits = append(hits, matchHit{
				line: lineNumberAtOffset(content, absPos),
				text: content[absPos : absPos+len(target)],
			})
			idx = absPos + len(target)
		}
	}
	return hits
}

// lineNumberAtOffset counts newline characters preceding offset, plus one.
func lineNumberAtOffset(content string, offset int) int {
	line := 1
	for i := 0; i < offset && i < len(content); i++ {
		if content[i] == '\n' {
			line++
		}
	}
	return line
}

// suppressed reports whether any guard matches in its scope: the matched
// line itself for ScopeLine, or the match line plus the following lines up
// to the next function definition (capped at blockGuardWindow) for
// ScopeBlock.
func suppressed(guards []rules.CompiledGuard, lines []string, lineNum int) bool {
	if len(guards) == 0 || lineNum < 1 || lineNum > len(lines) {
		return false
	}
	for _, g := range guards {
		end := lineNum
		if g.Scope == rules.ScopeBlock {
			end = min(lineNum+blockGuardWindow, len(lines))
		}
		for i := lineNum; i <= end; i++ {
			line := lines[i-1]
			if i > lineNum && funcBoundary.MatchString(line) {
				break
			}
			if guardMatchesLine(g, line) {
				return true
			}
		}
	}
	return false
}

func guardMatchesLine(g rules.CompiledGuard, line string) bool {
	switch g.Type {
	case rules.PatternRegex:
		return g.Regex != nil && g.Regex.MatchString(line)
	case rules.PatternContains:
		return strings.Contains(strings.ToLower(line), g.Value)
	}
	return false
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
