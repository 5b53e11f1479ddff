// Package rules defines the detection rule catalog: YAML rule loading,
// compilation to executable patterns, and per-rule overrides. The compiled
// rule set is fixed at engine construction and never mutated afterwards.
package rules

import (
	"regexp"

	"github.com/yiranlandtour/solana-move/internal/types"
)

// CheckKind selects which analyzer executes a rule.
type CheckKind string

const (
	// CheckPattern rules are matched by the pattern scanner against the
	// whole source text, once per rule.
	CheckPattern CheckKind = "pattern"
	// CheckStructural rules are matched line by line by the structural pass.
	CheckStructural CheckKind = "structural"
	// CheckVocabulary rules are whole-text presence/absence checks run by
	// the behavioral and best-practices passes.
	CheckVocabulary CheckKind = "vocabulary"
)

// Phase assigns a vocabulary rule to one of the classifier passes.
type Phase string

const (
	PhaseBehavioral Phase = "behavioral"
	PhasePractice   Phase = "practice"
)

// PatternType represents the type of a pattern.
type PatternType string

const (
	PatternRegex    PatternType = "regex"
	PatternContains PatternType = "contains"
)

// GuardScope controls where a guard pattern suppresses a match.
type GuardScope string

const (
	// ScopeLine suppresses a match when the guard matches the same line.
	ScopeLine GuardScope = "line"
	// ScopeBlock suppresses a match when the guard matches anywhere in the
	// lines following the match, up to the next function definition.
	ScopeBlock GuardScope = "block"
)

// RawPattern is a single pattern as defined in YAML.
type RawPattern struct {
	Type  PatternType `yaml:"type"`
	Value string      `yaml:"value"`
}

// RawGuard is a suppression pattern as defined in YAML. Go's RE2 regexp has
// no negative lookahead, so the "not followed by X" conditions of the
// original detectors are expressed as guards instead.
type RawGuard struct {
	Type  PatternType `yaml:"type"`
	Value string      `yaml:"value"`
	Scope GuardScope  `yaml:"scope"`
}

// RawTerm is a vocabulary term. Terms match case-insensitively unless
// case_sensitive is set (used for syntactic tokens like "emit").
type RawTerm struct {
	Value         string `yaml:"value"`
	CaseSensitive bool   `yaml:"case_sensitive"`
}

// RawExamples contains test examples for rule self-testing.
type RawExamples struct {
	TruePositive  []string `yaml:"true_positive"`
	FalsePositive []string `yaml:"false_positive"`
}

// RawRule is the YAML representation of a detection rule.
type RawRule struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Severity    string       `yaml:"severity"`
	Category    string       `yaml:"category"`
	Check       string       `yaml:"check"`
	Phase       string       `yaml:"phase"`
	Patterns    []RawPattern `yaml:"patterns"`
	Guards      []RawGuard   `yaml:"guards"`
	Requires    []RawTerm    `yaml:"requires"`
	Forbids     []RawTerm    `yaml:"forbids"`
	Message     string       `yaml:"message"`
	Suggestion  string       `yaml:"suggestion"`
	Fix         string       `yaml:"fix"`
	Examples    RawExamples  `yaml:"examples"`
}

// CompiledPattern is a pattern ready for matching.
type CompiledPattern struct {
	Type  PatternType
	Regex *regexp.Regexp // set when Type == PatternRegex
	Value string         // set when Type == PatternContains (lowercased)
}

// CompiledGuard is a suppression pattern ready for matching.
type CompiledGuard struct {
	CompiledPattern
	Scope GuardScope
}

// Term is a compiled vocabulary term. Value is lowercased unless the term
// is case-sensitive.
type Term struct {
	Value         string
	CaseSensitive bool
}

// CompiledRule is a rule compiled and ready for execution.
type CompiledRule struct {
	ID          string
	Name        string
	Description string
	Severity    types.Severity
	Category    string
	Check       CheckKind
	Phase       Phase
	Patterns    []CompiledPattern
	Guards      []CompiledGuard
	Requires    []Term
	Forbids     []Term
	Message     string
	Suggestion  string
	Fix         string
	Examples    RawExamples
}

// ByCheck returns the rules with the given check kind, preserving order.
func ByCheck(compiled []*CompiledRule, kind CheckKind) []*CompiledRule {
	var result []*CompiledRule
	for _, r := range compiled {
		if r.Check == kind {
			result = append(result, r)
		}
	}
	return result
}

// ByPhase returns the vocabulary rules assigned to the given pass,
// preserving order.
func ByPhase(compiled []*CompiledRule, phase Phase) []*CompiledRule {
	var result []*CompiledRule
	for _, r := range compiled {
		if r.Check == CheckVocabulary && r.Phase == phase {
			result = append(result, r)
		}
	}
	return result
}
