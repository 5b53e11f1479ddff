package structural

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yiranlandtour/solana-move/internal/rules"
	"github.com/yiranlandtour/solana-move/internal/scanner"
)

func compile(t *testing.T, raw rules.RawRule) *rules.CompiledRule {
	t.Helper()
	r, err := rules.Compile(raw)
	require.NoError(t, err)
	return r
}

func magicNumberRule(t *testing.T) *rules.CompiledRule {
	return compile(t, rules.RawRule{
		ID:       "STRUCT_T1",
		Severity: "low",
		Category: "Hardcoded Value",
		Check:    "structural",
		Patterns: []rules.RawPattern{{Type: rules.PatternRegex, Value: `\d{10,}`}},
		Guards:   []rules.RawGuard{{Type: rules.PatternContains, Value: "const"}},
		Message:  "magic number in code",
		Fix:      "const VALUE = {match};",
	})
}

func TestAnalyzeRendersFixFromMatch(t *testing.T) {
	a := New([]*rules.CompiledRule{magicNumberRule(t)})

	source := "fn init() {\n    let cap = 1000000000000;\n}\n"
	findings, err := a.Analyze(context.Background(), &scanner.Target{Content: []byte(source)})

	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, 2, findings[0].Line)
	assert.Equal(t, "let cap = 1000000000000;", findings[0].MatchedText)
	assert.Equal(t, "const VALUE = 1000000000000;", findings[0].CodeFix)
	assert.Equal(t, "structural", findings[0].Analyzer)
}

func TestAnalyzeGuardSuppressesDeclaredConstants(t *testing.T) {
	a := New([]*rules.CompiledRule{magicNumberRule(t)})

	source := "const MAX_SUPPLY = 1000000000000;\n"
	findings, err := a.Analyze(context.Background(), &scanner.Target{Content: []byte(source)})

	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestAnalyzeContainsPattern(t *testing.T) {
	rule := compile(t, rules.RawRule{
		ID:       "STRUCT_T2",
		Severity: "low",
		Category: "Missing Error Message",
		Check:    "structural",
		Patterns: []rules.RawPattern{{Type: rules.PatternContains, Value: "require("}},
		Guards:   []rules.RawGuard{{Type: rules.PatternContains, Value: ","}},
		Message:  "assertion without error message",
	})
	a := New([]*rules.CompiledRule{rule})

	source := "require(amount > 0);\nrequire(amount > 0, EAmountZero);\n"
	findings, err := a.Analyze(context.Background(), &scanner.Target{Content: []byte(source)})

	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, 1, findings[0].Line)
}

func TestAnalyzeAppliesLineOffset(t *testing.T) {
	a := New([]*rules.CompiledRule{magicNumberRule(t)})

	target := &scanner.Target{Content: []byte("let x = 99999999999;\n"), LineOffset: 10}
	findings, err := a.Analyze(context.Background(), target)

	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, 11, findings[0].Line)
}

func TestNewIgnoresOtherCheckKinds(t *testing.T) {
	patternRule := compile(t, rules.RawRule{
		ID:       "PAT_T1",
		Severity: "high",
		Category: "Reentrancy",
		Patterns: []rules.RawPattern{{Type: rules.PatternRegex, Value: `transfer`}},
	})
	a := New([]*rules.CompiledRule{patternRule})

	findings, err := a.Analyze(context.Background(), &scanner.Target{Content: []byte("transfer(to, amount);\n")})

	require.NoError(t, err)
	assert.Empty(t, findings)
}
