package gasopt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeLoopStorageWrite(t *testing.T) {
	source := []byte(`fn tally(items: vector<u64>) {
    for item in items {
        total = total + item;
    }
}`)

	suggestions := Analyze(source)

	require.Len(t, suggestions, 1)
	assert.Equal(t, "Storage Access", suggestions[0].Category)
	assert.Equal(t, "high", suggestions[0].Impact)
}

func TestAnalyzeNestedMap(t *testing.T) {
	source := []byte("struct Ledger { balances: map<address, map<u64, u64>> }\n")

	suggestions := Analyze(source)

	require.Len(t, suggestions, 1)
	assert.Equal(t, "Data Layout", suggestions[0].Category)
}

func TestAnalyzeCleanSource(t *testing.T) {
	source := []byte("fn transfer(to: address, amount: u64) {\n    balances[to] = amount;\n}\n")

	assert.Empty(t, Analyze(source))
}

func TestAnalyzeOrderIsStable(t *testing.T) {
	source := []byte(`struct S { m: map<address, map<u64, u64>> }
fn run(items: vector<u64>) {
    for item in items {
        total = total + item;
    }
}`)

	suggestions := Analyze(source)

	require.Len(t, suggestions, 2)
	assert.Equal(t, "Storage Access", suggestions[0].Category)
	assert.Equal(t, "Data Layout", suggestions[1].Category)
}
