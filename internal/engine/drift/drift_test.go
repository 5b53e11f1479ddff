package drift

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yiranlandtour/solana-move/internal/scanner"
	"github.com/yiranlandtour/solana-move/internal/state"
	"github.com/yiranlandtour/solana-move/internal/types"
)

func newStore(t *testing.T) *state.Store {
	t.Helper()
	return state.New(filepath.Join(t.TempDir(), "state.json"))
}

func target(rel, content string) *scanner.Target {
	return &scanner.Target{RelPath: rel, Content: []byte(content)}
}

func TestFirstSightEstablishesBaseline(t *testing.T) {
	a := New(newStore(t))

	findings, err := a.Analyze(context.Background(), target("vault.move", "fn withdraw() {}"))

	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestUnchangedContentIsSilent(t *testing.T) {
	a := New(newStore(t))
	src := target("vault.move", "fn withdraw() {}")

	_, err := a.Analyze(context.Background(), src)
	require.NoError(t, err)
	findings, err := a.Analyze(context.Background(), src)

	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestDangerousChangeFlagged(t *testing.T) {
	a := New(newStore(t))

	_, err := a.Analyze(context.Background(), target("vault.move", "fn withdraw() {}"))
	require.NoError(t, err)

	changed := target("vault.move", "fn withdraw() { upgrade_to(new_impl); }")
	findings, err := a.Analyze(context.Background(), changed)

	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "DRIFT_001", findings[0].RuleID)
	assert.Equal(t, types.SeverityCritical, findings[0].Severity)
	assert.Equal(t, "Audit Drift", findings[0].Category)
	assert.Zero(t, findings[0].Line)
}

func TestBenignChangeIsSilent(t *testing.T) {
	a := New(newStore(t))

	_, err := a.Analyze(context.Background(), target("vault.move", "fn withdraw() {}"))
	require.NoError(t, err)

	findings, err := a.Analyze(context.Background(), target("vault.move", "fn withdraw() { check(); }"))

	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestInMemoryTargetsSkipped(t *testing.T) {
	a := New(newStore(t))

	findings, err := a.Analyze(context.Background(), target("", "selfdestruct"))

	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestBaselineUpdatedAfterChange(t *testing.T) {
	store := newStore(t)
	a := New(store)

	_, err := a.Analyze(context.Background(), target("vault.move", "v1"))
	require.NoError(t, err)
	_, err = a.Analyze(context.Background(), target("vault.move", "v2 delegatecall"))
	require.NoError(t, err)

	// Rescanning the new version compares against its own hash.
	findings, err := a.Analyze(context.Background(), target("vault.move", "v2 delegatecall"))
	require.NoError(t, err)
	assert.Empty(t, findings)
}
