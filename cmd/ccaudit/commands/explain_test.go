package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	solanamove "github.com/yiranlandtour/solana-move"
)

func TestExplainTerminal(t *testing.T) {
	flagFormat = "terminal"
	flagRules = ""

	out := execute(t, "explain", "flow_001")

	require.Contains(t, out, "FLOW_001")
	require.Contains(t, out, "Severity: MEDIUM")
	require.Contains(t, out, "Category: Flash Loan")
	require.Contains(t, out, "[requires] flash")
}

func TestExplainJSON(t *testing.T) {
	flagRules = ""

	out := execute(t, "explain", "REENT_001", "--format", "json")

	var detail solanamove.RuleDetail
	require.NoError(t, json.Unmarshal([]byte(out), &detail))
	require.Equal(t, "REENT_001", detail.ID)
	require.Equal(t, "CRITICAL", detail.Severity)
	require.NotEmpty(t, detail.Patterns)
}

func TestExplainUnknownRule(t *testing.T) {
	flagRules = ""

	rootCmd.SetArgs([]string{"explain", "NOPE_999"})
	defer rootCmd.SetArgs(nil)
	rootCmd.SilenceErrors = true
	defer func() { rootCmd.SilenceErrors = false }()

	require.Error(t, rootCmd.Execute())
}
