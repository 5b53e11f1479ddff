// Package drift detects contract source changes between audit runs by
// comparing content hashes against a stored baseline. A change on its own
// is routine; a change that introduces upgrade hooks or self-destruct
// machinery after the code was audited is flagged as audit drift.
package drift

import (
	"context"
	"crypto/sha256"
	"fmt"
	"regexp"

	"github.com/yiranlandtour/solana-move/internal/scanner"
	"github.com/yiranlandtour/solana-move/internal/state"
	"github.com/yiranlandtour/solana-move/internal/types"
)

const analyzerName = "drift"

// dangerousPatterns mark changes that turn an audited contract hostile:
// code paths that reroute execution, destroy the contract, or swap the
// implementation out from under users.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)delegatecall`),
	regexp.MustCompile(`(?i)selfdestruct|suicide`),
	regexp.MustCompile(`(?i)tx\.origin`),
	regexp.MustCompile(`(?i)upgrade_to|set_implementation`),
}

// Analyzer compares each target against the last audited version in the
// state store. It only fires for on-disk targets; in-memory source has no
// stable identity to baseline against.
type Analyzer struct {
	store *state.Store
}

func New(store *state.Store) *Analyzer {
	return &Analyzer{store: store}
}

func (a *Analyzer) Name() string { return analyzerName }

// Analyze records the target's hash and flags it when the content changed
// since the previous audit and the new version matches a dangerous
// pattern. First sight of a file establishes the baseline silently.
func (a *Analyzer) Analyze(_ context.Context, target *scanner.Target) ([]types.Finding, error) {
	if target.RelPath == "" || len(target.Content) == 0 {
		return nil, nil
	}

	hash := fmt.Sprintf("%x", sha256.Sum256(target.Content))
	prev, exists := a.store.Get(target.RelPath)
	a.store.Set(target.RelPath, hash)

	if !exists || prev.Hash == hash {
		return nil, nil
	}

	content := string(target.Content)
	for _, pat := range dangerousPatterns {
		if !pat.MatchString(content) {
			continue
		}
		return []types.Finding{{
			RuleID:      "DRIFT_001",
			Severity:    types.SeverityCritical,
			Category:    "Audit Drift",
			Description: "Contract source changed since the last audit and the new version introduces dangerous constructs. Re-audit before trusting prior results.",
			File:        target.RelPath,
			MatchedText: pat.FindString(content),
			Suggestion:  "Diff against the audited revision and review the change that introduced " + pat.FindString(content),
			Analyzer:    analyzerName,
		}}, nil
	}

	return nil, nil
}
