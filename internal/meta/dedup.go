// Package meta post-processes raw analyzer findings: duplicate collapse,
// security scoring and final ranking. Every operation here is deterministic
// with respect to input order.
package meta

import (
	"github.com/yiranlandtour/solana-move/internal/types"
)

// Dedup collapses findings that point at the same weakness. Two findings
// collide when they share a category and location key; the first one seen
// wins and keeps its severity, description and fix, even when a later
// duplicate carries a higher severity. Input order is preserved.
func Dedup(findings []types.Finding) []types.Finding {
	seen := make(map[string]struct{}, len(findings))
	unique := make([]types.Finding, 0, len(findings))
	for _, f := range findings {
		key := f.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, f)
	}
	return unique
}
