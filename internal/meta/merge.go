package meta

import (
	"fmt"
	"sort"

	"github.com/yiranlandtour/solana-move/internal/types"
)

// Merge concatenates per-analyzer finding lists in the order given,
// deduplicates them, scores the survivors and sorts them by severity,
// highest first. The sort is stable: findings with equal severity keep
// their arrival order, so the caller's analyzer registration order is the
// final tiebreaker.
func Merge(lists ...[]types.Finding) *types.AuditReport {
	var combined []types.Finding
	for _, list := range lists {
		combined = append(combined, list...)
	}

	unique := Dedup(combined)
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Severity > unique[j].Severity
	})

	return &types.AuditReport{
		Findings:      unique,
		SecurityScore: Score(unique),
		Summary:       fmt.Sprintf("Found %d unique vulnerabilities", len(unique)),
	}
}
