package meta

import (
	"github.com/yiranlandtour/solana-move/internal/types"
)

// severityPenalty is the per-finding deduction applied to a perfect score.
var severityPenalty = map[types.Severity]int{
	types.SeverityCritical: 25,
	types.SeverityHigh:     15,
	types.SeverityMedium:   10,
	types.SeverityLow:      5,
}

// Score computes the security score for a deduplicated set of findings.
// The score starts at 100 and loses points per finding by severity,
// clamped to [0, 100]. An empty set scores a perfect 100.
func Score(findings []types.Finding) int {
	score := 100
	for _, f := range findings {
		score -= severityPenalty[f.Severity]
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
