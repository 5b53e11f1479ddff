// Package scanner orchestrates target discovery and multi-analyzer
// execution. Every analyzer is a pure function over the immutable target
// content; the orchestrator runs them concurrently and assembles results in
// registration order so concurrent and sequential runs produce identical
// reports.
package scanner

import "context"

// Analyzer is the interface that all analysis passes must implement.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, target *Target) ([]Finding, error)
}
