package scanner

// This package re-exports types from internal/types for convenience.
// The canonical types live in internal/types to avoid import cycles.

import "github.com/yiranlandtour/solana-move/internal/types"

type (
	Severity    = types.Severity
	Finding     = types.Finding
	AuditReport = types.AuditReport
)

const (
	SeverityLow      = types.SeverityLow
	SeverityMedium   = types.SeverityMedium
	SeverityHigh     = types.SeverityHigh
	SeverityCritical = types.SeverityCritical
)

var ParseSeverity = types.ParseSeverity
