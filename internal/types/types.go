// Package types defines shared data structures (Finding, Severity,
// AuditReport) used across scanner, meta, and engine packages to prevent
// import cycles.
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoInput is returned when the source text argument is nil. An empty
// (non-nil) source is valid input and yields only whole-unit findings.
var ErrNoInput = errors.New("no input: source text is nil")

// Severity represents the severity level of a finding. Higher values sort
// first in reports and carry larger score penalties.
type Severity int

const (
	SeverityLow Severity = iota + 1
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityHigh:
		return "HIGH"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityLow:
		return "LOW"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity converts a string to a Severity level.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CRITICAL":
		return SeverityCritical, nil
	case "HIGH":
		return SeverityHigh, nil
	case "MEDIUM":
		return SeverityMedium, nil
	case "LOW":
		return SeverityLow, nil
	default:
		return SeverityLow, fmt.Errorf("unknown severity: %q", s)
	}
}

// Finding represents a single security finding. Findings are value objects:
// created by analyzers, consumed read-only by meta and output.
type Finding struct {
	RuleID      string   `json:"rule_id"`
	Severity    Severity `json:"severity"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	File        string   `json:"file,omitempty"`
	Line        int      `json:"line,omitempty"` // 1-based; 0 means whole-unit
	MatchedText string   `json:"matched_text,omitempty"`
	Suggestion  string   `json:"suggestion,omitempty"`
	CodeFix     string   `json:"code_fix,omitempty"`
	Analyzer    string   `json:"analyzer"`
}

// Key returns the deduplication identity of a finding. Two findings with the
// same category and the same location (including both having no location)
// are considered the same issue; the first encountered wins. This coarse
// policy can collapse two distinct issues of the same category on one line.
func (f Finding) Key() string {
	return fmt.Sprintf("%s:%s:%d", f.Category, f.File, f.Line)
}

// AuditReport holds the finalized results of one audit invocation:
// deduplicated findings sorted descending by severity, an aggregate security
// score in [0, 100], and a one-line summary. Immutable after construction.
type AuditReport struct {
	Findings      []Finding     `json:"findings"`
	SecurityScore int           `json:"security_score"`
	Summary       string        `json:"summary"`
	FilesScanned  int           `json:"files_scanned"`
	RulesLoaded   int           `json:"rules_loaded"`
	Duration      time.Duration `json:"-"`
	Target        string        `json:"-"`
}

// MarshalJSON implements custom JSON marshaling so Duration serializes as milliseconds.
func (r AuditReport) MarshalJSON() ([]byte, error) {
	type Alias AuditReport
	return json.Marshal(struct {
		Alias
		DurationMS int64 `json:"duration_ms"`
	}{
		Alias:      Alias(r),
		DurationMS: r.Duration.Milliseconds(),
	})
}
