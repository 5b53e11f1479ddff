// Package output formats audit reports for terminal (ANSI), Markdown,
// JSON, and SARIF output.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/yiranlandtour/solana-move/internal/types"
)

// ToolVersion is the ccaudit version reported in SARIF and Markdown output.
var ToolVersion = "dev"

// Formatter is the interface for rendering an audit report.
type Formatter interface {
	Format(w io.Writer, report *types.AuditReport) error
}

// ByName returns the formatter registered under the given name.
func ByName(name string, noColor bool) (Formatter, error) {
	switch name {
	case "terminal", "":
		return &TerminalFormatter{NoColor: noColor}, nil
	case "markdown", "md":
		return &MarkdownFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	case "sarif":
		return &SARIFFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (terminal, markdown, json, sarif)", name)
	}
}

// severityOrder is the fixed display order, highest first.
var severityOrder = []types.Severity{
	types.SeverityCritical,
	types.SeverityHigh,
	types.SeverityMedium,
	types.SeverityLow,
}

func countBySeverity(findings []types.Finding) map[types.Severity]int {
	counts := map[types.Severity]int{}
	for _, f := range findings {
		counts[f.Severity]++
	}
	return counts
}

func filterBySeverity(findings []types.Finding, sev types.Severity) []types.Finding {
	var out []types.Finding
	for _, f := range findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

type fileGroup struct {
	path     string
	findings []types.Finding
}

// groupByFile groups findings by file, files ordered by their first
// appearance so the grouping is stable across runs.
func groupByFile(findings []types.Finding) []fileGroup {
	index := map[string]int{}
	var groups []fileGroup
	for _, f := range findings {
		i, ok := index[f.File]
		if !ok {
			i = len(groups)
			index[f.File] = i
			groups = append(groups, fileGroup{path: f.File})
		}
		groups[i].findings = append(groups[i].findings, f)
	}
	return groups
}

type fileCount struct {
	path  string
	count int
}

func topFiles(findings []types.Finding, limit int) []fileCount {
	counts := map[string]int{}
	for _, f := range findings {
		counts[f.File]++
	}
	sorted := make([]fileCount, 0, len(counts))
	for path, count := range counts {
		sorted = append(sorted, fileCount{path, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].path < sorted[j].path
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func flatten(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\t", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
