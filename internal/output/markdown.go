package output

import (
	"fmt"
	"io"

	"github.com/yiranlandtour/solana-move/internal/types"
)

// MarkdownFormatter renders the canonical audit report: a summary block
// with the security score and per-severity counts, then one numbered
// section per finding. The output is byte-identical for identical input;
// nothing here reads the clock or any other ambient state.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) Format(w io.Writer, report *types.AuditReport) error {
	fmt.Fprintf(w, "# Security Audit Report\n\n")

	counts := countBySeverity(report.Findings)
	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "- Security Score: %d/100\n", report.SecurityScore)
	fmt.Fprintf(w, "- Total Findings: %d\n", len(report.Findings))
	fmt.Fprintf(w, "- Critical: %d\n", counts[types.SeverityCritical])
	fmt.Fprintf(w, "- High: %d\n", counts[types.SeverityHigh])
	fmt.Fprintf(w, "- Medium: %d\n", counts[types.SeverityMedium])
	fmt.Fprintf(w, "- Low: %d\n", counts[types.SeverityLow])

	if len(report.Findings) == 0 {
		fmt.Fprintf(w, "\nNo security issues found.\n")
		return nil
	}

	fmt.Fprintf(w, "\n## Findings\n")
	for i, finding := range report.Findings {
		fmt.Fprintf(w, "\n### %d. [%s] %s\n\n", i+1, finding.Severity, finding.Category)
		fmt.Fprintf(w, "- Description: %s\n", finding.Description)
		fmt.Fprintf(w, "- Location: %s\n", location(finding))
		fmt.Fprintf(w, "- Recommendation: %s\n", orNA(finding.Suggestion))
		if finding.CodeFix != "" {
			fmt.Fprintf(w, "- Suggested Fix:\n\n```\n%s\n```\n", finding.CodeFix)
		} else {
			fmt.Fprintf(w, "- Suggested Fix: N/A\n")
		}
	}

	return nil
}

// location renders "file:line", just the line for in-memory source, or
// N/A for whole-unit findings.
func location(f types.Finding) string {
	if f.Line == 0 {
		return "N/A"
	}
	if f.File == "" {
		return fmt.Sprintf("Line %d", f.Line)
	}
	return fmt.Sprintf("%s, Line %d", f.File, f.Line)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
