package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/yiranlandtour/solana-move/internal/types"
)

// ANSI color codes
const (
	reset     = "\033[0m"
	bold      = "\033[1m"
	dim       = "\033[2m"
	underline = "\033[4m"
	red       = "\033[31m"
	green     = "\033[32m"
	yellow    = "\033[33m"
	blue      = "\033[34m"
	cyan      = "\033[36m"
)

const (
	barWidth  = 40
	lineWidth = 72
)

// TerminalFormatter renders findings in a triage-optimized ANSI layout:
// score, severity dashboard, per-severity sections grouped by file.
type TerminalFormatter struct {
	NoColor bool
	Verbose bool
}

func (f *TerminalFormatter) color(code, text string) string {
	if f.NoColor {
		return text
	}
	return code + text + reset
}

func (f *TerminalFormatter) Format(w io.Writer, report *types.AuditReport) error {
	if !f.NoColor && os.Getenv("NO_COLOR") != "" {
		f.NoColor = true
	}

	f.printHeader(w, report)
	f.printScore(w, report.SecurityScore)

	if len(report.Findings) == 0 {
		fmt.Fprintf(w, "\n  %s No security issues found.\n", f.color(green, "✔"))
	} else {
		f.printDashboard(w, countBySeverity(report.Findings))
		for _, sev := range severityOrder {
			filtered := filterBySeverity(report.Findings, sev)
			if len(filtered) > 0 {
				f.printSeveritySection(w, sev, filtered)
			}
		}
		f.printTopFiles(w, report.Findings)
	}

	f.printFooter(w, report)
	return nil
}

func (f *TerminalFormatter) separator() string {
	return strings.Repeat("─", lineWidth)
}

func (f *TerminalFormatter) sectionHeader(title string) string {
	prefix := "── " + title + " "
	remaining := max(lineWidth-utf8.RuneCountInString(prefix), 0)
	return prefix + strings.Repeat("─", remaining)
}

func (f *TerminalFormatter) printHeader(w io.Writer, report *types.AuditReport) {
	sep := f.separator()
	fmt.Fprintf(w, "\n%s\n", f.color(dim, sep))
	fmt.Fprintf(w, "  %s\n", f.color(bold, "CCAUDIT SECURITY REPORT"))

	parts := []string{}
	if report.Target != "" {
		parts = append(parts, fmt.Sprintf("Target: %s", report.Target))
	}
	parts = append(parts, fmt.Sprintf("%d files", report.FilesScanned))
	parts = append(parts, fmt.Sprintf("%d rules", report.RulesLoaded))
	if report.Duration > 0 {
		parts = append(parts, fmt.Sprintf("%.2fs", report.Duration.Seconds()))
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(parts, "  ·  "))
	fmt.Fprintf(w, "%s\n", f.color(dim, sep))
}

func (f *TerminalFormatter) printScore(w io.Writer, score int) {
	code := green
	switch {
	case score < 50:
		code = red + bold
	case score < 80:
		code = yellow
	}
	fmt.Fprintf(w, "\n  Security Score: %s\n", f.color(code, fmt.Sprintf("%d/100", score)))
}

func (f *TerminalFormatter) printDashboard(w io.Writer, counts map[types.Severity]int) {
	highest := 0
	for _, c := range counts {
		if c > highest {
			highest = c
		}
	}
	if highest == 0 {
		return
	}

	fmt.Fprintln(w)
	total := 0
	for _, sev := range severityOrder {
		c := counts[sev]
		total += c
		if c == 0 {
			continue
		}
		label := fmt.Sprintf("  %-10s", sev.String())
		fmt.Fprintf(w, "%s %s %4d\n", f.color(bold, label), f.renderBar(c, highest, sev), c)
	}
	fmt.Fprintf(w, "\n  %s\n", f.color(bold, fmt.Sprintf("%d findings", total)))
}

func (f *TerminalFormatter) printSeveritySection(w io.Writer, sev types.Severity, findings []types.Finding) {
	header := f.sectionHeader(fmt.Sprintf("%s (%d)", sev.String(), len(findings)))
	fmt.Fprintf(w, "\n%s\n", f.color(bold, header))

	for _, group := range groupByFile(findings) {
		path := group.path
		if path == "" {
			path = "(source)"
		}
		fmt.Fprintf(w, "\n  %s\n", f.color(bold+underline, path))
		for _, finding := range group.findings {
			f.printFinding(w, finding)
		}
	}
}

func (f *TerminalFormatter) printFinding(w io.Writer, finding types.Finding) {
	icon := f.severityIcon(finding.Severity)
	ruleID := fmt.Sprintf("%-14s", finding.RuleID)
	category := fmt.Sprintf("%-28s", flatten(finding.Category, 28))

	loc := "whole unit"
	if finding.Line > 0 {
		loc = fmt.Sprintf("L%d", finding.Line)
	}

	fmt.Fprintf(w, "    %s %s %s %s\n",
		icon,
		f.color(bold, ruleID),
		category,
		f.color(cyan, loc),
	)

	if finding.MatchedText != "" {
		fmt.Fprintf(w, "      %s %s\n", f.color(dim, "│"), f.color(dim, flatten(finding.MatchedText, 60)))
	}
	if f.Verbose && finding.Suggestion != "" {
		fmt.Fprintf(w, "      %s %s\n", f.color(dim, "│"), f.color(yellow, finding.Suggestion))
	}
}

func (f *TerminalFormatter) printTopFiles(w io.Writer, findings []types.Finding) {
	sorted := topFiles(findings, 5)
	if len(sorted) < 2 {
		return
	}

	fmt.Fprintf(w, "\n%s\n\n", f.color(bold, f.sectionHeader("TOP AFFECTED FILES")))
	for _, fc := range sorted {
		fmt.Fprintf(w, "  %4d  %s\n", fc.count, fc.path)
	}
}

func (f *TerminalFormatter) printFooter(w io.Writer, report *types.AuditReport) {
	sep := f.separator()
	fmt.Fprintf(w, "\n%s\n", f.color(dim, sep))
	fmt.Fprintf(w, "  %s\n", report.Summary)
	fmt.Fprintf(w, "%s\n", f.color(dim, sep))
}

func (f *TerminalFormatter) severityIcon(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return f.color(red+bold, "✖")
	case types.SeverityHigh:
		return f.color(red, "▲")
	case types.SeverityMedium:
		return f.color(yellow, "■")
	case types.SeverityLow:
		return f.color(blue, "●")
	default:
		return "?"
	}
}

func (f *TerminalFormatter) severityColor(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return red + bold
	case types.SeverityHigh:
		return red
	case types.SeverityMedium:
		return yellow
	case types.SeverityLow:
		return blue
	default:
		return ""
	}
}

func (f *TerminalFormatter) renderBar(count, highest int, sev types.Severity) string {
	filled := count * barWidth / highest
	if filled == 0 {
		filled = 1
	}
	if filled >= barWidth {
		filled = barWidth - 1
	}
	return f.color(f.severityColor(sev), strings.Repeat("█", filled)) +
		f.color(dim, strings.Repeat("░", barWidth-filled))
}
