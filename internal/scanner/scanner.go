package scanner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/yiranlandtour/solana-move/internal/meta"
	"github.com/yiranlandtour/solana-move/internal/types"
)

// Scanner orchestrates the audit pipeline: it fans source text out to every
// registered analyzer and merges their findings into a ranked report. One
// Scanner may be reused across any number of concurrent audits; all per-run
// state lives on the stack.
type Scanner struct {
	analyzers      []Analyzer
	workers        int
	minSeverity    Severity
	ignorePatterns []string
}

// New creates a new Scanner with the given number of workers.
// If workers <= 0, it defaults to runtime.NumCPU().
func New(workers int) *Scanner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Scanner{
		workers: workers,
	}
}

// RegisterAnalyzer adds an analyzer to the scanner pipeline. Registration
// order fixes the first-seen order for deduplication.
func (s *Scanner) RegisterAnalyzer(a Analyzer) {
	s.analyzers = append(s.analyzers, a)
}

// SetMinSeverity sets the minimum severity for reported findings.
func (s *Scanner) SetMinSeverity(sev Severity) {
	s.minSeverity = sev
}

// SetIgnorePatterns sets additional file ignore patterns from config.
func (s *Scanner) SetIgnorePatterns(patterns []string) {
	s.ignorePatterns = patterns
}

// AuditSource audits a single in-memory unit of source text. The source is
// treated as opaque contract text, not parsed. A nil source is the only
// caller error; empty source is valid and yields at most whole-unit
// findings. All analyzers run concurrently; results are assembled in
// registration order so the report is identical to a sequential run.
func (s *Scanner) AuditSource(ctx context.Context, source []byte) (*AuditReport, error) {
	if source == nil {
		return nil, types.ErrNoInput
	}
	start := time.Now()

	target := &Target{Content: source}
	lists := make([][]Finding, len(s.analyzers))

	var wg sync.WaitGroup
	for i, a := range s.analyzers {
		i, a := i, a
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, err := a.Analyze(ctx, target)
			if err != nil {
				return
			}
			lists[i] = s.filterMin(results)
		}()
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	report := meta.Merge(lists...)
	report.FilesScanned = 1
	report.Duration = time.Since(start)
	return report, nil
}

// Scan performs a full audit of the given path. The path can be a directory
// (walked recursively) or a single file.
func (s *Scanner) Scan(ctx context.Context, root string) (*AuditReport, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		targets := []*Target{{
			Path:    root,
			RelPath: filepath.Base(root),
		}}
		return s.ScanTargets(ctx, targets)
	}

	discovery := &TargetDiscovery{IgnorePatterns: s.ignorePatterns}
	targets, err := discovery.Discover(root)
	if err != nil {
		return nil, err
	}

	return s.ScanTargets(ctx, targets)
}

// ScanTargets runs the audit pipeline on a pre-built list of targets.
// Targets are processed by a worker pool, but findings are assembled into
// per-target slots and merged in target order, so the report does not
// depend on scheduling.
func (s *Scanner) ScanTargets(ctx context.Context, targets []*Target) (*AuditReport, error) {
	start := time.Now()

	idxCh := make(chan int, len(targets))
	for i := range targets {
		idxCh <- i
	}
	close(idxCh)

	slots := make([][]Finding, len(targets))
	var wg sync.WaitGroup
	for n := 0; n < s.workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range idxCh {
				if ctx.Err() != nil {
					return
				}
				slots[idx] = s.auditTarget(ctx, targets[idx])
			}
		}()
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	report := meta.Merge(slots...)
	report.FilesScanned = len(targets)
	report.Duration = time.Since(start)
	return report, nil
}

// auditTarget loads one file, expands markdown code fences into
// sub-targets, and runs every analyzer over each in registration order.
func (s *Scanner) auditTarget(ctx context.Context, target *Target) []Finding {
	if target.Content == nil {
		if err := target.LoadContent(); err != nil {
			return nil
		}
	}
	var findings []Finding
	for _, sub := range expand(target) {
		for _, analyzer := range s.analyzers {
			if ctx.Err() != nil {
				return findings
			}
			results, err := analyzer.Analyze(ctx, sub)
			if err != nil {
				continue
			}
			findings = append(findings, results...)
		}
	}
	return s.filterMin(findings)
}

func (s *Scanner) filterMin(findings []Finding) []Finding {
	if s.minSeverity <= SeverityLow {
		return findings
	}
	var filtered []Finding
	for _, f := range findings {
		if f.Severity >= s.minSeverity {
			filtered = append(filtered, f)
		}
	}
	return filtered
}
