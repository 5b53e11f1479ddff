package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yiranlandtour/solana-move/internal/types"
)

// stubAnalyzer emits one finding per call with a fixed category.
type stubAnalyzer struct {
	name     string
	severity Severity
	category string
	err      error
}

func (s *stubAnalyzer) Name() string { return s.name }

func (s *stubAnalyzer) Analyze(_ context.Context, target *Target) ([]Finding, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []Finding{{
		RuleID:   s.name,
		Severity: s.severity,
		Category: s.category,
		File:     target.RelPath,
		Analyzer: s.name,
	}}, nil
}

func TestAuditSourceNilReturnsErrNoInput(t *testing.T) {
	s := New(1)
	_, err := s.AuditSource(context.Background(), nil)
	require.ErrorIs(t, err, types.ErrNoInput)
}

func TestAuditSourceEmptyIsValid(t *testing.T) {
	s := New(1)
	s.RegisterAnalyzer(&stubAnalyzer{name: "a", severity: SeverityLow, category: "A"})

	report, err := s.AuditSource(context.Background(), []byte{})
	require.NoError(t, err)
	assert.Len(t, report.Findings, 1)
	assert.Equal(t, 1, report.FilesScanned)
}

func TestAuditSourceRegistrationOrderWins(t *testing.T) {
	// Same dedup key from two analyzers: the first registered wins even
	// though both run concurrently.
	s := New(4)
	s.RegisterAnalyzer(&stubAnalyzer{name: "first", severity: SeverityLow, category: "Shared"})
	s.RegisterAnalyzer(&stubAnalyzer{name: "second", severity: SeverityCritical, category: "Shared"})

	for n := 0; n < 10; n++ {
		report, err := s.AuditSource(context.Background(), []byte("x"))
		require.NoError(t, err)
		require.Len(t, report.Findings, 1)
		assert.Equal(t, "first", report.Findings[0].RuleID)
	}
}

func TestAuditSourceAnalyzerErrorSkipped(t *testing.T) {
	s := New(2)
	s.RegisterAnalyzer(&stubAnalyzer{name: "broken", err: errors.New("boom")})
	s.RegisterAnalyzer(&stubAnalyzer{name: "ok", severity: SeverityLow, category: "A"})

	report, err := s.AuditSource(context.Background(), []byte("x"))
	require.NoError(t, err)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, "ok", report.Findings[0].RuleID)
}

func TestAuditSourceCancelledContext(t *testing.T) {
	s := New(1)
	s.RegisterAnalyzer(&stubAnalyzer{name: "a", severity: SeverityLow, category: "A"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.AuditSource(ctx, []byte("x"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestMinSeverityFilter(t *testing.T) {
	s := New(1)
	s.RegisterAnalyzer(&stubAnalyzer{name: "low", severity: SeverityLow, category: "A"})
	s.RegisterAnalyzer(&stubAnalyzer{name: "high", severity: SeverityHigh, category: "B"})
	s.SetMinSeverity(SeverityMedium)

	report, err := s.AuditSource(context.Background(), []byte("x"))
	require.NoError(t, err)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, "high", report.Findings[0].RuleID)
}

func TestScanSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.move")
	require.NoError(t, os.WriteFile(path, []byte("fn f() {}"), 0644))

	s := New(1)
	s.RegisterAnalyzer(&stubAnalyzer{name: "a", severity: SeverityLow, category: "A"})

	report, err := s.Scan(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, report.FilesScanned)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, "vault.move", report.Findings[0].File)
}

func TestScanDirectoryDeterministicOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.move", "b.move", "c.move"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("fn f() {}"), 0644))
	}

	s := New(4)
	s.RegisterAnalyzer(&stubAnalyzer{name: "stub", severity: SeverityLow, category: "A"})

	first, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, first.Findings, 3)
	assert.Equal(t, 3, first.FilesScanned)

	// Findings arrive in discovery order regardless of worker scheduling.
	for n := 0; n < 5; n++ {
		next, err := s.Scan(context.Background(), dir)
		require.NoError(t, err)
		require.Len(t, next.Findings, 3)
		for i := range first.Findings {
			assert.Equal(t, first.Findings[i].File, next.Findings[i].File)
		}
	}
}

func TestScanMissingPath(t *testing.T) {
	s := New(1)
	_, err := s.Scan(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

func TestScanRespectsIgnorePatterns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.move"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.log"), []byte("x"), 0644))

	s := New(1)
	s.RegisterAnalyzer(&stubAnalyzer{name: "stub", severity: SeverityLow, category: "A"})
	s.SetIgnorePatterns([]string{"*.log"})

	report, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, "keep.move", report.Findings[0].File)
}

func TestScanRespectsIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".ccauditignore"), []byte("# comment\nbuild/**\n*.tmp\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "build"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "build", "out.move"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.tmp"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.move"), []byte("x"), 0644))

	td := &TargetDiscovery{}
	targets, err := td.Discover(dir)
	require.NoError(t, err)

	var rels []string
	for _, tgt := range targets {
		rels = append(rels, tgt.RelPath)
	}
	assert.NotContains(t, rels, "x.tmp")
	assert.Contains(t, rels, "keep.move")
	assert.Contains(t, rels, ".ccauditignore")
	assert.NotContains(t, rels, filepath.Join("build", "out.move"))
}

func TestDiscoverSkipsBinaries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mod.wasm"), []byte{0x00, 0x61}, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mod.move"), []byte("x"), 0644))

	td := &TargetDiscovery{}
	targets, err := td.Discover(dir)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "mod.move", targets[0].RelPath)
}

func TestExpandMarkdown(t *testing.T) {
	md := "# Doc\n\n```move\nfn f() {}\n```\n\nprose\n\n```\nlet x = 1;\n```\n"
	target := &Target{RelPath: "doc.md", Content: []byte(md)}

	subs := expand(target)
	require.Len(t, subs, 2)
	assert.Equal(t, "fn f() {}\n", string(subs[0].Content))
	assert.Equal(t, 3, subs[0].LineOffset)
	assert.Equal(t, "let x = 1;\n", string(subs[1].Content))
	assert.Equal(t, 9, subs[1].LineOffset)
}

func TestExpandMarkdownWithoutFences(t *testing.T) {
	target := &Target{RelPath: "notes.md", Content: []byte("just prose\n")}
	assert.Empty(t, expand(target))
}

func TestExpandNonMarkdownReturnsSelf(t *testing.T) {
	target := &Target{RelPath: "vault.move", Content: []byte("fn f() {}")}
	subs := expand(target)
	require.Len(t, subs, 1)
	assert.Same(t, target, subs[0])
}

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"*.log", "debug.log", true},
		{"*.log", "sub/debug.log", true}, // base-name match
		{"build/", "build/out.move", true},
		{"build/", "builds/out.move", false},
		{"build/**", "build/out.move", true},
		{"build/**", "build/deep/out.move", true},
		{"build/**", "src/out.move", false},
		{"**/*.yaml", "a/b/rules.yaml", true},
		{"**/*.yaml", "rules.yaml", true},
		{"src/**/*.move", "src/a/b/vault.move", true},
		{"src/**/*.move", "lib/vault.move", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.pattern, tt.path), func(t *testing.T) {
			assert.Equal(t, tt.want, matchGlob(tt.pattern, tt.path))
		})
	}
}
