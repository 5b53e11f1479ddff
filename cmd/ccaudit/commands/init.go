package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	flagHook   bool
	flagCIOnly bool
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize ccaudit configuration files",
	Long:  `Scaffolds .ccaudit.yml, .ccauditignore, and a GitHub Actions workflow for contract auditing.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&flagHook, "hook", false, "Create a git pre-commit hook that runs ccaudit")
	initCmd.Flags().BoolVar(&flagCIOnly, "ci", false, "Only generate GitHub Actions workflow (skip config files)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	if flagHook {
		return initHook(dir)
	}

	if flagCIOnly {
		return initCIOnly(dir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	files := []struct {
		path    string
		content string
	}{
		{filepath.Join(dir, ".ccaudit.yml"), configTemplate},
		{filepath.Join(dir, ".ccauditignore"), ignoreTemplate},
		{filepath.Join(dir, ".github", "workflows", "ccaudit.yml"), workflowTemplate},
	}

	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			fmt.Printf("  skip %s (already exists)\n", f.path)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", f.path, err)
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
		fmt.Printf("  create %s\n", f.path)
	}

	return nil
}

func initHook(dir string) error {
	gitDir := filepath.Join(dir, ".git")
	if _, err := os.Stat(gitDir); os.IsNotExist(err) {
		return fmt.Errorf("no .git directory found in %s (is this a git repository?)", dir)
	}

	hookPath := filepath.Join(gitDir, "hooks", "pre-commit")
	if _, err := os.Stat(hookPath); err == nil {
		fmt.Printf("  skip %s (already exists)\n", hookPath)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(hookPath), 0755); err != nil {
		return fmt.Errorf("creating hooks directory: %w", err)
	}
	if err := os.WriteFile(hookPath, []byte(preCommitTemplate), 0755); err != nil {
		return fmt.Errorf("writing pre-commit hook: %w", err)
	}
	fmt.Printf("  create %s\n", hookPath)
	return nil
}

func initCIOnly(dir string) error {
	wfPath := filepath.Join(dir, ".github", "workflows", "ccaudit.yml")
	if _, err := os.Stat(wfPath); err == nil {
		fmt.Printf("  skip %s (already exists)\n", wfPath)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(wfPath), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", wfPath, err)
	}
	if err := os.WriteFile(wfPath, []byte(workflowTemplate), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", wfPath, err)
	}
	fmt.Printf("  create %s\n", wfPath)
	return nil
}

const configTemplate = `# ccaudit configuration
# https://github.com/yiranlandtour/solana-move

# Paths to audit (default: current directory)
# paths:
#   - contracts/

# File patterns to ignore
ignore:
  - "*.log"
  - "build/"
  - "target/"
  - ".git/"

# Minimum severity to report: critical, high, medium, low
severity: low

# Exit with code 1 if findings at or above this severity
# fail_on: high

# Output format: terminal, markdown, json, sarif
format: terminal

# Additional rules directory
# rules: custom-rules/

# Per-rule overrides
# rule_overrides:
#   TIME_001:
#     severity: medium
#   STRUCT_001:
#     disabled: true
`

const ignoreTemplate = `# ccaudit ignore patterns
# Files matching these patterns will be skipped during audits

# Build artifacts
build/
target/
dist/
*.wasm
*.so

# Dependencies
node_modules/
.venv/

# IDE and editor
.idea/
.vscode/
*.swp

# Logs and temp
*.log
tmp/
`

const preCommitTemplate = `#!/bin/sh
# ccaudit pre-commit hook
echo "Running ccaudit..."
ccaudit audit . --fail-on high --no-color
exit $?
`

const workflowTemplate = `name: Contract Security Audit

on:
  push:
    branches: [main]
  pull_request:
    branches: [main]

permissions:
  security-events: write
  contents: read

jobs:
  ccaudit:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4

      - uses: actions/setup-go@v5
        with:
          go-version: stable

      - name: Install ccaudit
        run: go install github.com/yiranlandtour/solana-move/cmd/ccaudit@latest

      - name: Run audit
        id: audit
        continue-on-error: true
        run: ccaudit audit . --format sarif --output results.sarif --fail-on high

      - name: Upload SARIF results
        if: always()
        uses: github/codeql-action/upload-sarif@v3
        with:
          sarif_file: results.sarif

      - name: Fail on findings
        if: steps.audit.outcome == 'failure'
        run: exit 1
`
