// Package config loads and applies .ccaudit.yml configuration files
// for rule overrides, severity thresholds, and audit settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configNames are the file names probed, in order, next to the audit target.
var configNames = []string{".ccaudit.yml", ".ccaudit.yaml"}

// maxConfigSize guards against parsing an accidentally huge file.
const maxConfigSize = 1 << 20

// RuleOverride allows per-rule severity adjustment or disable.
type RuleOverride struct {
	Severity string `yaml:"severity,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// Config represents the .ccaudit.yml configuration file.
type Config struct {
	Paths         []string                `yaml:"paths,omitempty"`
	Ignore        []string                `yaml:"ignore,omitempty"`
	Severity      string                  `yaml:"severity,omitempty"`
	FailOn        string                  `yaml:"fail_on,omitempty"`
	Format        string                  `yaml:"format,omitempty"`
	Rules         string                  `yaml:"rules,omitempty"`
	Workers       int                     `yaml:"workers,omitempty"`
	RuleOverrides map[string]RuleOverride `yaml:"rule_overrides,omitempty"`
}

// Load reads the .ccaudit.yml or .ccaudit.yaml config file from the given
// path. If path is a file, its parent directory is used. If no config file
// is found, it returns a zero Config (not an error).
func Load(dir string) (Config, error) {
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	path, err := locate(dir)
	if err != nil || path == "" {
		return Config{}, err
	}
	return parseFile(path)
}

// locate returns the first config file present in dir, or "" when none is.
func locate(dir string) (string, error) {
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		if info.Size() > maxConfigSize {
			return "", fmt.Errorf("config file too large: %s (%d bytes, max 1 MB)", path, info.Size())
		}
		return path, nil
	}
	return "", nil
}

func parseFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
