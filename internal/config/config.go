// Package config loads netlist-paths' process-wide options: which name
// match mode to use, whether hierarchy markers are normalized away, and
// whether a multi-match lookup should be treated as ambiguous or resolved to
// its first match.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the top-level configuration for netlist-paths.
type Config struct {
	// MatchMode selects how name patterns are interpreted: "exact",
	// "regex" or "wildcard".
	MatchMode string `json:"matchMode,omitempty"`

	// IgnoreHierarchyMarkers normalizes '/' and '_' (and, in wildcard
	// mode, '.') to a match-any-character wildcard before matching.
	IgnoreHierarchyMarkers bool `json:"ignoreHierarchyMarkers,omitempty"`

	// MatchAny lets a multi-match lookup return its first hit instead of
	// failing with an ambiguous-match error.
	MatchAny bool `json:"matchAny,omitempty"`

	// Lint contains structural lint policy configuration.
	Lint LintConfig `json:"lint,omitempty"`

	// Metrics contains the Prometheus exporter configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`
}

// LintConfig holds per-rule severity settings for the structural lint pass
// (internal/lint). Netlist.Lint does not read it: every rule runs with the
// severity the embedded policy assigns.
type LintConfig struct {
	// Rules maps rule names to severity: "off", "warning", "error".
	Rules map[string]string `json:"rules,omitempty"`
}

// MetricsConfig controls the optional Prometheus HTTP exporter.
type MetricsConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Addr    string `json:"addr,omitempty"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		MatchMode:              "exact",
		IgnoreHierarchyMarkers: false,
		MatchAny:               false,
		Lint: LintConfig{
			Rules: map[string]string{},
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
		},
	}
}

// Load finds and loads the configuration file.
// Search order:
//  1. ./netlist_paths.json (current working directory)
//  2. ./.netlist_paths.json (current working directory)
//  3. <rootPath>/netlist_paths.json (if different from cwd)
//  4. <rootPath>/.netlist_paths.json (if different from cwd)
//  5. ~/.config/netlist-paths/config.json
//
// Returns DefaultConfig if no config file is found.
func Load(rootPath string) (*Config, error) {
	cwd, _ := os.Getwd()

	searchPaths := []string{
		filepath.Join(cwd, "netlist_paths.json"),
		filepath.Join(cwd, ".netlist_paths.json"),
	}

	if info, err := os.Stat(rootPath); err == nil && info.IsDir() {
		absRoot, _ := filepath.Abs(rootPath)
		if absRoot != cwd {
			searchPaths = append(searchPaths,
				filepath.Join(rootPath, "netlist_paths.json"),
				filepath.Join(rootPath, ".netlist_paths.json"),
			)
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "netlist-paths", "config.json"))
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	return DefaultConfig(), nil
}

// LoadFile loads configuration from a specific file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MatchMode == "" {
		c.MatchMode = "exact"
	}
	if c.Lint.Rules == nil {
		c.Lint.Rules = make(map[string]string)
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9090"
	}
}

// Save writes the configuration to a file.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// GetRuleSeverity returns the severity for a lint rule, or the default if
// not configured.
func (c *Config) GetRuleSeverity(rule string, defaultSeverity string) string {
	if severity, ok := c.Lint.Rules[rule]; ok {
		return severity
	}
	return defaultSeverity
}

// IsRuleEnabled returns true if the rule is not set to "off".
func (c *Config) IsRuleEnabled(rule string) bool {
	if severity, ok := c.Lint.Rules[rule]; ok {
		return severity != "off"
	}
	return true
}
