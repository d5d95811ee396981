package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfigHasExactMatchMode(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MatchMode != "exact" {
		t.Fatalf("expected default match mode exact, got %s", cfg.MatchMode)
	}
}

func TestLoadFileAppliesDefaultsForMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "netlist_paths.json")
	cfg := &Config{MatchMode: "wildcard"}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("unexpected error saving: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error loading: %v", err)
	}
	if loaded.MatchMode != "wildcard" {
		t.Fatalf("expected match mode wildcard, got %s", loaded.MatchMode)
	}
	if loaded.Lint.Rules == nil {
		t.Fatal("expected Lint.Rules to be initialized by defaults")
	}
	if loaded.Metrics.Addr != ":9090" {
		t.Fatalf("expected default metrics addr, got %s", loaded.Metrics.Addr)
	}
}

func TestLoadReturnsDefaultsWhenNoFileExists(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MatchMode != "exact" {
		t.Fatalf("expected default match mode, got %s", cfg.MatchMode)
	}
}
