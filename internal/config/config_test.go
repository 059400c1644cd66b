package config

import (
	"strings"
	"testing"
)

func TestValidate_Empty(t *testing.T) {
	cfg := &Config{}
	warnings := cfg.Validate()
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "cost_table.path") {
			found = true
		}
	}
	if !found {
		t.Error("expected warning about empty cost_table.path")
	}
}

func TestValidate_GraphURIWithoutPassword(t *testing.T) {
	cfg := &Config{
		CostTable: CostTableConfig{Path: "costs.json"},
		Graph:     GraphConfig{URI: "bolt://localhost:7687"},
	}
	warnings := cfg.Validate()
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "graph.password") {
			found = true
		}
	}
	if !found {
		t.Error("expected warning about missing graph.password")
	}
}

func TestValidate_NegativeTimeout(t *testing.T) {
	cfg := &Config{
		CostTable: CostTableConfig{Path: "costs.json"},
		HTTP:      HTTPConfig{TimeoutSeconds: -1},
	}
	warnings := cfg.Validate()
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "timeout_seconds") {
			found = true
		}
	}
	if !found {
		t.Error("expected warning about negative timeout_seconds")
	}
}

func TestValidate_FullyConfiguredHasNoWarnings(t *testing.T) {
	cfg := &Config{
		CostTable: CostTableConfig{Path: "costs.json"},
		Graph:     GraphConfig{URI: "bolt://localhost:7687", Password: "secret"},
		HTTP:      HTTPConfig{TimeoutSeconds: 10},
	}
	warnings := cfg.Validate()
	if len(warnings) != 0 {
		t.Errorf("fully configured config should have no warnings, got %v", warnings)
	}
}
