package main

import (
	"strings"
	"testing"

	"github.com/deckhand-io/deckhand/internal/config"
)

func TestGetConfigValue(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Dir = "decks"
	cfg.Defaults.NumSlides = 8
	cfg.LLM.APIKey = "sk-ant-REDACTED"

	tests := []struct {
		key      string
		expected string
	}{
		{"output.dir", "decks"},
		{"output.charts_dir", "decks/charts"},
		{"defaults.theme", "corporate"},
		{"defaults.num_slides", "8"},
		{"llm.enabled", "true"},
		{"history.enabled", "true"},
		{"history.path", ".deckhand/history.db"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := getConfigValue(cfg, tt.key)
			if err != nil {
				t.Fatalf("getConfigValue(%q) error: %v", tt.key, err)
			}
			if got != tt.expected {
				t.Errorf("getConfigValue(%q) = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}

	masked, err := getConfigValue(cfg, "llm.api_key")
	if err != nil {
		t.Fatalf("getConfigValue(llm.api_key) error: %v", err)
	}
	if strings.Contains(masked, "abcdefghij") {
		t.Errorf("api key should be masked, got %q", masked)
	}

	if _, err := getConfigValue(cfg, "no.such.key"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestSetConfigValue(t *testing.T) {
	cfg := config.Default()

	if err := setConfigValue(cfg, "defaults.theme", "minimal"); err != nil {
		t.Fatalf("set defaults.theme: %v", err)
	}
	if cfg.Defaults.Theme != "minimal" {
		t.Errorf("Defaults.Theme = %q, want %q", cfg.Defaults.Theme, "minimal")
	}

	if err := setConfigValue(cfg, "defaults.num_slides", "9"); err != nil {
		t.Fatalf("set defaults.num_slides: %v", err)
	}
	if cfg.Defaults.NumSlides != 9 {
		t.Errorf("Defaults.NumSlides = %d, want 9", cfg.Defaults.NumSlides)
	}

	if err := setConfigValue(cfg, "llm.enabled", "false"); err != nil {
		t.Fatalf("set llm.enabled: %v", err)
	}
	if cfg.LLM.Enabled {
		t.Error("LLM.Enabled should be false")
	}

	if err := setConfigValue(cfg, "defaults.num_slides", "lots"); err == nil {
		t.Error("expected error for non-numeric num_slides")
	}
	if err := setConfigValue(cfg, "history.enabled", "sometimes"); err == nil {
		t.Error("expected error for non-boolean history.enabled")
	}
	if err := setConfigValue(cfg, "no.such.key", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}
