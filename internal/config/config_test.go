// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// DEFAULT CONFIG TESTS
// =============================================================================

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Backend.BaseURL == "" {
		t.Error("default backend URL should not be empty")
	}
	if cfg.Defaults.Provider != "anthropic" {
		t.Errorf("default provider = %q, want anthropic", cfg.Defaults.Provider)
	}
	if cfg.Defaults.ThinkingBudget != 10000 {
		t.Errorf("default thinking budget = %d, want 10000", cfg.Defaults.ThinkingBudget)
	}
	if cfg.Attachments.MaxFiles != 20 {
		t.Errorf("default max files = %d, want 20", cfg.Attachments.MaxFiles)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

// =============================================================================
// LOAD/SAVE TESTS
// =============================================================================

func TestSaveAndLoadTOML(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.toml")

	cfg := Default()
	cfg.Backend.BaseURL = "http://example.com:9999"
	cfg.Defaults.WebSearch = true
	cfg.UI.Theme = "light"

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	// Saved file carries owner-only permissions.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permissions = %o, want 0600", perm)
	}

	loaded := Default()
	if err := LoadTOML(loaded, path); err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}
	if loaded.Backend.BaseURL != "http://example.com:9999" {
		t.Errorf("BaseURL = %q", loaded.Backend.BaseURL)
	}
	if !loaded.Defaults.WebSearch {
		t.Error("WebSearch should be true")
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("Theme = %q", loaded.UI.Theme)
	}
}

func TestSaveAndLoadJSON(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.json")

	cfg := Default()
	cfg.Defaults.ExtendedThinking = true

	if err := SaveJSON(cfg, path); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	loaded := Default()
	if err := LoadJSON(loaded, path); err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if !loaded.Defaults.ExtendedThinking {
		t.Error("ExtendedThinking should survive the round trip")
	}
}

func TestLoadFromPath_InvalidConfig(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.toml")

	bad := `
[backend]
base_url = "not a url at all"
max_retries = 99

[ui]
theme = "solarized"
`
	if err := os.WriteFile(path, []byte(bad), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Error("invalid config should fail validation")
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDE TESTS
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ATELIER_BACKEND_URL", "http://override:1234")
	t.Setenv("ATELIER_PROVIDER", "gemini")
	t.Setenv("ATELIER_WEB_SEARCH", "true")
	t.Setenv("ATELIER_THINKING_BUDGET", "25000")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Backend.BaseURL != "http://override:1234" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Defaults.Provider != "gemini" {
		t.Errorf("Provider = %q", cfg.Defaults.Provider)
	}
	if !cfg.Defaults.WebSearch {
		t.Error("WebSearch should be enabled by env override")
	}
	if cfg.Defaults.ThinkingBudget != 25000 {
		t.Errorf("ThinkingBudget = %d", cfg.Defaults.ThinkingBudget)
	}
}

func TestApplyEnvOverrides_InvalidBudgetIgnored(t *testing.T) {
	t.Setenv("ATELIER_THINKING_BUDGET", "not-a-number")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Defaults.ThinkingBudget != 10000 {
		t.Errorf("invalid budget override should be ignored, got %d", cfg.Defaults.ThinkingBudget)
	}
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"bad backend url", func(c *Config) { c.Backend.BaseURL = "://nope" }, true},
		{"negative timeout", func(c *Config) { c.Backend.TimeoutSecs = -1 }, true},
		{"too many retries", func(c *Config) { c.Backend.MaxRetries = 50 }, true},
		{"negative budget", func(c *Config) { c.Defaults.ThinkingBudget = -5 }, true},
		{"zero max files", func(c *Config) { c.Attachments.MaxFiles = 0 }, true},
		{"bad theme", func(c *Config) { c.UI.Theme = "rainbow" }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestSetDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	if cfg.Backend.BaseURL == "" {
		t.Error("SetDefaults should fill backend URL")
	}
	if cfg.Attachments.MaxFiles == 0 {
		t.Error("SetDefaults should fill attachment limits")
	}
	if cfg.UI.Theme == "" {
		t.Error("SetDefaults should fill theme")
	}
}

// =============================================================================
// GET/SET TESTS
// =============================================================================

func TestGetSet_DotNotation(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("defaults.web_search", "true"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !cfg.Defaults.WebSearch {
		t.Error("Set should flip web_search")
	}

	v, err := cfg.Get("defaults.web_search")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if b, ok := v.(bool); !ok || !b {
		t.Errorf("Get = %v (%T)", v, v)
	}

	if err := cfg.Set("backend.timeout_secs", "60"); err != nil {
		t.Fatalf("Set int failed: %v", err)
	}
	if cfg.Backend.TimeoutSecs != 60 {
		t.Errorf("TimeoutSecs = %d", cfg.Backend.TimeoutSecs)
	}

	if _, err := cfg.Get("nonsense.field"); err == nil {
		t.Error("Get with unknown field should fail")
	}
	if err := cfg.Set("ui.theme", 42); err == nil {
		t.Error("Set with unassignable type should fail")
	}
}
