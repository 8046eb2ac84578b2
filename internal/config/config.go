// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// atelier.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.atelier/config.toml
//   - ~/.atelier/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/atelier-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete atelier configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`

	// Backend API configuration
	Backend BackendConfig `toml:"backend" json:"backend"`

	// Global defaults for generation settings. These form the lowest layer
	// of the settings cascade; projects and conversations override them.
	Defaults DefaultsConfig `toml:"defaults" json:"defaults"`

	// Attachment staging configuration
	Attachments AttachmentsConfig `toml:"attachments" json:"attachments"`

	// Local history cache configuration
	History HistoryConfig `toml:"history" json:"history"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// BackendConfig contains connection settings for the atelier backend.
type BackendConfig struct {
	// BaseURL is the URL of the backend API server
	BaseURL string `toml:"base_url" json:"base_url"`
	// APIKey authenticates requests to the backend (empty for local servers)
	APIKey string `toml:"api_key" json:"api_key"`
	// TimeoutSecs is the per-request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// MaxRetries is the number of retry attempts for transient failures
	MaxRetries int `toml:"max_retries" json:"max_retries"`
	// RequestsPerSecond caps the sustained request rate to the backend
	// (0 = unlimited)
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
}

// DefaultsConfig contains the global layer of generation settings.
type DefaultsConfig struct {
	// Provider is the provider used when no project or conversation names one
	Provider string `toml:"provider" json:"provider"`
	// ExtendedThinking enables the reasoning trace by default
	ExtendedThinking bool `toml:"extended_thinking" json:"extended_thinking"`
	// WebSearch enables web search grounding by default
	WebSearch bool `toml:"web_search" json:"web_search"`
	// KnowledgeBase enables project knowledge base retrieval by default
	KnowledgeBase bool `toml:"knowledge_base" json:"knowledge_base"`
	// ThinkingBudget is the default reasoning token budget
	ThinkingBudget int `toml:"thinking_budget" json:"thinking_budget"`
}

// AttachmentsConfig bounds the attachment staging area.
type AttachmentsConfig struct {
	// MaxFiles is the maximum number of files staged on one message
	MaxFiles int `toml:"max_files" json:"max_files"`
	// MaxTotalBytes is the maximum combined size of staged files
	MaxTotalBytes int64 `toml:"max_total_bytes" json:"max_total_bytes"`
}

// HistoryConfig contains the local recent-conversations cache configuration.
type HistoryConfig struct {
	// Enabled controls whether the local history cache is active
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path is the SQLite database path (empty = ~/.atelier/history.db)
	Path string `toml:"path" json:"path"`
	// MaxEntries is the maximum number of conversations to remember
	MaxEntries int `toml:"max_entries" json:"max_entries"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// ShowThinking expands reasoning traces by default
	ShowThinking bool `toml:"show_thinking" json:"show_thinking"`
	// MarkdownRendering enables rendered markdown in assistant messages
	MarkdownRendering bool `toml:"markdown_rendering" json:"markdown_rendering"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Backend: BackendConfig{
			BaseURL:           "http://127.0.0.1:8000",
			TimeoutSecs:       120,
			MaxRetries:        3,
			RequestsPerSecond: 4,
		},

		Defaults: DefaultsConfig{
			Provider:         "anthropic",
			ExtendedThinking: false,
			WebSearch:        false,
			KnowledgeBase:    true,
			ThinkingBudget:   10000,
		},

		Attachments: AttachmentsConfig{
			MaxFiles:      20,
			MaxTotalBytes: 100 << 20, // 100 MiB
		},

		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 200,
		},

		UI: UIConfig{
			Theme:             "dark",
			CompactMode:       false,
			ShowThinking:      false,
			MarkdownRendering: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the atelier configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".atelier"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// HistoryPath returns the configured history database path, falling back to
// the default inside the config directory.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// Config files should be 0600 (owner read/write only) to protect API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	// Try TOML first
	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	// Try JSON as fallback
	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	cfg, err = finishLoad(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finishLoad(cfg)
}

// finishLoad applies env overrides, defaults, and validation.
func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf strings.Builder
	buf.WriteString("# atelier configuration file\n")
	buf.WriteString("# Generated by atelier - edit with care\n")
	buf.WriteString("\n")

	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Backend URL must parse and carry a scheme
	if c.Backend.BaseURL != "" {
		u, err := url.Parse(c.Backend.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "backend.base_url",
				Message: fmt.Sprintf("invalid URL '%s'", c.Backend.BaseURL),
			})
		}
	}

	if c.Backend.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.timeout_secs",
			Message: "must be non-negative",
		})
	}

	if c.Backend.MaxRetries < 0 || c.Backend.MaxRetries > 10 {
		errs = append(errs, ValidationError{
			Field:   "backend.max_retries",
			Message: fmt.Sprintf("must be 0-10, got %d", c.Backend.MaxRetries),
		})
	}

	if c.Backend.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.requests_per_second",
			Message: "must be non-negative",
		})
	}

	if c.Defaults.ThinkingBudget < 0 {
		errs = append(errs, ValidationError{
			Field:   "defaults.thinking_budget",
			Message: "must be non-negative",
		})
	}

	if c.Attachments.MaxFiles < 1 || c.Attachments.MaxFiles > 100 {
		errs = append(errs, ValidationError{
			Field:   "attachments.max_files",
			Message: fmt.Sprintf("must be 1-100, got %d", c.Attachments.MaxFiles),
		})
	}

	if c.Attachments.MaxTotalBytes < 1 {
		errs = append(errs, ValidationError{
			Field:   "attachments.max_total_bytes",
			Message: "must be positive",
		})
	}

	if c.History.MaxEntries < 0 {
		errs = append(errs, ValidationError{
			Field:   "history.max_entries",
			Message: "must be non-negative",
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = defaults.Backend.BaseURL
	}
	if c.Backend.TimeoutSecs == 0 {
		c.Backend.TimeoutSecs = defaults.Backend.TimeoutSecs
	}
	if c.Backend.MaxRetries == 0 {
		c.Backend.MaxRetries = defaults.Backend.MaxRetries
	}

	if c.Defaults.Provider == "" {
		c.Defaults.Provider = defaults.Defaults.Provider
	}
	if c.Defaults.ThinkingBudget == 0 {
		c.Defaults.ThinkingBudget = defaults.Defaults.ThinkingBudget
	}

	if c.Attachments.MaxFiles == 0 {
		c.Attachments.MaxFiles = defaults.Attachments.MaxFiles
	}
	if c.Attachments.MaxTotalBytes == 0 {
		c.Attachments.MaxTotalBytes = defaults.Attachments.MaxTotalBytes
	}

	if c.History.MaxEntries == 0 {
		c.History.MaxEntries = defaults.History.MaxEntries
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// RequestTimeout returns the backend request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSecs) * time.Second
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - ATELIER_BACKEND_URL: overrides backend.base_url
//   - ATELIER_API_KEY: overrides backend.api_key
//   - ATELIER_PROVIDER: overrides defaults.provider
//   - ATELIER_WEB_SEARCH: set to "1" or "true" to enable web search by default
//   - ATELIER_EXTENDED_THINKING: set to "1" or "true" to enable reasoning by default
//   - ATELIER_THINKING_BUDGET: overrides defaults.thinking_budget
//   - ATELIER_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("ATELIER_BACKEND_URL"); u != "" {
		c.Backend.BaseURL = u
	}

	if key := os.Getenv("ATELIER_API_KEY"); key != "" {
		c.Backend.APIKey = key
	}

	if p := os.Getenv("ATELIER_PROVIDER"); p != "" {
		c.Defaults.Provider = p
	}

	if v := os.Getenv("ATELIER_WEB_SEARCH"); v != "" {
		c.Defaults.WebSearch = v == "1" || strings.EqualFold(v, "true")
	}

	if v := os.Getenv("ATELIER_EXTENDED_THINKING"); v != "" {
		c.Defaults.ExtendedThinking = v == "1" || strings.EqualFold(v, "true")
	}

	if v := os.Getenv("ATELIER_THINKING_BUDGET"); v != "" {
		if budget, err := strconv.Atoi(v); err == nil && budget >= 0 {
			c.Defaults.ThinkingBudget = budget
		}
	}

	if theme := os.Getenv("ATELIER_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation
// (e.g., "defaults.web_search").
func (c *Config) Get(key string) (interface{}, error) {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return nil, errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field.Interface(), nil
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return nil, fmt.Errorf("invalid key: %s", key)
}

// Set sets a configuration value using dot notation
// (e.g., "defaults.web_search").
func (c *Config) Set(key string, value interface{}) error {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if !field.CanSet() {
				return fmt.Errorf("cannot set field: %s", key)
			}
			return setFieldValue(field, value)
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go
// field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(part[:1]))
			result.WriteString(part[1:])
		}
	}
	return result.String()
}

// setFieldValue assigns a value to a struct field, converting strings to the
// field's kind when needed.
func setFieldValue(field reflect.Value, value interface{}) error {
	val := reflect.ValueOf(value)

	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}

	// String conversions for CLI-style input
	if s, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(s)
			return nil
		case reflect.Bool:
			b, err := strconv.ParseBool(s)
			if err != nil {
				return fmt.Errorf("invalid boolean value: %s", s)
			}
			field.SetBool(b)
			return nil
		case reflect.Int, reflect.Int64:
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %s", s)
			}
			field.SetInt(n)
			return nil
		case reflect.Float64:
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %s", s)
			}
			field.SetFloat(f)
			return nil
		}
	}

	return fmt.Errorf("cannot assign %T to %s field", value, field.Kind())
}
