// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for sage.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.sage/config.toml
//   - ~/.sage/config.json
//   - Built-in defaults
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/sage-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete sage configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`

	// Debug enables the file logger under the config directory.
	Debug bool `toml:"debug" json:"debug"`

	// Tutor service configuration
	API APIConfig `toml:"api" json:"api"`

	// Video job polling configuration
	Video VideoConfig `toml:"video" json:"video"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// APIConfig contains tutor service connection configuration.
type APIConfig struct {
	// URL is the base URL of the tutor service. There is no default;
	// a missing URL is a startup condition surfaced to the user.
	URL string `toml:"url" json:"url"`
	// TimeoutSecs is the timeout for non-streaming requests.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// StreamTimeoutSecs bounds the streaming connection handshake.
	StreamTimeoutSecs int `toml:"stream_timeout_secs" json:"stream_timeout_secs"`
}

// VideoConfig contains video job polling configuration.
type VideoConfig struct {
	// PollIntervalSecs is the fixed delay between status polls.
	PollIntervalSecs int `toml:"poll_interval_secs" json:"poll_interval_secs"`
	// MaxPollAttempts bounds the number of status polls per job.
	MaxPollAttempts int `toml:"max_poll_attempts" json:"max_poll_attempts"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme selects "dark", "light", or "auto".
	Theme string `toml:"theme" json:"theme"`
	// Markdown enables glamour rendering of assistant messages.
	Markdown bool `toml:"markdown" json:"markdown"`
}

// Default returns the built-in default configuration.
// The API URL is intentionally left empty; sage refuses to talk to a
// guessed endpoint.
func Default() *Config {
	return &Config{
		Version: "1",
		Debug:   false,
		API: APIConfig{
			URL:               "",
			TimeoutSecs:       30,
			StreamTimeoutSecs: 10,
		},
		Video: VideoConfig{
			PollIntervalSecs: 5,
			MaxPollAttempts:  24,
		},
		UI: UIConfig{
			Theme:    "auto",
			Markdown: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the sage configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".sage"), nil
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

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				return nil, fmt.Errorf("failed to load TOML config: %w", err)
			}
			return finishLoad(cfg)
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				return nil, fmt.Errorf("failed to load JSON config: %w", err)
			}
			return finishLoad(cfg)
		}
	}

	// No config file - defaults plus environment
	return finishLoad(cfg)
}

// LoadFromPath loads configuration from an explicit file path.
// The format is selected by extension (.toml or .json).
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	case ".json":
		if err := LoadJSON(cfg, path); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
	return finishLoad(cfg)
}

// finishLoad applies env overrides, fills defaults, and validates.
func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads TOML configuration into cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return err
	}
	return nil
}

// LoadJSON loads JSON configuration into cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save persists the configuration to the TOML config file.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration as TOML to the given path.
// The write is atomic so a crash never leaves a half-written config.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a single invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for invalid values.
// An empty API URL passes validation; it is reported at connection time
// so the user sees a setup hint instead of a generic validation failure.
func (c *Config) Validate() error {
	if c.API.URL != "" {
		u, err := url.Parse(c.API.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ValidationError{Field: "api.url", Message: "must be an absolute http(s) URL"}
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return ValidationError{Field: "api.url", Message: "scheme must be http or https"}
		}
	}
	if c.API.TimeoutSecs < 0 {
		return ValidationError{Field: "api.timeout_secs", Message: "must not be negative"}
	}
	if c.Video.PollIntervalSecs < 1 {
		return ValidationError{Field: "video.poll_interval_secs", Message: "must be at least 1"}
	}
	if c.Video.MaxPollAttempts < 1 {
		return ValidationError{Field: "video.max_poll_attempts", Message: "must be at least 1"}
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return ValidationError{Field: "ui.theme", Message: "must be dark, light, or auto"}
	}
	return nil
}

// SetDefaults fills zero values with defaults without overwriting
// explicitly configured fields.
func (c *Config) SetDefaults() {
	def := Default()
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = def.API.TimeoutSecs
	}
	if c.API.StreamTimeoutSecs == 0 {
		c.API.StreamTimeoutSecs = def.API.StreamTimeoutSecs
	}
	if c.Video.PollIntervalSecs == 0 {
		c.Video.PollIntervalSecs = def.Video.PollIntervalSecs
	}
	if c.Video.MaxPollAttempts == 0 {
		c.Video.MaxPollAttempts = def.Video.MaxPollAttempts
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
// Environment always wins over file values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SAGE_API_URL"); v != "" {
		c.API.URL = v
	}
	if v := os.Getenv("SAGE_DEBUG"); v != "" {
		c.Debug = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("SAGE_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// KEY ACCESS (for `sage config get/set`)
// =============================================================================

// Get returns a config value by dotted key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api.url":
		return c.API.URL, nil
	case "ui.theme":
		return c.UI.Theme, nil
	case "ui.markdown":
		return fmt.Sprintf("%t", c.UI.Markdown), nil
	case "debug":
		return fmt.Sprintf("%t", c.Debug), nil
	case "video.poll_interval_secs":
		return fmt.Sprintf("%d", c.Video.PollIntervalSecs), nil
	case "video.max_poll_attempts":
		return fmt.Sprintf("%d", c.Video.MaxPollAttempts), nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

// Set updates a config value by dotted key. The value is validated
// before it is accepted.
func (c *Config) Set(key, value string) error {
	updated := c.Clone()
	switch key {
	case "api.url":
		updated.API.URL = value
	case "ui.theme":
		updated.UI.Theme = value
	case "ui.markdown":
		updated.UI.Markdown = value == "true" || value == "1"
	case "debug":
		updated.Debug = value == "true" || value == "1"
	default:
		return fmt.Errorf("unknown or read-only config key: %s", key)
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	*c = *updated
	return nil
}

// Keys returns the settable config keys, for help output.
func Keys() []string {
	return []string{"api.url", "ui.theme", "ui.markdown", "debug"}
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// =============================================================================
// GLOBAL SINGLETON
// =============================================================================

var (
	globalMu   sync.RWMutex
	globalCfg  *Config
	globalOnce sync.Once
)

// Global returns the process-wide configuration, loading it on first use.
// Load failures fall back to defaults; the error is reported by the
// first caller that needs a working endpoint.
func Global() *Config {
	globalOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
			cfg.ApplyEnvOverrides()
		}
		globalMu.Lock()
		globalCfg = cfg
		globalMu.Unlock()
	})

	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalCfg
}

// SetGlobal replaces the global configuration (used by hot reload and tests).
func SetGlobal(cfg *Config) {
	globalOnce.Do(func() {}) // Suppress the lazy Load
	globalMu.Lock()
	globalCfg = cfg
	globalMu.Unlock()
}

// ResetGlobalForTesting clears the global config so tests start fresh.
func ResetGlobalForTesting() {
	globalMu.Lock()
	globalCfg = nil
	globalOnce = sync.Once{}
	globalMu.Unlock()
}

// ReloadGlobal re-reads the config files and swaps the global config.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}
