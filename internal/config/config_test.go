// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.URL != "" {
		t.Errorf("Default API URL = %q, want empty (no guessed endpoint)", cfg.API.URL)
	}
	if cfg.Video.PollIntervalSecs != 5 {
		t.Errorf("PollIntervalSecs = %d, want 5", cfg.Video.PollIntervalSecs)
	}
	if cfg.Video.MaxPollAttempts != 24 {
		t.Errorf("MaxPollAttempts = %d, want 24", cfg.Video.MaxPollAttempts)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() should validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"valid http url", func(c *Config) { c.API.URL = "http://localhost:8000" }, false},
		{"valid https url", func(c *Config) { c.API.URL = "https://tutor.example.com/api" }, false},
		{"relative url", func(c *Config) { c.API.URL = "localhost:8000" }, true},
		{"bad scheme", func(c *Config) { c.API.URL = "ftp://example.com" }, true},
		{"zero poll interval", func(c *Config) { c.Video.PollIntervalSecs = 0 }, true},
		{"zero poll attempts", func(c *Config) { c.Video.MaxPollAttempts = 0 }, true},
		{"negative timeout", func(c *Config) { c.API.TimeoutSecs = -1 }, true},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SAGE_API_URL", "http://env.example.com:9000")
	t.Setenv("SAGE_DEBUG", "true")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.API.URL != "http://env.example.com:9000" {
		t.Errorf("API URL = %q, want env override", cfg.API.URL)
	}
	if !cfg.Debug {
		t.Error("Debug should be true after SAGE_DEBUG=true")
	}
}

func TestSetDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	if cfg.Video.PollIntervalSecs != 5 {
		t.Errorf("PollIntervalSecs = %d, want 5", cfg.Video.PollIntervalSecs)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("Theme = %q, want auto", cfg.UI.Theme)
	}
}

func TestSetDefaults_PreservesExplicit(t *testing.T) {
	cfg := &Config{Video: VideoConfig{PollIntervalSecs: 2, MaxPollAttempts: 10}}
	cfg.SetDefaults()

	if cfg.Video.PollIntervalSecs != 2 {
		t.Errorf("PollIntervalSecs = %d, want 2 (explicit value kept)", cfg.Video.PollIntervalSecs)
	}
	if cfg.Video.MaxPollAttempts != 10 {
		t.Errorf("MaxPollAttempts = %d, want 10 (explicit value kept)", cfg.Video.MaxPollAttempts)
	}
}

func TestSaveTOMLAndLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.API.URL = "http://localhost:8000"
	cfg.Video.MaxPollAttempts = 12

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML() error = %v", err)
	}

	// Saved config should be private to the user
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if loaded.API.URL != "http://localhost:8000" {
		t.Errorf("loaded API URL = %q", loaded.API.URL)
	}
	if loaded.Video.MaxPollAttempts != 12 {
		t.Errorf("loaded MaxPollAttempts = %d, want 12", loaded.Video.MaxPollAttempts)
	}
}

func TestLoadFromPath_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	data := []byte(`{"api": {"url": "http://localhost:8000"}, "ui": {"theme": "dark"}}`)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.API.URL != "http://localhost:8000" {
		t.Errorf("API URL = %q", cfg.API.URL)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", cfg.UI.Theme)
	}
	// Unset fields fall back to defaults
	if cfg.Video.PollIntervalSecs != 5 {
		t.Errorf("PollIntervalSecs = %d, want default 5", cfg.Video.PollIntervalSecs)
	}
}

func TestLoadFromPath_UnsupportedFormat(t *testing.T) {
	if _, err := LoadFromPath("/tmp/config.yaml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("api.url", "http://localhost:8000"); err != nil {
		t.Fatalf("Set(api.url) error = %v", err)
	}
	got, err := cfg.Get("api.url")
	if err != nil || got != "http://localhost:8000" {
		t.Errorf("Get(api.url) = %q, %v", got, err)
	}

	// Invalid values are rejected and the config left untouched
	if err := cfg.Set("ui.theme", "neon"); err == nil {
		t.Error("Set(ui.theme, neon) should fail validation")
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("Theme = %q, want auto after rejected Set", cfg.UI.Theme)
	}

	if _, err := cfg.Get("nope"); err == nil {
		t.Error("Get(nope) should fail")
	}
	if err := cfg.Set("nope", "x"); err == nil {
		t.Error("Set(nope) should fail")
	}
}

// TestConfig_ConcurrentAccess tests that Global(), SetGlobal(), and ReloadGlobal()
// can be safely called concurrently without race conditions.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()

	var wg sync.WaitGroup

	// 50 writers using SetGlobal, 50 readers using Global
	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			c := Default()
			c.API.URL = "http://localhost:8000"
			SetGlobal(c)
		}()

		go func() {
			defer wg.Done()
			if cfg := Global(); cfg == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	wg.Wait()
}

// TestConfig_GlobalInitialization tests that Global() properly initializes
// the config on first access.
func TestConfig_GlobalInitialization(t *testing.T) {
	ResetGlobalForTesting()

	cfg := Global()
	if cfg == nil {
		t.Fatal("Global() returned nil")
	}
	if cfg.Version == "" {
		t.Error("Config version should not be empty")
	}
	if cfg.Video.PollIntervalSecs == 0 {
		t.Error("Poll interval should have a default")
	}
}

// TestConfig_SetGlobalOverwrites tests that SetGlobal properly overwrites
// the existing global config.
func TestConfig_SetGlobalOverwrites(t *testing.T) {
	ResetGlobalForTesting()

	_ = Global()

	custom := Default()
	custom.Version = "custom-version"
	SetGlobal(custom)

	if got := Global(); got.Version != "custom-version" {
		t.Errorf("Version = %q, want custom-version", got.Version)
	}
}
