// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for sage.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: Tutor service endpoint and timeouts
//   - VideoConfig: Video job polling cadence and budget
//   - UIConfig: Theme and rendering options
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (SAGE_*)
//   - ~/.sage/config.toml
//   - ~/.sage/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	base := cfg.API.URL
//	interval := cfg.Video.PollIntervalSecs
//
// The API URL has no default. Commands that talk to the tutor service
// check for it and print a setup hint when it is missing.
package config
