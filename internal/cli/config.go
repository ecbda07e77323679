// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation for sage.
//
// Command: config [subcommand]
// Short:   View and modify configuration
//
// Subcommands:
//   show (default)      Display current configuration
//   get <key>           Print one configuration value
//   set <key> <value>   Set a configuration value
//   path                Show configuration file path
//
// Examples:
//   sage config                           Show current config (default)
//   sage config show --json              Config in JSON format
//   sage config get api.url
//   sage config set api.url http://localhost:8000
//   sage config set ui.theme dark
//   sage config path                      Show config file location
//
// Configuration Keys:
//   api.url             Tutor service base URL
//   ui.theme            UI theme name
//   ui.markdown         Render answers as markdown (true/false)
//   debug               Enable debug logging (true/false)
package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sage-tui/internal/config"
)

// =============================================================================
// CONFIG STYLES
// =============================================================================

var (
	configTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")). // Cyan
				MarginBottom(1)

	configSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("255")). // White
				MarginTop(1)

	configKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Light gray
			Width(26)

	configValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")) // Green

	configSuccessStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	configPathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)
)

// =============================================================================
// HANDLE CONFIG
// =============================================================================

// HandleConfig handles the "config" command.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		if args.JSON {
			return outputJSON(config.Global())
		}
		return handleConfigShow()

	case "get":
		return handleConfigGet(args.ConfigKey)

	case "set":
		return handleConfigSet(args.ConfigKey, args.ConfigVal)

	case "path":
		return handleConfigPath()

	default:
		return NewValidationError("subcommand", args.Subcommand,
			"expected one of: show, get, set, path")
	}
}

// handleConfigShow displays the current configuration.
func handleConfigShow() error {
	cfg := config.Global()

	fmt.Println(configTitleStyle.Render("sage configuration"))

	fmt.Println(configSectionStyle.Render("API"))
	printConfigLine("api.url", cfg.API.URL)
	printConfigLine("api.timeout_secs", fmt.Sprintf("%d", cfg.API.TimeoutSecs))
	printConfigLine("api.stream_timeout_secs", fmt.Sprintf("%d", cfg.API.StreamTimeoutSecs))

	fmt.Println(configSectionStyle.Render("Video"))
	printConfigLine("video.poll_interval_secs", fmt.Sprintf("%d", cfg.Video.PollIntervalSecs))
	printConfigLine("video.max_poll_attempts", fmt.Sprintf("%d", cfg.Video.MaxPollAttempts))

	fmt.Println(configSectionStyle.Render("UI"))
	printConfigLine("ui.theme", cfg.UI.Theme)
	printConfigLine("ui.markdown", fmt.Sprintf("%t", cfg.UI.Markdown))

	fmt.Println(configSectionStyle.Render("General"))
	printConfigLine("debug", fmt.Sprintf("%t", cfg.Debug))

	if path, err := config.ConfigPathTOML(); err == nil {
		fmt.Println()
		fmt.Println(configPathStyle.Render("File: " + path))
	}
	fmt.Println()

	return nil
}

// printConfigLine prints one key/value pair with shared column widths.
func printConfigLine(key, value string) {
	if value == "" {
		value = "(not set)"
	}
	fmt.Printf("%s %s\n",
		configKeyStyle.Render(key),
		configValueStyle.Render(value))
}

// handleConfigGet prints a single value, suitable for shell capture.
func handleConfigGet(key string) error {
	if key == "" {
		return ErrMissingArgument("key", "sage config get api.url")
	}

	value, err := config.Global().Get(key)
	if err != nil {
		return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(config.Keys(), ", "))
	}

	fmt.Println(value)
	return nil
}

// handleConfigSet updates one value and persists the file.
func handleConfigSet(key, value string) error {
	if key == "" || value == "" {
		return ErrMissingArgument("key and value", "sage config set api.url http://localhost:8000")
	}

	// Mutate a loaded copy, not the process-global config, so a failed
	// save does not leave the running state out of sync with the file.
	cfg, err := config.Load()
	if err != nil {
		return WrapError(err, "failed to load config")
	}

	if err := cfg.Set(key, value); err != nil {
		return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(config.Keys(), ", "))
	}

	if err := config.Save(cfg); err != nil {
		return WrapError(err, "failed to save config")
	}

	config.SetGlobal(cfg)

	fmt.Printf("%s %s = %s\n",
		configSuccessStyle.Render("[OK]"),
		key,
		configValueStyle.Render(value))
	return nil
}

// handleConfigPath prints the config file location.
func handleConfigPath() error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return WrapError(err, "cannot resolve config directory")
	}
	fmt.Println(path)
	return nil
}
