// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command implementation for sage.
//
// Command: status
// Short:   Display backend and configuration status
// Aliases: s
//
// Examples:
//   sage status                   Show backend status
//   sage s                        Show status (short alias)
//   sage status --json            Status in JSON format
//
// Status Sections:
//   Backend:   Endpoint URL and reachability
//   Video:     Poll cadence and attempt budget
//   Config:    File location and debug flag
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sage-tui/internal/config"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	statusTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")). // Cyan
				MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")). // White
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Light gray
			Width(14)

	valueGreenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")) // Green

	valueYellowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("220")) // Yellow

	valueRedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // Red

	valueDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")) // Dim

	statusSeparatorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
)

// StatusData is the JSON output of the status command.
type StatusData struct {
	Version          string `json:"version"`
	Endpoint         string `json:"endpoint"`
	Reachable        bool   `json:"reachable"`
	ReachableError   string `json:"reachable_error,omitempty"`
	PollIntervalSecs int    `json:"poll_interval_secs"`
	MaxPollAttempts  int    `json:"max_poll_attempts"`
	ConfigPath       string `json:"config_path"`
	Debug            bool   `json:"debug"`
}

// HandleStatus handles the "status" command.
func HandleStatus(args Args) error {
	cfg := config.Global()
	client := newTutorClient(cfg, args)

	data := StatusData{
		Version:          Version,
		Endpoint:         client.BaseURL(),
		PollIntervalSecs: cfg.Video.PollIntervalSecs,
		MaxPollAttempts:  cfg.Video.MaxPollAttempts,
		Debug:            cfg.Debug,
	}
	if path, err := config.ConfigPathTOML(); err == nil {
		data.ConfigPath = path
	}

	// Reachability probe with a short timeout
	if data.Endpoint != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := client.CheckRunning(ctx)
		cancel()
		data.Reachable = err == nil
		if err != nil {
			data.ReachableError = err.Error()
		}
	}

	if args.JSON {
		return outputJSON(data)
	}

	fmt.Println(statusTitleStyle.Render("sage status"))
	fmt.Println(statusSeparatorStyle.Render(strings.Repeat("─", 40)))

	fmt.Println(sectionStyle.Render("Backend"))
	fmt.Printf("%s %s\n", labelStyle.Render("Endpoint"), formatEndpoint(data.Endpoint))
	fmt.Printf("%s %s\n", labelStyle.Render("Reachable"), formatReachable(data))

	fmt.Println(sectionStyle.Render("Video"))
	fmt.Printf("%s every %ds, up to %d attempts (~%s budget)\n",
		labelStyle.Render("Polling"),
		data.PollIntervalSecs,
		data.MaxPollAttempts,
		formatDurationShort(time.Duration(data.PollIntervalSecs*data.MaxPollAttempts)*time.Second))

	fmt.Println(sectionStyle.Render("Config"))
	if data.ConfigPath != "" {
		fmt.Printf("%s %s\n", labelStyle.Render("File"), data.ConfigPath)
	}
	fmt.Printf("%s %v\n", labelStyle.Render("Debug"), data.Debug)
	fmt.Printf("%s %s\n", labelStyle.Render("Version"), data.Version)

	fmt.Println()

	return nil
}

// formatEndpoint renders the endpoint, flagging the unconfigured case.
func formatEndpoint(endpoint string) string {
	if endpoint == "" {
		return valueYellowStyle.Render("not configured") +
			valueDimStyle.Render("  (sage config set api.url ...)")
	}
	return endpoint
}

// formatReachable renders the reachability probe result.
func formatReachable(data StatusData) string {
	if data.Endpoint == "" {
		return valueDimStyle.Render("n/a")
	}
	if data.Reachable {
		return valueGreenStyle.Render("yes")
	}
	return valueRedStyle.Render("no") + valueDimStyle.Render("  ("+data.ReachableError+")")
}
