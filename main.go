// sage TUI - a terminal client for the sage AI tutor.
//
// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/sage-tui/internal/cli"
	"github.com/jeranaias/sage-tui/internal/config"
	"github.com/jeranaias/sage-tui/internal/logging"
	"github.com/jeranaias/sage-tui/internal/tutor"
	"github.com/jeranaias/sage-tui/internal/ui/chat"
	"github.com/jeranaias/sage-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	cfg := config.Global()
	if args.APIURL != "" {
		cfg.API.URL = args.APIURL
	}

	if logDir, err := config.ConfigDir(); err == nil {
		if err := logging.Init(logDir, args.Verbose || cfg.Debug); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not initialize logging: %v\n", err)
		}
	}
	defer logging.Sync()

	switch cmd {
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdStatus:
		cli.HandleStatus(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		// Loose words become the first question of the session
		// (`sage what is a magnet`).
		runTUI(cfg, strings.Join(args.Raw, " "))
	}
}

// runTUI starts the TUI interface. A missing service URL is not fatal
// here; the welcome screen reports the unconfigured endpoint and the
// first submitted question surfaces the configuration hint in-chat.
func runTUI(cfg *config.Config, initialQuestion string) {
	theme := styles.NewTheme()

	client := tutor.NewClient(&tutor.ClientConfig{
		BaseURL:       cfg.API.URL,
		Timeout:       time.Duration(cfg.API.TimeoutSecs) * time.Second,
		StreamTimeout: time.Duration(cfg.API.StreamTimeoutSecs) * time.Second,
	})

	m := chat.NewWithClient(theme, client)
	m.SetVersion(Version)
	if initialQuestion != "" {
		m.SetInitialQuestion(initialQuestion)
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Background goroutines (stream reader, video poller) deliver
	// messages through this reference.
	chat.SetProgram(p)

	// Hot-reload config file edits while the TUI is running.
	if watcher, err := config.NewWatcher(func(reloaded *config.Config) {
		p.Send(chat.ConfigReloadedMsg{Config: reloaded})
	}); err == nil {
		if err := watcher.Watch(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: config watcher disabled: %v\n", err)
		}
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running sage: %v\n", err)
		os.Exit(1)
	}
}
