// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface parsing and execution for sage.
//
// This package implements the non-TUI commands of the sage client:
// one-shot questions, an interactive REPL, backend status, and
// configuration management.
//
// # Key Types
//
//   - Command: Enumeration of all available CLI commands
//   - Args: Parsed command-line arguments with global and command-specific flags
//
// # Usage
//
// Parse and dispatch commands:
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdAsk:
//	    cli.HandleAsk(args)
//	case cli.CmdChat:
//	    cli.HandleChat(args)
//	// ... other commands
//	}
//
// # Commands Overview
//
//   - ask: Single question streamed from the tutor service
//   - chat: Interactive chat session with input history
//   - status: Backend reachability and settings display
//   - config: Configuration show/get/set/path
//
// ask, status, config and version support a --json flag.
package cli
