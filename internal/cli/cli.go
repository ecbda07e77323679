// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for sage.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	APIURL  string // Override api.url from config for this invocation

	// Command-specific
	Query      string
	Video      bool // ask: generate a video when the answer triggers one
	ConfigKey  string
	ConfigVal  string
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `sage - terminal client for the sage AI tutor

Sage talks to a sage tutor service: it streams answers to your
questions, surfaces follow-up suggestions, and tracks asynchronous
video explainers as they render.

Usage:
  sage                       Start TUI (default)
  sage ask "question"        Ask a single question
  sage chat                  Interactive chat
  sage status, s             Show backend status
  sage config [show|get|set|path]  Configuration
  sage version               Show version
  sage help                  Show this help

Ask Command:
  sage ask "What is a magnet?"      Ask and stream the answer
  sage ask --video "Explain DNA"    Also render a video when offered
  echo "question" | sage ask        Read the question from stdin
    --json                          Output response as JSON

Chat Commands (during chat):
  /help, /h           Show available commands
  /clear, /c          Clear conversation history
  /status, /s         Show session statistics
  /video              Generate a video for the last answer
  /history            Show conversation history
  /quit, /q           Exit chat
  Ctrl+C              Cancel current answer
  Ctrl+D              Exit chat

Config Commands:
  sage config show                  Show current configuration
  sage config get api.url           Get one value
  sage config set api.url http://localhost:8000
  sage config path                  Show config file location

Global Flags:
  --api-url URL   Override the tutor service URL for this run
  -q, --quiet     Minimal output
  -v, --verbose   Debug output
  --json          Output in JSON format

Environment:
  SAGE_API_URL    Tutor service base URL (overrides config file)
  SAGE_DEBUG      Enable debug logging when set to 1/true

Examples:
  sage                                Start the TUI
  sage ask "What is photosynthesis?"  One-shot question
  sage chat                           Interactive session
  sage status                         Check the backend is reachable
  sage config set api.url http://localhost:8000

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("sage version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given argument list. Split out from Parse so
// tests can drive it without touching os.Args.
func ParseArgs(args []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(args)

	// No remaining args, default to TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		return CmdChat, parsedArgs

	case "status", "s":
		return CmdStatus, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command - treat the whole line as a question for the TUI
		parsedArgs.Raw = append([]string{cmd}, remaining...)
		return CmdTUI, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--api-url":
			if i+1 < len(args) {
				i++
				parsedArgs.APIURL = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--api-url=") {
				parsedArgs.APIURL = strings.TrimPrefix(arg, "--api-url=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	for _, arg := range remaining {
		switch arg {
		case "--video":
			args.Video = true
		default:
			if !strings.HasPrefix(arg, "-") {
				query = append(query, arg)
			}
		}
	}

	args.Query = strings.Join(query, " ")
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = remaining[2]
		}
	}
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// HandleAsk handles the "ask" command.
// This delegates to the full implementation in ask.go.
func HandleAsk(args Args) {
	if err := HandleAskCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleChat handles the "chat" command.
// This delegates to the full implementation in chat.go.
func HandleChat(args Args) {
	if err := HandleChatCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// NOTE: HandleStatus is implemented in status.go
// NOTE: HandleConfig is implemented in config.go

// HandleVersion handles the "version" command.
func HandleVersion(args Args) {
	if args.JSON {
		fmt.Printf("{\"version\":%q,\"git_commit\":%q,\"build_date\":%q,\"go_version\":%q}\n",
			Version, GitCommit, BuildDate, runtime.Version())
		return
	}
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
