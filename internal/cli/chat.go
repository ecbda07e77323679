// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for sage CLI.
//
// Handles the "sage chat" command which provides an interactive REPL
// for conversing with the tutor service.
//
// Command: chat
// Short:   Start an interactive chat session
//
// Examples:
//   sage chat                         Start interactive chat
//   sage chat --api-url http://localhost:8000
//   sage chat --quiet                 Skip banner and per-turn stats
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /clear, /c          Clear conversation history
//   /status, /s         Show session statistics
//   /video              Generate a video for the last answer
//   /history            Show conversation history
//   /quit, /q           Exit chat
//   Ctrl+C              Cancel current answer
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/sage-tui/internal/config"
	"github.com/jeranaias/sage-tui/internal/tutor"
	"github.com/jeranaias/sage-tui/internal/ui/styles"
)

// historyWindow is how many prior turns travel with each question.
const historyWindow = 6

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	summaryHeaderStyle = lipgloss.NewStyle().
				Foreground(styles.Cyan).
				Bold(true)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "chat_history")

	cli := &ChatCLI{
		line:        line,
		historyFile: historyFile,
	}

	cli.LoadHistory()

	return cli
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
// Supports history navigation with arrow keys.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}

	return input, nil
}

// SaveHistory persists command history to file with secure permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}

	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// ChatSession holds the state for an interactive chat session.
type ChatSession struct {
	// Conversation history in the wire format the query endpoint expects
	History []tutor.HistoryEntry

	// LastAnswer is the most recent assistant text, used by /video
	LastAnswer string

	// Configuration
	Config *config.Config
	Quiet  bool

	// Tracking
	StartTime   time.Time
	Turns       int
	TotalDeltas int
	VideosMade  int

	// Client
	Client *tutor.Client

	// Cancel function for the current stream
	CancelFunc context.CancelFunc

	// Input history handler
	InputCLI *ChatCLI
}

// NewChatSession creates a new chat session.
func NewChatSession(args Args) *ChatSession {
	cfg := config.Global()

	return &ChatSession{
		History:   make([]tutor.HistoryEntry, 0),
		Config:    cfg,
		Quiet:     args.Quiet,
		StartTime: time.Now(),
		Client:    newTutorClient(cfg, args),
		InputCLI:  NewChatCLI(),
	}
}

// contextWindow returns the most recent history entries that travel
// with the next question.
func (s *ChatSession) contextWindow() []tutor.HistoryEntry {
	if len(s.History) <= historyWindow {
		return s.History
	}
	return s.History[len(s.History)-historyWindow:]
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChatCommand handles the "chat" command with full interactive support.
func HandleChatCommand(args Args) error {
	session := NewChatSession(args)

	// Fail fast with a setup hint when no endpoint is configured
	if session.Client.BaseURL() == "" {
		return fmt.Errorf("%s", noBaseURLHint)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := session.Client.CheckRunning(ctx)
	cancel()
	if err != nil {
		return friendlyClientError(err, session.Client.BaseURL())
	}

	if !session.Quiet {
		printWelcome(session)
	}

	defer session.InputCLI.Close()

	// First Ctrl+C cancels the in-flight answer instead of killing the REPL
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			if sig == os.Interrupt || sig == syscall.SIGTERM {
				if session.CancelFunc != nil {
					session.CancelFunc()
					session.CancelFunc = nil
					fmt.Fprintln(os.Stderr, "\n"+warningStyle.Render("[Cancelled]"))
				}
			}
		}
	}()

	for {
		input, err := session.InputCLI.ReadInput(promptStyle.Render("sage> "))
		if err != nil {
			// Ctrl+C at the prompt or EOF (Ctrl+D), exit gracefully
			fmt.Println()
			printExitSummary(session)
			return nil
		}

		input = strings.TrimSpace(input)

		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			shouldContinue, err := handleChatSlashCommand(input, session)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
			}
			if !shouldContinue {
				printExitSummary(session)
				return nil
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			printExitSummary(session)
			return nil
		}

		if err := processMessage(session, input); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		}
	}
}

// =============================================================================
// MESSAGE PROCESSING
// =============================================================================

// processMessage sends a question to the tutor and streams the answer.
func processMessage(session *ChatSession, input string) error {
	// The window is computed before this turn joins the history; the
	// question travels only in its own request field
	history := session.contextWindow()

	ctx, cancel := context.WithCancel(context.Background())
	session.CancelFunc = cancel
	defer func() {
		session.CancelFunc = nil
		cancel()
	}()

	useMarkdown := IsStdoutTTY()
	startTime := time.Now()

	fmt.Println()

	var answer strings.Builder
	var suggestions []tutor.SuggestionPayload
	var errDetail string
	var videoTriggered bool
	var videoSource, videoJobID string
	deltas := 0

	err := session.Client.QueryStream(ctx, input, history, func(event tutor.StreamEvent) {
		switch event.Type {
		case tutor.EventContentDelta:
			deltas++
			answer.WriteString(event.Data)
			if !useMarkdown {
				fmt.Print(event.Data)
			}

		case tutor.EventSuggestion:
			if event.Payload != nil {
				suggestions = append(suggestions, *event.Payload)
			}

		case tutor.EventVideoTrigger:
			videoTriggered = true
			videoSource = event.Data

		case tutor.EventVideoJobStarted:
			videoJobID = event.Data

		case tutor.EventError:
			errDetail = event.Data
		}
	})

	if err != nil {
		if ctx.Err() == context.Canceled {
			// User cancelled; keep the partial answer out of history
			return nil
		}
		return friendlyClientError(err, session.Client.BaseURL())
	}

	if errDetail != "" {
		return fmt.Errorf("%s", errDetail)
	}

	responseContent := answer.String()

	if useMarkdown {
		displayResponse(responseContent)
	}
	fmt.Println()

	// The turn enters history only after it completed cleanly
	session.History = append(session.History,
		tutor.HistoryEntry{Text: input, IsUser: true},
		tutor.HistoryEntry{Text: responseContent, IsUser: false},
	)
	session.LastAnswer = responseContent
	session.Turns++
	session.TotalDeltas += deltas

	// A video trigger in chat renders immediately
	if videoTriggered || videoJobID != "" {
		if err := renderChatVideo(ctx, session, videoSource, videoJobID); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Video]"), err)
		}
	}

	if len(suggestions) > 0 && !session.Quiet {
		var labels []string
		for _, s := range suggestions {
			labels = append(labels, s.Label)
		}
		fmt.Fprintf(os.Stderr, "%s %s\n",
			hintStyle.Render("Follow-ups:"),
			chipStyle.Render(strings.Join(labels, " | ")))
	}

	if !session.Quiet {
		fmt.Fprintf(os.Stderr, "%s %d deltas | %s\n",
			infoStyle.Render("[Stats]"),
			deltas,
			formatDurationShort(time.Since(startTime)))
	}
	fmt.Println()

	return nil
}

// renderChatVideo starts (when the stream did not) and waits out a video job.
func renderChatVideo(ctx context.Context, session *ChatSession, source, jobID string) error {
	if jobID == "" {
		if source == "" {
			source = session.LastAnswer
		}
		var err error
		jobID, err = session.Client.GenerateVideo(ctx, source)
		if err != nil {
			return friendlyClientError(err, session.Client.BaseURL())
		}
	}

	url, err := waitForVideo(ctx, session.Client, jobID, session.Quiet)
	if err != nil {
		return err
	}

	session.VideosMade++
	fmt.Printf("%s %s\n", chipStyle.Render("[Video]"), url)
	return nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleChatSlashCommand processes slash commands.
// Returns (shouldContinue, error) where shouldContinue=false means exit.
func handleChatSlashCommand(cmd string, session *ChatSession) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return true, nil
	}

	command := strings.ToLower(parts[0])

	switch command {
	case "/help", "/h", "/?":
		printChatHelp()
		return true, nil

	case "/clear", "/c":
		session.History = session.History[:0]
		session.LastAnswer = ""
		fmt.Println(commandStyle.Render("[Conversation cleared]"))
		return true, nil

	case "/status", "/s":
		printSessionStatus(session)
		return true, nil

	case "/video":
		if session.LastAnswer == "" {
			return true, fmt.Errorf("nothing to make a video of yet; ask a question first")
		}
		ctx := context.Background()
		return true, renderChatVideo(ctx, session, session.LastAnswer, "")

	case "/history":
		printChatHistory(session)
		return true, nil

	case "/quit", "/q", "/exit":
		return false, nil

	case "/":
		printChatHelp()
		return true, nil

	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
}

// =============================================================================
// DISPLAY FUNCTIONS
// =============================================================================

// printWelcome prints the welcome banner.
func printWelcome(session *ChatSession) {
	fmt.Println()
	fmt.Println(welcomeStyle.Render("sage interactive chat"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 30)))
	fmt.Printf("%s %s\n",
		infoStyle.Render("Endpoint:"),
		commandStyle.Render(session.Client.BaseURL()))

	fmt.Println()
	fmt.Println(infoStyle.Render("Type your question and press Enter. Commands: /help, /quit"))
	fmt.Println()
}

// printChatHelp prints available commands.
func printChatHelp() {
	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Available Commands"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 20)))
	fmt.Println()

	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help, /h", "Show this help"},
		{"/clear, /c", "Clear conversation history"},
		{"/status, /s", "Show session statistics"},
		{"/video", "Generate a video for the last answer"},
		{"/history", "Show conversation history"},
		{"/quit, /q", "Exit chat"},
	}

	for _, c := range commands {
		fmt.Printf("  %s  %s\n",
			commandStyle.Render(fmt.Sprintf("%-15s", c.cmd)),
			infoStyle.Render(c.desc))
	}

	fmt.Println()
	fmt.Println(infoStyle.Render("Tip: Ctrl+C cancels the current answer, Ctrl+D exits"))
	fmt.Println()
}

// printSessionStatus prints session statistics.
func printSessionStatus(session *ChatSession) {
	elapsed := time.Since(session.StartTime).Round(time.Second)

	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Session Status"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 20)))
	fmt.Println()

	fmt.Printf("  %s %s\n",
		infoStyle.Render("Endpoint:"),
		commandStyle.Render(session.Client.BaseURL()))
	fmt.Printf("  %s %s\n",
		infoStyle.Render("Duration:"),
		elapsed.String())
	fmt.Printf("  %s %d turns (%d history entries)\n",
		infoStyle.Render("History:"),
		session.Turns,
		len(session.History))
	fmt.Printf("  %s %s\n",
		infoStyle.Render("Deltas:"),
		formatNumber(session.TotalDeltas))
	if session.VideosMade > 0 {
		fmt.Printf("  %s %d\n",
			infoStyle.Render("Videos:"),
			session.VideosMade)
	}

	fmt.Println()
}

// printChatHistory prints conversation history.
func printChatHistory(session *ChatSession) {
	if len(session.History) == 0 {
		fmt.Println(infoStyle.Render("[No messages yet]"))
		return
	}

	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Conversation History"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 25)))
	fmt.Println()

	for i, entry := range session.History {
		role := lipgloss.NewStyle().Foreground(styles.Purple).Render("Sage")
		if entry.IsUser {
			role = lipgloss.NewStyle().Foreground(styles.Cyan).Render("You")
		}

		// Rune-based truncation keeps multi-byte characters intact
		content := entry.Text
		runes := []rune(content)
		if len(runes) > 100 {
			content = string(runes[:100]) + "..."
		}
		content = strings.ReplaceAll(content, "\n", " ")

		fmt.Printf("  %d. %s: %s\n", i+1, role, content)
	}

	fmt.Println()
}

// printExitSummary prints the session summary on exit.
func printExitSummary(session *ChatSession) {
	if session.Turns == 0 {
		fmt.Println(infoStyle.Render("Goodbye!"))
		return
	}

	elapsed := time.Since(session.StartTime).Round(time.Second)

	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Session Summary"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 15)))

	fmt.Printf("  %s %d\n",
		infoStyle.Render("Turns:"),
		session.Turns)
	fmt.Printf("  %s %s\n",
		infoStyle.Render("Deltas:"),
		formatNumber(session.TotalDeltas))
	if session.VideosMade > 0 {
		fmt.Printf("  %s %d\n",
			infoStyle.Render("Videos:"),
			session.VideosMade)
	}
	fmt.Printf("  %s %s\n",
		infoStyle.Render("Duration:"),
		elapsed.String())

	fmt.Println()
	fmt.Println(infoStyle.Render("Goodbye!"))
}
