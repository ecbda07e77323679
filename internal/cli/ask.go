// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single query command handler for sage CLI.
//
// Handles the "sage ask" command which sends one question to the tutor
// service and streams the answer to stdout.
//
// Command: ask [question]
// Short:   Ask a single question
//
// Examples:
//   sage ask "What is the powerhouse of the cell?"
//   sage ask --video "Explain how magnets work"
//   echo "What is DNS?" | sage ask
//   sage ask --json "List the noble gases"
//
// Flags:
//   --video         Render a video explainer when the answer offers one
//   --json          Output response as JSON
//   -v, --verbose   Verbose output
//   -q, --quiet     Minimal output
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sage-tui/internal/config"
	"github.com/jeranaias/sage-tui/internal/tutor"
	"github.com/jeranaias/sage-tui/internal/ui/styles"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the global glamour renderer for markdown output.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fall back to plain text if renderer initialization fails
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails or renderer is unavailable.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}

	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse displays a response with markdown rendering when appropriate.
// Only renders markdown when stdout is a TTY to avoid corrupting piped output.
func displayResponse(response string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(response))
	} else {
		fmt.Print(response)
	}
}

// =============================================================================
// STYLES
// =============================================================================

var (
	separatorStyle = lipgloss.NewStyle().
			Foreground(styles.Overlay)

	summaryLabelStyle = lipgloss.NewStyle().
				Foreground(styles.TextSecondary)

	summaryValueStyle = lipgloss.NewStyle().
				Foreground(styles.Emerald)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose)

	hintStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	chipStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan)
)

// =============================================================================
// ASK HANDLER
// =============================================================================

// askOutcome collects everything one streamed turn produced.
type askOutcome struct {
	answer      strings.Builder
	suggestions []tutor.SuggestionPayload
	errDetail   string

	videoTriggered bool
	videoSource    string
	videoJobID     string

	deltaCount int
	firstDelta time.Time
}

// AskData is the JSON output of a successful ask command.
type AskData struct {
	Response    string                    `json:"response"`
	Suggestions []tutor.SuggestionPayload `json:"suggestions,omitempty"`
	VideoURL    string                    `json:"video_url,omitempty"`
	Deltas      int                       `json:"deltas"`
	DurationMs  int64                     `json:"duration_ms"`
}

// HandleAskCommand handles the "ask" command with streaming support.
func HandleAskCommand(args Args) error {
	cfg := config.Global()
	client := newTutorClient(cfg, args)

	question := args.Query

	// No question on the command line, try piped stdin
	if question == "" {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			reader := bufio.NewReader(os.Stdin)
			stdinData, err := io.ReadAll(reader)
			if err == nil && len(stdinData) > 0 {
				question = strings.TrimSpace(string(stdinData))
				if !args.Quiet {
					fmt.Fprintf(os.Stderr, "%s Read question from stdin (%d bytes)\n",
						chipStyle.Render("[+]"), len(stdinData))
				}
			}
		}
	}

	if question == "" {
		return ErrMissingArgument("question", `sage ask "your question"`)
	}

	// Render markdown on a TTY, stream plain text for pipes
	useMarkdown := IsStdoutTTY() && !args.JSON

	ctx := context.Background()
	startTime := time.Now()
	var out askOutcome

	if !args.Quiet && !args.JSON {
		fmt.Println()
	}

	err := client.QueryStream(ctx, question, nil, func(event tutor.StreamEvent) {
		switch event.Type {
		case tutor.EventContentDelta:
			if out.deltaCount == 0 {
				out.firstDelta = time.Now()
			}
			out.deltaCount++
			out.answer.WriteString(event.Data)
			if !args.JSON && !useMarkdown {
				fmt.Print(event.Data)
			}

		case tutor.EventSuggestion:
			if event.Payload != nil {
				out.suggestions = append(out.suggestions, *event.Payload)
			}

		case tutor.EventVideoTrigger:
			out.videoTriggered = true
			out.videoSource = event.Data

		case tutor.EventVideoJobStarted:
			out.videoJobID = event.Data

		case tutor.EventError:
			out.errDetail = event.Data
		}
	})

	duration := time.Since(startTime)

	if err != nil {
		return friendlyClientError(err, client.BaseURL())
	}

	// An in-band error record replaces the answer entirely
	if out.errDetail != "" {
		if args.JSON {
			return outputJSON(map[string]interface{}{
				"success": false,
				"error":   out.errDetail,
			})
		}
		fmt.Fprintf(os.Stderr, "\n%s %s\n", errorStyle.Render("[Error]"), out.errDetail)
		return fmt.Errorf("%s", out.errDetail)
	}

	answer := out.answer.String()

	// Resolve the video before emitting JSON so the URL can be included
	var videoURL string
	if args.Video && (out.videoTriggered || out.videoJobID != "") {
		url, err := resolveVideo(ctx, client, &out, answer, args.Quiet || args.JSON)
		if err != nil {
			if !args.JSON {
				fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Video]"), err)
			}
		} else {
			videoURL = url
		}
	}

	if args.JSON {
		return outputJSON(AskData{
			Response:    answer,
			Suggestions: out.suggestions,
			VideoURL:    videoURL,
			Deltas:      out.deltaCount,
			DurationMs:  duration.Milliseconds(),
		})
	}

	if useMarkdown {
		displayResponse(answer)
	}
	fmt.Println()

	if videoURL != "" {
		fmt.Printf("%s %s\n", chipStyle.Render("[Video]"), videoURL)
	} else if (out.videoTriggered || out.videoJobID != "") && !args.Video {
		fmt.Fprintln(os.Stderr, hintStyle.Render(
			"This answer has a video explainer. Re-run with --video to render it."))
	}

	if len(out.suggestions) > 0 && !args.Quiet {
		var labels []string
		for _, s := range out.suggestions {
			labels = append(labels, s.Label)
		}
		fmt.Fprintf(os.Stderr, "%s %s\n",
			hintStyle.Render("Follow-ups:"),
			chipStyle.Render(strings.Join(labels, " | ")))
	}

	if !args.Quiet {
		displayTurnSummary(&out, startTime, duration)
	}

	return nil
}

// resolveVideo starts (if needed) and waits out a video job, returning the URL.
func resolveVideo(ctx context.Context, client *tutor.Client, out *askOutcome, answer string, quiet bool) (string, error) {
	jobID := out.videoJobID
	if jobID == "" {
		source := out.videoSource
		if source == "" {
			source = answer
		}
		var err error
		jobID, err = client.GenerateVideo(ctx, source)
		if err != nil {
			return "", friendlyClientError(err, client.BaseURL())
		}
	}
	return waitForVideo(ctx, client, jobID, quiet)
}

// displayTurnSummary shows the stream summary after a response.
func displayTurnSummary(out *askOutcome, startTime time.Time, duration time.Duration) {
	separator := strings.Repeat("─", 45)
	fmt.Fprintln(os.Stderr, separatorStyle.Render(separator))

	line := fmt.Sprintf("%s %s | %s %s",
		summaryLabelStyle.Render("Deltas:"),
		summaryValueStyle.Render(formatNumber(out.deltaCount)),
		summaryLabelStyle.Render("Time:"),
		summaryValueStyle.Render(formatDurationShort(duration)))

	if !out.firstDelta.IsZero() {
		line += fmt.Sprintf(" | %s %s",
			summaryLabelStyle.Render("First token:"),
			summaryValueStyle.Render(formatDurationShort(out.firstDelta.Sub(startTime))))
	}

	fmt.Fprintln(os.Stderr, line)
}
