// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/sage-tui/internal/model"
	"github.com/jeranaias/sage-tui/internal/tutor"
	"github.com/jeranaias/sage-tui/internal/video"
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// CheckBackendCmd creates a command that checks if the tutor backend is
// reachable.
func CheckBackendCmd(client *tutor.Client) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return BackendStatusMsg{Running: false, Error: tutor.ErrNoBaseURL}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := client.CheckRunning(ctx)
		return BackendStatusMsg{
			Running: err == nil,
			Error:   err,
		}
	}
}

// =============================================================================
// TURN RUNNER
// =============================================================================

// TurnRunner executes one question turn against the tutor backend and
// forwards stream events to a Bubble Tea program. It runs in its own
// goroutine; every event crosses back into the Update loop via program.Send.
type TurnRunner struct {
	program *tea.Program
	client  *tutor.Client
}

// NewTurnRunner creates a new turn runner.
func NewTurnRunner(program *tea.Program, client *tutor.Client) *TurnRunner {
	return &TurnRunner{
		program: program,
		client:  client,
	}
}

// Run submits the question and streams the answer, sending chat messages for
// every typed record. A connection close without a stream_end record still
// completes the turn.
func (r *TurnRunner) Run(ctx context.Context, question string, history []tutor.HistoryEntry, messageID string) {
	if r.program == nil {
		return
	}
	if r.client == nil {
		r.program.Send(StreamErrorMsg{
			MessageID: messageID,
			Error:     tutor.ErrNoBaseURL,
		})
		return
	}

	r.program.Send(StreamStartMsg{
		MessageID: messageID,
		StartTime: time.Now(),
	})

	stats := model.NewStatistics()
	isFirst := true
	deltaCount := 0
	errorRecordSeen := false

	streamErr := r.client.QueryStream(ctx, question, history, func(event tutor.StreamEvent) {
		switch event.Type {
		case tutor.EventContentDelta:
			if isFirst {
				stats.RecordFirstToken()
			}
			r.program.Send(StreamTokenMsg{
				MessageID: messageID,
				Token:     event.Data,
				IsFirst:   isFirst,
			})
			isFirst = false
			deltaCount++

		case tutor.EventSuggestion:
			if event.Payload == nil {
				return
			}
			r.program.Send(SuggestionMsg{
				MessageID: messageID,
				Suggestion: model.Suggestion{
					Label:  event.Payload.Label,
					Action: model.SuggestionAction(event.Payload.Action),
				},
			})

		case tutor.EventVideoTrigger:
			r.program.Send(VideoTriggerMsg{
				MessageID:  messageID,
				SourceText: event.Data,
			})

		case tutor.EventVideoJobStarted:
			r.program.Send(VideoJobStartedMsg{
				JobID: event.Data,
			})

		case tutor.EventError:
			errorRecordSeen = true
			r.program.Send(StreamErrorMsg{
				MessageID: messageID,
				Detail:    event.Data,
			})

		case tutor.EventStreamEnd:
			// Completion is sent once below, after the reader returns.
		}
	})

	if errorRecordSeen {
		// The error record already ended the turn with one visible update.
		return
	}

	if streamErr != nil {
		r.program.Send(StreamErrorMsg{
			MessageID: messageID,
			Error:     streamErr,
		})
		return
	}

	stats.Finalize(deltaCount)
	r.program.Send(StreamCompleteMsg{
		MessageID: messageID,
		Stats:     stats,
	})
}

// =============================================================================
// VIDEO RUNNER
// =============================================================================

// VideoRunner bridges the video poll loop into a Bubble Tea program.
type VideoRunner struct {
	program *tea.Program
	client  *tutor.Client
	poller  *video.Poller
}

// NewVideoRunner creates a video runner with the given poller.
func NewVideoRunner(program *tea.Program, client *tutor.Client, poller *video.Poller) *VideoRunner {
	return &VideoRunner{
		program: program,
		client:  client,
		poller:  poller,
	}
}

// Generate requests a new video job for the given source text. On success it
// sends VideoJobStartedMsg; the Update loop then calls Attach to start the
// poll loop, which is the same path a video_job_started stream record takes.
func (r *VideoRunner) Generate(ctx context.Context, sourceText string) {
	if r.program == nil {
		return
	}
	if r.client == nil {
		r.program.Send(VideoRequestFailedMsg{Error: tutor.ErrNoBaseURL})
		return
	}

	jobID, err := r.client.GenerateVideo(ctx, sourceText)
	if err != nil {
		r.program.Send(VideoRequestFailedMsg{
			Detail: err.Error(),
			Error:  err,
		})
		return
	}

	r.program.Send(VideoJobStartedMsg{JobID: jobID})
}

// Attach starts polling a created job, either after Generate was accepted or
// when the stream delivers a video_job_started record directly.
func (r *VideoRunner) Attach(ctx context.Context, jobID string) {
	if r.poller == nil || r.client == nil || r.program == nil {
		return
	}

	r.poller.Start(ctx, jobID, r.client.VideoStatus, func(update video.Update) {
		r.program.Send(VideoUpdateMsg{Update: update})
	})
}

// Stop halts any active poll loop.
func (r *VideoRunner) Stop() {
	if r.poller != nil {
		r.poller.Stop()
	}
}

// Active reports whether a poll loop is running.
func (r *VideoRunner) Active() bool {
	return r.poller != nil && r.poller.Active()
}

// =============================================================================
// TICK COMMANDS
// =============================================================================

// SpinnerTickCmd creates a command that ticks the spinner.
func SpinnerTickCmd() tea.Cmd {
	return tea.Tick(time.Second/12, func(t time.Time) tea.Msg {
		return SpinnerTickMsg{Time: t}
	})
}

// =============================================================================
// ERROR HANDLING
// =============================================================================

// HandleTutorError converts a tutor client error to an ErrorMsg with
// contextual suggestions.
func HandleTutorError(err error) ErrorMsg {
	switch {
	case tutor.IsNoBaseURL(err):
		return NewErrorMsgWithSuggestions(
			"Backend Not Configured",
			"sage does not know where your tutor backend is running.",
			[]string{
				"Set the endpoint: sage config set api.url http://localhost:8000",
				"Or export SAGE_API_URL before launching",
			},
		)
	case tutor.IsUnreachable(err):
		return NewErrorMsgWithSuggestions(
			"Backend Unreachable",
			"Cannot connect to the tutor backend.",
			[]string{
				"Check that the backend is running",
				"Verify the endpoint: sage config get api.url",
			},
		)
	case tutor.IsTimeout(err):
		return NewErrorMsgWithSuggestions(
			"Request Timeout",
			"The request took too long to complete.",
			[]string{"The backend may be overloaded. Try again."},
		)
	default:
		return NewErrorMsg("Error", err.Error())
	}
}
