// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines all Bubble Tea message types used by the chat interface.
// Messages are organized into the following categories:
//   - Streaming: Stream start, token delivery, suggestions, completion, errors
//   - Video: Job creation, poll updates, and failures
//   - Backend: Health checks and connection status
//   - Input: User input submission and cancellation
//   - Conversation: New session and clear operations
//   - UI State: Resize, thinking animation, error display
//
// All message types follow Bubble Tea conventions and are immutable.
package chat

import (
	"time"

	"github.com/jeranaias/sage-tui/internal/config"
	"github.com/jeranaias/sage-tui/internal/model"
	"github.com/jeranaias/sage-tui/internal/video"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamStartMsg signals that a turn has been submitted and streaming begun.
type StreamStartMsg struct {
	MessageID string
	StartTime time.Time
}

// StreamTokenMsg delivers a content delta from the stream.
type StreamTokenMsg struct {
	MessageID string
	Token     string
	IsFirst   bool // True if this is the first delta of the turn
}

// SuggestionMsg delivers a suggestion chip from the stream.
type SuggestionMsg struct {
	MessageID  string
	Suggestion model.Suggestion
}

// VideoTriggerMsg signals that the backend decided the answer warrants a
// video and the client should call the generate endpoint. SourceText is the
// record's data when present; otherwise the latest assistant text is used.
type VideoTriggerMsg struct {
	MessageID  string
	SourceText string
}

// StreamCompleteMsg signals that the turn finished. Both an explicit
// stream_end record and a plain connection close produce this message;
// handling is idempotent so receiving it twice is harmless.
type StreamCompleteMsg struct {
	MessageID string
	Stats     *model.Statistics
	Error     error
}

// StreamErrorMsg signals a fatal error for the current turn, either a typed
// error record from the stream or a transport failure.
type StreamErrorMsg struct {
	MessageID string
	Error     error
	// Detail is the human-readable data of an error record, used to
	// replace any partial answer text.
	Detail string
}

// StreamTickMsg is sent at 30fps during streaming to batch render tokens.
// This prevents excessive rendering which causes flicker and high CPU.
type StreamTickMsg struct {
	Time time.Time
}

// =============================================================================
// VIDEO MESSAGES
// =============================================================================

// VideoJobStartedMsg confirms the generate endpoint accepted the request and
// polling has begun.
type VideoJobStartedMsg struct {
	JobID string
}

// VideoRequestFailedMsg signals that the generate endpoint rejected the
// request, before any polling started.
type VideoRequestFailedMsg struct {
	Detail string
	Error  error
}

// VideoUpdateMsg wraps a poll loop update for the Bubble Tea loop.
type VideoUpdateMsg struct {
	Update video.Update
}

// =============================================================================
// BACKEND MESSAGES
// =============================================================================

// BackendCheckMsg requests a backend health check.
type BackendCheckMsg struct{}

// BackendStatusMsg reports the backend connection status.
type BackendStatusMsg struct {
	Running bool
	Error   error
}

// ConfigReloadedMsg delivers a freshly reloaded configuration. Sent by the
// config file watcher when the config file changes on disk, so edits take
// effect without restarting the TUI.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// =============================================================================
// INPUT MESSAGES
// =============================================================================

// SubmitInputMsg signals that the user submitted input.
type SubmitInputMsg struct {
	Content string
}

// CancelInputMsg signals that the user cancelled input (Escape).
type CancelInputMsg struct{}

// =============================================================================
// CONVERSATION MESSAGES
// =============================================================================

// NewConversationMsg starts a new conversation.
type NewConversationMsg struct{}

// ClearConversationMsg clears the current conversation.
type ClearConversationMsg struct{}

// =============================================================================
// UI STATE MESSAGES
// =============================================================================

// ResizeMsg signals a terminal resize.
type ResizeMsg struct {
	Width  int
	Height int
}

// ThinkingStartMsg starts the thinking animation.
type ThinkingStartMsg struct {
	Message string
}

// ThinkingStopMsg stops the thinking animation.
type ThinkingStopMsg struct{}

// SpinnerTickMsg advances the spinner animation.
type SpinnerTickMsg struct {
	Time time.Time
}

// =============================================================================
// ERROR MESSAGES
// =============================================================================

// ErrorMsg displays an error to the user.
type ErrorMsg struct {
	Title       string
	Message     string
	Suggestions []string
	Dismissible bool
}

// ErrorDismissMsg dismisses the current error.
type ErrorDismissMsg struct{}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// NewStreamStartMsg creates a new StreamStartMsg with the current timestamp.
func NewStreamStartMsg(messageID string) StreamStartMsg {
	return StreamStartMsg{
		MessageID: messageID,
		StartTime: time.Now(),
	}
}

// NewStreamTokenMsg creates a new StreamTokenMsg for delivering streamed
// content. The isFirst flag indicates whether this is the first delta.
func NewStreamTokenMsg(messageID, token string, isFirst bool) StreamTokenMsg {
	return StreamTokenMsg{
		MessageID: messageID,
		Token:     token,
		IsFirst:   isFirst,
	}
}

// NewStreamCompleteMsg creates a new StreamCompleteMsg to signal turn
// completion, with optional statistics and error information.
func NewStreamCompleteMsg(messageID string, stats *model.Statistics, err error) StreamCompleteMsg {
	return StreamCompleteMsg{
		MessageID: messageID,
		Stats:     stats,
		Error:     err,
	}
}

// NewErrorMsg creates a new dismissible error message.
func NewErrorMsg(title, message string) ErrorMsg {
	return ErrorMsg{
		Title:       title,
		Message:     message,
		Dismissible: true,
	}
}

// NewErrorMsgWithSuggestions creates an error message with actionable
// suggestions.
func NewErrorMsgWithSuggestions(title, message string, suggestions []string) ErrorMsg {
	return ErrorMsg{
		Title:       title,
		Message:     message,
		Suggestions: suggestions,
		Dismissible: true,
	}
}

// NewStreamTickMsg creates a streaming tick message.
func NewStreamTickMsg() StreamTickMsg {
	return StreamTickMsg{Time: time.Now()}
}
