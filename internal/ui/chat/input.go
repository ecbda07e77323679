// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file handles keyboard input, turn submission, slash commands, and
// suggestion chip activation.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/sage-tui/internal/model"
	"github.com/jeranaias/sage-tui/internal/ui/components"
)

// quizFollowUp is the canned question submitted when the user activates a
// CREATE_QUIZ suggestion chip.
const quizFollowUp = "Create a short quiz to test my understanding of this topic."

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The help overlay swallows everything except close and quit.
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keyMap.Help), key.Matches(msg, m.keyMap.Cancel):
			m.showHelp = false
		case key.Matches(msg, m.keyMap.Quit):
			m.cancelStream()
			go m.poller.Stop()
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.cancelStream()
		go m.poller.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keyMap.NewSession):
		return m.handleNewConversation()

	case key.Matches(msg, m.keyMap.Clear):
		m.refreshViewport()
		return m, tea.ClearScreen

	case key.Matches(msg, m.keyMap.NextChip):
		if m.suggestions.HasSuggestions() {
			m.suggestions.CycleNext()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.PrevChip):
		if m.suggestions.HasSuggestions() {
			m.suggestions.CyclePrev()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Cancel):
		return m.handleEscape()

	case key.Matches(msg, m.keyMap.Submit):
		if chip := m.suggestions.Current(); chip != nil {
			return m.activateSuggestion(*chip)
		}
		return m.handleSubmit(m.input.Value())

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Home):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keyMap.End):
		m.viewport.GotoBottom()
		return m, nil

	case key.Matches(msg, m.keyMap.Up):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.viewport.LineDown(1)
		return m, nil
	}

	// Everything else is text entry.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleEscape resolves in priority order: dismiss an error, cancel the
// in-flight turn, deselect the suggestion chip, then clear the input.
func (m Model) handleEscape() (tea.Model, tea.Cmd) {
	if m.lastError != nil {
		m.lastError = nil
		if m.state == StateError {
			m.state = StateReady
			m.statusBar.SetStatus(components.StatusReady)
		}
		return m, nil
	}

	if m.state == StateStreaming {
		return m.cancelTurn()
	}

	if m.suggestions.Current() != nil {
		m.suggestions.Deselect()
		return m, nil
	}

	m.input.SetValue("")
	return m, nil
}

// cancelTurn aborts the in-flight stream and keeps whatever answer text has
// already arrived. Late messages from the stream goroutine are dropped by
// the streamingMsgID guards.
func (m Model) cancelTurn() (tea.Model, tea.Cmd) {
	m.cancelStream()

	if chunk, ok := m.streamingBuffer.ForceFlush(); ok {
		m.conversation.AppendToLast(chunk)
	}
	m.conversation.FinalizeLast(nil)
	m.conversation.AddSystemMessage("Response cancelled.")

	m.streamingMsgID = ""
	m.isThinking = false
	m.state = StateReady
	m.statusBar.SetStatus(components.StatusReady)
	m.refreshViewport()

	return m, nil
}

// =============================================================================
// TURN SUBMISSION
// =============================================================================

func (m Model) handleSubmit(content string) (tea.Model, tea.Cmd) {
	content = strings.TrimSpace(content)
	if content == "" {
		return m, nil
	}

	// One turn at a time; ignore submits while an answer is streaming.
	if m.state == StateStreaming {
		return m, nil
	}

	if strings.HasPrefix(content, "/") {
		return m.handleSlashCommand(content)
	}

	m.input.SetValue("")
	return m.startTurn(content)
}

// startTurn records the question, creates the streaming assistant message,
// and launches the stream goroutine. Suggestions and any in-flight video job
// belong to the previous turn and are dropped.
func (m Model) startTurn(question string) (tea.Model, tea.Cmd) {
	m.suggestions.Clear()
	m.dropVideoJob()
	m.lastError = nil

	// History is captured before the new question is added; the question
	// travels in its own field.
	history := m.conversation.ToHistory(6)

	m.conversation.AddUserMessage(question)
	assistant := m.conversation.AddAssistantMessage()

	m.streamingMsgID = assistant.ID
	m.streamingBuffer.Reset()
	m.state = StateStreaming
	m.isThinking = true
	m.statusBar.SetStatus(components.StatusThinking)
	m.refreshViewport()

	ctx, cancel := context.WithCancel(context.Background())
	m.setCancelFunc(cancel)

	runner := NewTurnRunner(program(), m.client)
	go runner.Run(ctx, question, history, assistant.ID)

	return m, tea.Batch(m.spinner.Tick, SpinnerTickCmd())
}

// dropVideoJob abandons the active video job, if any. The poll loop is
// stopped off the Update goroutine since Stop waits for the loop to exit.
func (m *Model) dropVideoJob() {
	if m.videoJob == nil {
		return
	}
	if !m.videoJob.IsDone() {
		go m.poller.Stop()
	}
	m.videoJob = nil
	m.videoCard = components.NewVideoCard(nil, m.videoBudget, m.theme)
	m.videoCard.SetWidth(m.width)
	m.statusBar.SetVideoProgress(false, 0, 0)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func (m Model) handleSlashCommand(content string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(content)
	cmd := strings.ToLower(fields[0])

	m.input.SetValue("")

	switch cmd {
	case "/new", "/clear":
		return m.handleNewConversation()

	case "/video":
		if last := m.conversation.GetLastAssistantMessage(); last != nil {
			return m, func() tea.Msg {
				return VideoTriggerMsg{SourceText: ""}
			}
		}
		m.conversation.AddSystemMessage("Nothing to make a video from yet. Ask a question first.")
		m.refreshViewport()
		return m, nil

	case "/help":
		m.showHelp = !m.showHelp
		return m, nil

	case "/quit", "/exit":
		m.cancelStream()
		go m.poller.Stop()
		return m, tea.Quit

	default:
		m.conversation.AddSystemMessage("Unknown command: " + cmd)
		m.refreshViewport()
		return m, nil
	}
}

// =============================================================================
// SUGGESTION ACTIVATION
// =============================================================================

// activateSuggestion runs the selected chip's action. Unknown actions
// degrade gracefully to a notice rather than an error.
func (m Model) activateSuggestion(chip model.Suggestion) (tea.Model, tea.Cmd) {
	m.suggestions.Clear()

	switch chip.Action {
	case model.ActionGenerateVideo:
		return m, func() tea.Msg {
			return VideoTriggerMsg{SourceText: ""}
		}

	case model.ActionCreateQuiz:
		return m.startTurn(quizFollowUp)

	default:
		m.conversation.AddAssistantMessage()
		m.conversation.ReplaceLast("That feature is coming soon.")
		m.refreshViewport()
		return m, nil
	}
}

// =============================================================================
// INPUT FOCUS
// =============================================================================

// FocusInput puts the cursor in the text input.
func (m *Model) FocusInput() tea.Cmd {
	m.input.Focus()
	return textinput.Blink
}
