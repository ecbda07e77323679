// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/sage-tui/internal/config"
	"github.com/jeranaias/sage-tui/internal/model"
	"github.com/jeranaias/sage-tui/internal/tutor"
	"github.com/jeranaias/sage-tui/internal/ui/components"
	"github.com/jeranaias/sage-tui/internal/ui/styles"
	"github.com/jeranaias/sage-tui/internal/video"
)

// asModel unwraps the tea.Model returned by Update back to chat.Model.
func asModel(t *testing.T, tm tea.Model) Model {
	t.Helper()
	m, ok := tm.(Model)
	if !ok {
		t.Fatalf("Update returned %T, expected chat.Model", tm)
	}
	return m
}

// submitTurn runs a turn submission and returns the updated model. The
// program reference is nil in tests so no stream goroutine sends anything;
// stream messages are injected by hand.
func submitTurn(t *testing.T, m Model, question string) Model {
	t.Helper()
	tm, _ := m.Update(SubmitInputMsg{Content: question})
	return asModel(t, tm)
}

func newTestModel() Model {
	return New(styles.NewTheme())
}

// =============================================================================
// TURN LIFECYCLE
// =============================================================================

func TestSubmitCreatesUserAndAssistantMessages(t *testing.T) {
	m := submitTurn(t, newTestModel(), "What is a magnet?")

	if m.state != StateStreaming {
		t.Errorf("Expected StateStreaming, got %v", m.state)
	}
	if m.streamingMsgID == "" {
		t.Error("Expected a streaming message ID")
	}
	if got := m.conversation.MessageCount(); got != 2 {
		t.Fatalf("Expected 2 messages, got %d", got)
	}

	last := m.conversation.GetLastMessage()
	if last.Role != model.RoleAssistant {
		t.Errorf("Expected assistant placeholder last, got %s", last.Role)
	}
	if !last.IsStreaming {
		t.Error("Expected assistant placeholder to be streaming")
	}
}

func TestDeltasConcatenateInOrder(t *testing.T) {
	m := submitTurn(t, newTestModel(), "What is a magnet?")
	id := m.streamingMsgID

	tm, _ := m.Update(StreamTokenMsg{MessageID: id, Token: "A magnet is a material ", IsFirst: true})
	m = asModel(t, tm)
	tm, _ = m.Update(StreamTokenMsg{MessageID: id, Token: "that produces a magnetic field."})
	m = asModel(t, tm)
	tm, _ = m.Update(StreamCompleteMsg{MessageID: id, Stats: model.NewStatistics()})
	m = asModel(t, tm)

	last := m.conversation.GetLastMessage()
	want := "A magnet is a material that produces a magnetic field."
	if last.Content != want {
		t.Errorf("Expected '%s', got '%s'", want, last.Content)
	}
	if m.state != StateReady {
		t.Errorf("Expected StateReady after completion, got %v", m.state)
	}
}

func TestStreamCompleteIsIdempotent(t *testing.T) {
	m := submitTurn(t, newTestModel(), "hi")
	id := m.streamingMsgID

	tm, _ := m.Update(StreamTokenMsg{MessageID: id, Token: "hello", IsFirst: true})
	m = asModel(t, tm)
	tm, _ = m.Update(StreamCompleteMsg{MessageID: id})
	m = asModel(t, tm)

	count := m.conversation.MessageCount()
	content := m.conversation.GetLastMessage().Content

	// A connection close after stream_end produces a second completion.
	tm, _ = m.Update(StreamCompleteMsg{MessageID: id})
	m = asModel(t, tm)

	if m.conversation.MessageCount() != count {
		t.Error("Second completion changed the message count")
	}
	if m.conversation.GetLastMessage().Content != content {
		t.Error("Second completion changed the message content")
	}
	if m.state != StateReady {
		t.Errorf("Expected StateReady, got %v", m.state)
	}
}

func TestStreamErrorReplacesPartialAnswer(t *testing.T) {
	m := submitTurn(t, newTestModel(), "hi")
	id := m.streamingMsgID

	tm, _ := m.Update(StreamTokenMsg{MessageID: id, Token: "partial ans", IsFirst: true})
	m = asModel(t, tm)
	tm, _ = m.Update(StreamErrorMsg{MessageID: id, Detail: "The tutor had a problem with this question."})
	m = asModel(t, tm)

	last := m.conversation.GetLastMessage()
	if last.Content != "The tutor had a problem with this question." {
		t.Errorf("Expected error text to replace partial answer, got '%s'", last.Content)
	}
	if last.IsStreaming {
		t.Error("Expected message finalized after error")
	}
	if m.state != StateReady {
		t.Errorf("Expected StateReady after in-band error, got %v", m.state)
	}
	if m.streamingMsgID != "" {
		t.Error("Expected streaming ID cleared after error")
	}

	// Late messages from the dead stream are dropped.
	count := m.conversation.MessageCount()
	tm, _ = m.Update(StreamTokenMsg{MessageID: id, Token: "zombie"})
	m = asModel(t, tm)
	if m.conversation.GetLastMessage().Content != last.Content {
		t.Error("Late token mutated the errored message")
	}
	if m.conversation.MessageCount() != count {
		t.Error("Late token changed the message count")
	}
}

func TestSubmitIgnoredWhileStreaming(t *testing.T) {
	m := submitTurn(t, newTestModel(), "first question")
	count := m.conversation.MessageCount()

	m = submitTurn(t, m, "second question while loading")

	if m.conversation.MessageCount() != count {
		t.Error("Submit during streaming should be ignored")
	}
}

func TestEmptySubmitIgnored(t *testing.T) {
	m := newTestModel()
	m = submitTurn(t, m, "   ")

	if m.conversation.MessageCount() != 0 {
		t.Error("Whitespace-only submit should be ignored")
	}
}

// =============================================================================
// SUGGESTIONS
// =============================================================================

func TestSuggestionsArriveAndResetOnNewTurn(t *testing.T) {
	m := submitTurn(t, newTestModel(), "hi")
	id := m.streamingMsgID

	tm, _ := m.Update(SuggestionMsg{MessageID: id, Suggestion: model.Suggestion{
		Label: "Generate a video", Action: model.ActionGenerateVideo,
	}})
	m = asModel(t, tm)
	tm, _ = m.Update(StreamCompleteMsg{MessageID: id})
	m = asModel(t, tm)

	if !m.suggestions.HasSuggestions() {
		t.Fatal("Expected suggestion chip after stream")
	}

	m = submitTurn(t, m, "next question")
	if m.suggestions.HasSuggestions() {
		t.Error("New turn should clear suggestion chips")
	}
}

func TestUnknownSuggestionActionDegrades(t *testing.T) {
	m := newTestModel()

	tm, _ := m.activateSuggestion(model.Suggestion{Label: "Mystery", Action: "DO_SOMETHING_NEW"})
	m = asModel(t, tm)

	last := m.conversation.GetLastMessage()
	if last == nil {
		t.Fatal("Expected a message after unknown action")
	}
	if last.Content != "That feature is coming soon." {
		t.Errorf("Expected coming-soon notice, got '%s'", last.Content)
	}
}

func TestQuizSuggestionSubmitsCannedQuestion(t *testing.T) {
	m := newTestModel()

	tm, _ := m.activateSuggestion(model.Suggestion{Label: "Quiz me", Action: model.ActionCreateQuiz})
	m = asModel(t, tm)

	if m.state != StateStreaming {
		t.Errorf("Expected quiz activation to start a turn, got state %v", m.state)
	}
	user := m.conversation.GetLastUserMessage()
	if user == nil || user.Content != quizFollowUp {
		t.Errorf("Expected canned quiz question, got %v", user)
	}
}

// =============================================================================
// VIDEO JOBS
// =============================================================================

func TestVideoJobStartedAttachesJob(t *testing.T) {
	m := newTestModel()

	tm, _ := m.Update(VideoJobStartedMsg{JobID: "v1"})
	m = asModel(t, tm)

	if m.videoJob == nil {
		t.Fatal("Expected a video job")
	}
	if m.videoJob.JobID != "v1" {
		t.Errorf("Expected job id v1, got %s", m.videoJob.JobID)
	}
	if m.videoJob.Status != model.StatusRequested {
		t.Errorf("Expected REQUESTED, got %s", m.videoJob.Status)
	}
}

func TestVideoUpdateTransitions(t *testing.T) {
	m := newTestModel()
	tm, _ := m.Update(VideoJobStartedMsg{JobID: "v1"})
	m = asModel(t, tm)

	tm, _ = m.Update(VideoUpdateMsg{Update: video.Update{JobID: "v1", Status: "PROCESSING", Attempt: 1}})
	m = asModel(t, tm)
	if m.videoJob.Status != "PROCESSING" {
		t.Errorf("Expected server status verbatim, got %s", m.videoJob.Status)
	}
	if m.videoJob.Attempts != 1 {
		t.Errorf("Expected attempt 1, got %d", m.videoJob.Attempts)
	}

	tm, _ = m.Update(VideoUpdateMsg{Update: video.Update{
		JobID: "v1", Status: model.StatusComplete, URL: "http://cdn/video.mp4", Attempt: 3,
	}})
	m = asModel(t, tm)
	if m.videoJob.Status != model.StatusComplete {
		t.Errorf("Expected COMPLETE, got %s", m.videoJob.Status)
	}
	if m.videoJob.URL != "http://cdn/video.mp4" {
		t.Errorf("Expected URL captured, got %s", m.videoJob.URL)
	}
}

func TestVideoUpdateTimedOut(t *testing.T) {
	m := newTestModel()
	tm, _ := m.Update(VideoJobStartedMsg{JobID: "v1"})
	m = asModel(t, tm)

	tm, _ = m.Update(VideoUpdateMsg{Update: video.Update{JobID: "v1", Status: model.StatusTimedOut, Attempt: 24}})
	m = asModel(t, tm)

	if m.videoJob.Status != model.StatusTimedOut {
		t.Errorf("Expected TIMED_OUT, got %s", m.videoJob.Status)
	}
}

func TestStaleVideoUpdateIgnored(t *testing.T) {
	m := newTestModel()
	tm, _ := m.Update(VideoJobStartedMsg{JobID: "v2"})
	m = asModel(t, tm)

	tm, _ = m.Update(VideoUpdateMsg{Update: video.Update{JobID: "v1", Status: model.StatusComplete}})
	m = asModel(t, tm)

	if m.videoJob.Status == model.StatusComplete {
		t.Error("Update for a replaced job must not touch the current job")
	}
}

func TestNewTurnResetsVideoState(t *testing.T) {
	m := newTestModel()
	tm, _ := m.Update(VideoJobStartedMsg{JobID: "v1"})
	m = asModel(t, tm)

	m = submitTurn(t, m, "new question")

	if m.videoJob != nil {
		t.Error("New turn should reset video job state")
	}
}

func TestVideoRequestFailed(t *testing.T) {
	m := newTestModel()

	tm, _ := m.Update(VideoTriggerMsg{SourceText: "explain magnets"})
	m = asModel(t, tm)
	if m.videoJob == nil || m.videoJob.Status != model.StatusRequested {
		t.Fatal("Expected a REQUESTED job after trigger")
	}

	tm, _ = m.Update(VideoRequestFailedMsg{Detail: "service rejected the request"})
	m = asModel(t, tm)
	if m.videoJob.Status != model.StatusFailed {
		t.Errorf("Expected FAILED, got %s", m.videoJob.Status)
	}
	if m.videoJob.Detail != "service rejected the request" {
		t.Errorf("Expected detail kept, got '%s'", m.videoJob.Detail)
	}
}

// =============================================================================
// BACKEND STATUS
// =============================================================================

func TestBackendStatusOnline(t *testing.T) {
	m := newTestModel()

	tm, _ := m.Update(BackendStatusMsg{Running: true})
	m = asModel(t, tm)

	if m.conn != components.ConnOnline {
		t.Errorf("Expected ConnOnline, got %v", m.conn)
	}
}

func TestBackendStatusOffline(t *testing.T) {
	m := newTestModel()

	tm, _ := m.Update(BackendStatusMsg{Running: false})
	m = asModel(t, tm)

	if m.conn != components.ConnOffline {
		t.Errorf("Expected ConnOffline, got %v", m.conn)
	}
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

func TestConfigReloadRebindsClient(t *testing.T) {
	m := NewWithClient(styles.NewTheme(), tutor.NewClient(&tutor.ClientConfig{
		BaseURL: "http://old.example:8000",
	}))

	cfg := config.Default()
	cfg.API.URL = "http://new.example:9000"
	cfg.Video.MaxPollAttempts = 7

	tm, cmd := m.Update(ConfigReloadedMsg{Config: cfg})
	m = asModel(t, tm)

	if got := m.client.BaseURL(); got != "http://new.example:9000" {
		t.Errorf("Expected rebound client URL, got %q", got)
	}
	if m.videoBudget != 7 {
		t.Errorf("Expected poll budget 7, got %d", m.videoBudget)
	}
	if cmd == nil {
		t.Error("Expected a backend re-check command after reload")
	}
}

func TestConfigReloadToEmptyURLMarksUnconfigured(t *testing.T) {
	m := NewWithClient(styles.NewTheme(), tutor.NewClient(&tutor.ClientConfig{
		BaseURL: "http://old.example:8000",
	}))

	cfg := config.Default()
	cfg.API.URL = ""

	tm, _ := m.Update(ConfigReloadedMsg{Config: cfg})
	m = asModel(t, tm)

	if m.conn != components.ConnUnconfigured {
		t.Errorf("Expected ConnUnconfigured, got %v", m.conn)
	}
}

// =============================================================================
// STARTUP QUESTION
// =============================================================================

// drainCmd executes a command tree and collects the produced messages.
func drainCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, sub := range batch {
			msgs = append(msgs, drainCmd(sub)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func TestInitialQuestionSubmittedOnStartup(t *testing.T) {
	m := newTestModel()
	m.SetInitialQuestion("what is a magnet")

	var submitted string
	for _, msg := range drainCmd(m.Init()) {
		if sub, ok := msg.(SubmitInputMsg); ok {
			submitted = sub.Content
		}
	}

	if submitted != "what is a magnet" {
		t.Errorf("Expected initial question submission, got %q", submitted)
	}
}

func TestNoInitialQuestionByDefault(t *testing.T) {
	m := newTestModel()

	for _, msg := range drainCmd(m.Init()) {
		if _, ok := msg.(SubmitInputMsg); ok {
			t.Error("Expected no submission without an initial question")
		}
	}
}
