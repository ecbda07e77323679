// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"fmt"
	"strings"
	"testing"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage_StreamingLifecycle(t *testing.T) {
	msg := NewAssistantMessage()

	if !msg.IsStreaming {
		t.Fatal("new assistant message should be streaming")
	}

	msg.AppendToken("Magnets attract ")
	msg.AppendToken("iron because ")
	msg.AppendToken("of magnetic fields.")

	want := "Magnets attract iron because of magnetic fields."
	if got := msg.GetDisplayContent(); got != want {
		t.Errorf("GetDisplayContent() = %q, want %q", got, want)
	}

	msg.FinalizeStream(nil)

	if msg.IsStreaming {
		t.Error("message should not be streaming after FinalizeStream")
	}
	if msg.Content != want {
		t.Errorf("Content = %q, want %q", msg.Content, want)
	}

	// Appending after finalize is a no-op
	msg.AppendToken(" extra")
	if msg.Content != want {
		t.Errorf("Content after post-finalize append = %q, want %q", msg.Content, want)
	}
}

func TestMessage_SetContentOverwritesPartialStream(t *testing.T) {
	msg := NewAssistantMessage()
	msg.AppendToken("partial answer that will be ")

	msg.SetContent("Something went wrong on the server.")

	if msg.IsStreaming {
		t.Error("SetContent should end streaming")
	}
	if got := msg.GetDisplayContent(); got != "Something went wrong on the server." {
		t.Errorf("GetDisplayContent() = %q", got)
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage("hello world")
	if got := msg.Preview(50); got != "hello world" {
		t.Errorf("Preview(50) = %q, want full content", got)
	}

	long := NewUserMessage(strings.Repeat("a", 100))
	got := msg.Preview(10)
	if len([]rune(got)) > 10 {
		t.Errorf("Preview(10) length = %d, want <= 10", len([]rune(got)))
	}
	got = long.Preview(10)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated Preview = %q, want ... suffix", got)
	}

	// Multibyte content must not be split mid-rune
	jp := NewUserMessage(strings.Repeat("日", 20))
	if got := jp.Preview(10); !strings.HasSuffix(got, "...") {
		t.Errorf("Preview of CJK = %q, want ... suffix", got)
	}
}

func TestMessage_GenerateIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewUserMessage("x").ID
		if seen[id] {
			t.Fatalf("duplicate message ID %q", id)
		}
		seen[id] = true
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_AppendToLast(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("question")
	conv.AddAssistantMessage()

	conv.AppendToLast("part one ")
	conv.AppendToLast("part two")
	conv.FinalizeLast(nil)

	last := conv.GetLastMessage()
	if last.Content != "part one part two" {
		t.Errorf("Content = %q, want concatenated deltas", last.Content)
	}
}

func TestConversation_AppendToLast_NoStreamingMessage(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("question")

	// Must not panic or alter the user message
	conv.AppendToLast("stray token")

	if got := conv.GetLastMessage().Content; got != "question" {
		t.Errorf("Content = %q, want unchanged", got)
	}
}

func TestConversation_ReplaceLast(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("question")
	conv.AddAssistantMessage()
	conv.AppendToLast("partial ")

	conv.ReplaceLast("error text")

	last := conv.GetLastMessage()
	if last.IsStreaming {
		t.Error("ReplaceLast should end streaming")
	}
	if last.Content != "error text" {
		t.Errorf("Content = %q, want %q", last.Content, "error text")
	}
}

func TestConversation_ContextWindow(t *testing.T) {
	conv := NewConversation()
	for i := 0; i < 5; i++ {
		conv.AddUserMessage("q")
		conv.AddAssistantMessage()
		conv.FinalizeLast(nil)
		conv.GetLastMessage().Content = "a"
	}

	window := conv.ContextWindow(HistoryWindow)
	if len(window) != 6 {
		t.Fatalf("ContextWindow(6) length = %d, want 6", len(window))
	}

	// Must be the most recent entries, in chronological order
	all := conv.Messages
	for i, msg := range window {
		if msg != all[len(all)-6+i] {
			t.Errorf("window[%d] is not the expected message", i)
		}
	}
}

func TestConversation_ContextWindow_FewerThanLimit(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("only question")

	window := conv.ContextWindow(HistoryWindow)
	if len(window) != 1 {
		t.Errorf("ContextWindow length = %d, want 1", len(window))
	}
}

func TestConversation_ContextWindow_ExcludesSystemAndStreaming(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("q1")
	conv.AddSystemMessage("notice")
	conv.AddAssistantMessage() // still streaming

	window := conv.ContextWindow(HistoryWindow)
	if len(window) != 1 {
		t.Fatalf("ContextWindow length = %d, want 1", len(window))
	}
	if window[0].Role != RoleUser {
		t.Errorf("window[0].Role = %v, want user", window[0].Role)
	}
}

func TestConversation_ClearHistory(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("q")
	conv.ClearHistory()

	if !conv.IsEmpty() {
		t.Error("conversation should be empty after ClearHistory")
	}
	if conv.TokensUsed != 0 {
		t.Errorf("TokensUsed = %d, want 0", conv.TokensUsed)
	}
}

func TestConversation_TitleFromFirstUserMessage(t *testing.T) {
	conv := NewConversation()
	if conv.GetTitle() != "New Conversation" {
		t.Errorf("GetTitle() = %q, want default", conv.GetTitle())
	}

	conv.AddUserMessage("How do magnets work?")
	if conv.GetTitle() != "How do magnets work?" {
		t.Errorf("GetTitle() = %q", conv.GetTitle())
	}
}

func TestConversation_PruneOldMessages(t *testing.T) {
	conv := NewConversation()
	conv.AddSystemMessage("keep me")
	for i := 0; i < MaxMessages+10; i++ {
		conv.AddUserMessage("m")
	}

	// MaxMessages non-system plus the preserved system message
	if got := conv.MessageCount(); got != MaxMessages+1 {
		t.Errorf("MessageCount = %d, want %d", got, MaxMessages+1)
	}
	if conv.Messages[0].Role != RoleSystem {
		t.Error("system message should survive pruning")
	}
}

func TestConversation_PrunePreservesOrder(t *testing.T) {
	conv := NewConversation()
	for i := 0; i < 500; i++ {
		conv.AddUserMessage(fmt.Sprintf("q%d", i))
	}
	conv.AddSystemMessage("notice")
	for i := 0; i < 600; i++ {
		conv.AddUserMessage(fmt.Sprintf("r%d", i))
	}

	// The oldest non-system messages get dropped; everything else stays
	// in transcript order with the notice in place.
	dropped := 500 + 600 - MaxMessages
	if got := conv.MessageCount(); got != MaxMessages+1 {
		t.Fatalf("MessageCount = %d, want %d", got, MaxMessages+1)
	}
	if want := fmt.Sprintf("q%d", dropped); conv.Messages[0].Content != want {
		t.Errorf("Messages[0] = %q, want %s", conv.Messages[0].Content, want)
	}
	if conv.Messages[500-dropped].Role != RoleSystem {
		t.Errorf("system notice moved; Messages[%d] = %q", 500-dropped, conv.Messages[500-dropped].Content)
	}
	if got := conv.GetLastMessage().Content; got != "r599" {
		t.Errorf("last message = %q, want r599", got)
	}
}

// =============================================================================
// SUGGESTION TESTS
// =============================================================================

func TestSuggestionAction_Known(t *testing.T) {
	tests := []struct {
		action SuggestionAction
		want   bool
	}{
		{ActionGenerateVideo, true},
		{ActionCreateQuiz, true},
		{SuggestionAction("EXPLAIN_MORE"), false},
		{SuggestionAction(""), false},
	}

	for _, tt := range tests {
		if got := tt.action.Known(); got != tt.want {
			t.Errorf("Known(%q) = %v, want %v", tt.action, got, tt.want)
		}
	}
}

// =============================================================================
// VIDEO JOB TESTS
// =============================================================================

func TestVideoJob_Lifecycle(t *testing.T) {
	job := NewVideoJob("answer text")

	if job.ID == "" {
		t.Error("job should have a local ID")
	}
	if job.Status != StatusRequested {
		t.Errorf("Status = %v, want REQUESTED", job.Status)
	}
	if job.IsDone() {
		t.Error("REQUESTED job should not be done")
	}

	// Server in-progress status passes through and is not terminal
	job.SetStatus(VideoStatus("RENDERING"))
	if job.IsDone() {
		t.Error("RENDERING job should not be done")
	}

	job.Complete("https://cdn.example.com/v/1.mp4")
	if !job.IsDone() {
		t.Error("COMPLETE job should be done")
	}
	if job.URL != "https://cdn.example.com/v/1.mp4" {
		t.Errorf("URL = %q", job.URL)
	}
}

func TestVideoJob_Fail(t *testing.T) {
	job := NewVideoJob("text")
	job.Fail("render farm unavailable")

	if job.Status != StatusFailed {
		t.Errorf("Status = %v, want FAILED", job.Status)
	}
	if job.Detail != "render farm unavailable" {
		t.Errorf("Detail = %q", job.Detail)
	}
}

func TestVideoStatus_IsTerminal(t *testing.T) {
	terminal := []VideoStatus{StatusComplete, StatusFailed, StatusTimedOut}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%v should be terminal", s)
		}
	}

	nonTerminal := []VideoStatus{StatusRequested, VideoStatus("PENDING"), VideoStatus("RENDERING")}
	for _, s := range nonTerminal {
		if s.IsTerminal() {
			t.Errorf("%v should not be terminal", s)
		}
	}
}
